// SPDX-License-Identifier: MPL-2.0

package cargo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
)

// DefaultBinary is the cargo executable looked up on PATH when no override
// is configured.
const DefaultBinary = "cargo"

// ErrCargoNotFound is the sentinel error wrapped by NotFoundError.
var ErrCargoNotFound = errors.New("cargo binary not found")

type (
	// ExitCode represents a child-process exit status. The zero value means
	// success.
	ExitCode int

	// Invocation describes one cargo run. The invoker does not interpret
	// cargo's output; stdout and stderr are relayed verbatim.
	Invocation struct {
		// Binary overrides the cargo executable; empty means DefaultBinary.
		Binary string
		// Root is the working directory (the workspace root).
		Root string
		// Args are the cargo arguments, e.g. ["build", "--features", "..."].
		Args []string
		// Env holds additional environment variables (e.g. RUSTFLAGS),
		// layered over the inherited environment.
		Env map[string]string

		Stdout io.Writer
		Stderr io.Writer
		Stdin  io.Reader
	}

	// NotFoundError is returned when the cargo binary cannot be resolved.
	// It wraps ErrCargoNotFound for errors.Is() compatibility.
	NotFoundError struct {
		Binary string
	}
)

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cargo binary not found: %s", e.Binary)
}

// Unwrap returns ErrCargoNotFound so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrCargoNotFound }

// Run executes one cargo invocation and relays its exit status. A non-zero
// child exit is not an error here; the code is passed through for the caller
// to relay. An error is returned only when the process cannot be started at
// all.
func Run(ctx context.Context, inv Invocation) (ExitCode, error) {
	binary := inv.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return 1, &NotFoundError{Binary: binary}
	}

	cmd := exec.CommandContext(ctx, resolved, inv.Args...)
	cmd.Dir = inv.Root
	cmd.Env = append(os.Environ(), envToSlice(inv.Env)...)
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	cmd.Stdin = inv.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return ExitCode(exitErr.ExitCode()), nil
		}
		return 1, fmt.Errorf("failed to run %s: %w", binary, err)
	}

	return 0, nil
}

// envToSlice converts an env map to KEY=VALUE form in sorted key order, so
// invocations are reproducible.
func envToSlice(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(env))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
