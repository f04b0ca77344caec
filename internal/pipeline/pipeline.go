// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"kbuild-cli/internal/cargo"
	"kbuild-cli/internal/dotconfig"
	"kbuild-cli/internal/generate"
	"kbuild-cli/internal/validate"
	"kbuild-cli/internal/workspace"
)

type (
	// Mode selects how far the pipeline runs.
	Mode int

	// Options configures one pipeline run.
	Options struct {
		// WorkspaceRoot is the Cargo workspace root directory.
		WorkspaceRoot string
		// ConfigPath is the option-file path.
		ConfigPath string
		// Mode selects build (full) or check (stop after generation).
		Mode Mode
		// CargoBinary overrides the cargo executable; empty means PATH lookup.
		CargoBinary string
		// BuildArgs are extra arguments appended to the cargo invocation.
		BuildArgs []string

		// Stdout/Stderr/Stdin are wired to the child build process.
		Stdout io.Writer
		Stderr io.Writer
		Stdin  io.Reader

		// Logger receives stage progress, notes, and warnings. Nil disables
		// logging.
		Logger *log.Logger
	}

	// Result captures everything a run derived. The pipeline holds no state
	// between runs; every invocation rebuilds this from scratch.
	Result struct {
		// OptionNames is the full flag-declaration set, sorted.
		OptionNames []string
		// EnabledFeatures are the config keys set to y or m, sorted.
		EnabledFeatures []string
		// Notes are the validator's informational findings.
		Notes []validate.Note
		// Warnings are the non-fatal reconciliation findings.
		Warnings []generate.Warning
		// FlagArtifactPath and ConstantsArtifactPath are the written artifacts.
		FlagArtifactPath      string
		ConstantsArtifactPath string
		// ExitCode is the relayed build exit status (0 in check mode).
		ExitCode cargo.ExitCode
	}
)

const (
	// ModeBuild runs the full pipeline including the cargo invocation.
	ModeBuild Mode = iota
	// ModeCheck stops immediately after validation and generation.
	ModeCheck
)

// Run executes the pipeline as a strict sequence: load workspace (members
// classified at load) → validate feature wiring → parse the option file →
// generate artifacts → invoke the build. Every fatal error aborts before the
// build invoker is called; warnings are collected on the Result and never
// block progress.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	logger.Debug("loading workspace", "root", opts.WorkspaceRoot)
	ws, err := workspace.Load(opts.WorkspaceRoot)
	if err != nil {
		return nil, err
	}
	logger.Debug("workspace loaded", "packages", len(ws.Packages))

	logger.Info("validating feature dependencies")
	notes, err := validate.Workspace(ws)
	res := &Result{Notes: notes}
	for _, note := range notes {
		logger.Info(note.String())
	}
	if err != nil {
		return res, err
	}

	logger.Debug("parsing option file", "path", opts.ConfigPath)
	cfg, err := dotconfig.ParseFile(opts.ConfigPath)
	if err != nil {
		return res, err
	}

	res.OptionNames = generate.OptionNames(ws, cfg)
	res.EnabledFeatures = generate.EnabledFeatures(cfg)
	res.Warnings = generate.Reconcile(ws, cfg)
	for _, w := range res.Warnings {
		logger.Warn(w.String())
	}

	res.FlagArtifactPath, err = generate.WriteCargoConfig(opts.WorkspaceRoot, res.OptionNames)
	if err != nil {
		return res, err
	}
	logger.Info("wrote flag declarations", "path", res.FlagArtifactPath, "options", len(res.OptionNames))

	res.ConstantsArtifactPath, err = generate.WriteConstants(opts.WorkspaceRoot, cfg)
	if err != nil {
		return res, err
	}
	logger.Info("wrote typed constants", "path", res.ConstantsArtifactPath)

	if opts.Mode == ModeCheck {
		return res, nil
	}

	args := []string{"build"}
	if len(res.EnabledFeatures) > 0 {
		args = append(args, "--features", strings.Join(res.EnabledFeatures, ","))
	}
	args = append(args, opts.BuildArgs...)

	env := map[string]string{}
	if flags := generate.Rustflags(res.OptionNames, res.EnabledFeatures); flags != "" {
		env["RUSTFLAGS"] = flags
	}

	logger.Info("running cargo", "args", strings.Join(args, " "))
	res.ExitCode, err = cargo.Run(ctx, cargo.Invocation{
		Binary: opts.CargoBinary,
		Root:   opts.WorkspaceRoot,
		Args:   args,
		Env:    env,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
		Stdin:  opts.Stdin,
	})
	if err != nil {
		return res, err
	}

	return res, nil
}
