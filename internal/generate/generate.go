// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"kbuild-cli/internal/dotconfig"
	"kbuild-cli/internal/workspace"
)

// ErrArtifactWrite is the sentinel error wrapped by ArtifactWriteError.
var ErrArtifactWrite = errors.New("artifact write error")

type (
	// ArtifactWriteError is returned when a generated artifact cannot be
	// written. It is fatal and aborts the pipeline before any build.
	// It wraps ErrArtifactWrite for errors.Is() compatibility.
	ArtifactWriteError struct {
		Path  string
		Cause error
	}

	// WarningKind classifies a reconciliation warning.
	WarningKind int

	// Warning is a non-fatal finding from reconciling the parsed config
	// against the workspace's declared option features. Warnings are
	// surfaced but never block the pipeline.
	Warning struct {
		Kind WarningKind
		// Name is the config key or feature name involved.
		Name string
	}
)

const (
	// WarningUnusedConfig marks an option present in the config file that no
	// package declares a matching feature for.
	WarningUnusedConfig WarningKind = iota
	// WarningUndeclaredFeature marks a CONFIG_-prefixed feature declared by
	// a package but absent from the config file.
	WarningUndeclaredFeature
)

// Error implements the error interface.
func (e *ArtifactWriteError) Error() string {
	return fmt.Sprintf("failed to write artifact %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrArtifactWrite so callers can use errors.Is.
func (e *ArtifactWriteError) Unwrap() error { return ErrArtifactWrite }

// String renders the warning for diagnostic output.
func (w Warning) String() string {
	switch w.Kind {
	case WarningUnusedConfig:
		return fmt.Sprintf("option '%s' is set in the config file but no package declares a matching feature", w.Name)
	default:
		return fmt.Sprintf("feature '%s' is declared but has no entry in the config file", w.Name)
	}
}

// OptionNames returns the full flag-declaration set: the union of every
// CONFIG_-prefixed feature name declared by any package and every key in the
// parsed config, sorted lexicographically. Keys present only in the config
// file are included so that options defined ahead of their first consumer
// do not trip unknown-option lints.
func OptionNames(ws *workspace.Workspace, cfg *dotconfig.Config) []string {
	seen := make(map[string]bool)
	for _, name := range ws.OptionFeatureNames() {
		seen[name] = true
	}
	for _, key := range cfg.Keys() {
		seen[key] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reconcile compares the parsed config against the workspace's declared
// option features and reports the mismatches in both directions. Keys that
// do not follow the CONFIG_ naming convention are still eligible for the
// unused warning.
func Reconcile(ws *workspace.Workspace, cfg *dotconfig.Config) []Warning {
	declared := make(map[string]bool)
	for _, name := range ws.OptionFeatureNames() {
		declared[name] = true
	}

	var warnings []Warning
	for _, key := range cfg.Keys() {
		if !declared[key] {
			warnings = append(warnings, Warning{Kind: WarningUnusedConfig, Name: key})
		}
	}

	for _, name := range ws.OptionFeatureNames() {
		if !cfg.Has(name) {
			warnings = append(warnings, Warning{Kind: WarningUndeclaredFeature, Name: name})
		}
	}

	return warnings
}

// EnabledFeatures returns, sorted, every config key whose tristate value is
// 'y' or 'm'. These become the --features list and --cfg flags of the build
// invocation.
func EnabledFeatures(cfg *dotconfig.Config) []string {
	enabled := cfg.EnabledKeys()
	sorted := make([]string, len(enabled))
	copy(sorted, enabled)
	sort.Strings(sorted)
	return sorted
}

// Rustflags derives the RUSTFLAGS value for the build invocation: one
// --check-cfg declaration per recognized option name plus one --cfg per
// enabled option.
func Rustflags(optionNames, enabledFeatures []string) string {
	var sb strings.Builder
	for _, name := range optionNames {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "--check-cfg=cfg(%s)", name)
	}
	for _, name := range enabledFeatures {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("--cfg ")
		sb.WriteString(name)
	}
	return sb.String()
}
