// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"fmt"
	"strings"

	"kbuild-cli/internal/workspace"
)

// ErrFeatureValidation is the sentinel error wrapped by FeatureValidationError.
var ErrFeatureValidation = errors.New("feature validation error")

type (
	// FeatureValidationError reports a disallowed sub-capability wiring onto
	// a config-aware package. It is fatal and terminates the pipeline.
	// It wraps ErrFeatureValidation for errors.Is() compatibility.
	FeatureValidationError struct {
		// Package is the package declaring the offending feature.
		Package string
		// Feature is the offending feature name.
		Feature string
		// Spec is the full dependency spec string as written.
		Spec string
		// Target is the resolved target package name.
		Target string
	}

	// NoteKind classifies an informational note.
	NoteKind int

	// Note records a permitted capability reference that is worth surfacing:
	// the target is either outside the workspace or not config-aware.
	Note struct {
		Kind    NoteKind
		Package string
		Feature string
		Dep     workspace.FeatureDep
	}
)

const (
	// NoteExternal marks a capability reference onto a package outside the
	// workspace: a third-party dependency the validator cannot police.
	NoteExternal NoteKind = iota
	// NoteNotAware marks a capability reference onto a workspace package
	// that is not config-aware and is legitimately controlled through its
	// own feature surface.
	NoteNotAware
)

// Error implements the error interface with two-part remediation text.
func (e *FeatureValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "package '%s': feature '%s' wires sub-capability '%s'\n",
		e.Package, e.Feature, e.Spec)
	fmt.Fprintf(&sb, "\ndependency '%s' is config-aware:\n", e.Target)
	sb.WriteString("  - it reads CONFIG_* options from .config directly\n")
	sb.WriteString("  - it cannot be controlled by a parent package\n")
	sb.WriteString("\nFix:\n")
	fmt.Fprintf(&sb, "  1. change the spec to the bare reference: %s = [\"%s\"]\n",
		e.Feature, e.Target)
	fmt.Fprintf(&sb, "  2. enable the relevant option in .config so '%s' picks it up itself\n",
		e.Target)
	sb.WriteString("\nNote: sub-capabilities of third-party packages (e.g. tokio/rt) remain allowed.")
	return sb.String()
}

// Unwrap returns ErrFeatureValidation so callers can use errors.Is.
func (e *FeatureValidationError) Unwrap() error { return ErrFeatureValidation }

// String renders the note for diagnostic output.
func (n Note) String() string {
	switch n.Kind {
	case NoteExternal:
		return fmt.Sprintf("'%s' is third-party, sub-capability allowed: %s (feature '%s' of '%s')",
			n.Dep.Package, n.Dep, n.Feature, n.Package)
	default:
		return fmt.Sprintf("'%s' is not config-aware, sub-capability allowed: %s (feature '%s' of '%s')",
			n.Dep.Package, n.Dep, n.Feature, n.Package)
	}
}

// Workspace checks every feature-dependency edge of every package against
// the classification rules:
//
//   - A bare package reference is always permitted.
//   - A capability reference onto a package outside the workspace, or onto a
//     workspace package that is not config-aware, is permitted with a note.
//   - A capability reference onto a config-aware workspace package is
//     disallowed.
//
// The scan is sequential and order-deterministic (package discovery order,
// feature order, dependency-list order) and short-circuits at the first
// disallowed spec: the output is actionable remediation, and batching errors
// from a graph scan risks stale advice once the first fix lands. Notes
// collected before the failure point are returned alongside the error.
func Workspace(ws *workspace.Workspace) ([]Note, error) {
	var notes []Note

	for _, pkg := range ws.Packages {
		for _, feat := range pkg.Features {
			for _, dep := range feat.Deps {
				if !dep.IsCapability() {
					continue
				}

				target, found := ws.Find(dep.Package)
				if !found {
					notes = append(notes, Note{
						Kind:    NoteExternal,
						Package: pkg.Name,
						Feature: feat.Name,
						Dep:     dep,
					})
					continue
				}

				if !target.ConfigAware() {
					notes = append(notes, Note{
						Kind:    NoteNotAware,
						Package: pkg.Name,
						Feature: feat.Name,
						Dep:     dep,
					})
					continue
				}

				return notes, &FeatureValidationError{
					Package: pkg.Name,
					Feature: feat.Name,
					Spec:    dep.String(),
					Target:  target.Name,
				}
			}
		}
	}

	return notes, nil
}
