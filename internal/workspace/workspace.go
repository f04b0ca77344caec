// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// OptionPrefix is the naming convention that marks a feature name as a
// global configuration option.
const OptionPrefix = "CONFIG_"

var (
	// ErrWorkspaceNotFound is the sentinel error wrapped by NotFoundError.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrManifestLoad is the sentinel error wrapped by ManifestError.
	ErrManifestLoad = errors.New("manifest load error")
	// ErrDuplicatePackage is the sentinel error wrapped by DuplicatePackageError.
	ErrDuplicatePackage = errors.New("duplicate package name")
)

type (
	// FeatureDep is one parsed dependency spec from a feature's list: either
	// a bare package reference ("pkg") or a package plus sub-capability
	// ("pkg/cap"). Specs are tokenized once at load time on the first '/'
	// and never re-parsed downstream.
	FeatureDep struct {
		// Package is the referenced package name.
		Package string
		// Capability is the sub-capability name, empty for a bare reference.
		Capability string
	}

	// Feature is one entry of a package's feature table.
	Feature struct {
		// Name is the feature name (CONFIG_-prefixed names carry global
		// option semantics).
		Name string
		// Deps is the feature's dependency-spec list, in declaration order.
		Deps []FeatureDep
	}

	// Package is one workspace member. Immutable after load.
	Package struct {
		// Name is the package name from [package].
		Name string
		// Path is the member directory.
		Path string
		// Features is the feature table, sorted by feature name.
		Features []Feature

		// metadataEnabled is the explicit [package.metadata.kbuild] opt-in.
		metadataEnabled bool
		// configAware is the classification result, computed once at load.
		configAware bool
	}

	// Workspace is the set of all member packages plus a name lookup.
	// Built once per invocation, read-only thereafter.
	Workspace struct {
		// Root is the workspace root directory.
		Root string
		// Packages holds the members in discovery order.
		Packages []*Package

		byName map[string]*Package
	}

	// NotFoundError is returned when root has no workspace manifest.
	// It wraps ErrWorkspaceNotFound for errors.Is() compatibility.
	NotFoundError struct {
		Root string
	}

	// ManifestError is returned for an unreadable or malformed manifest.
	// It wraps ErrManifestLoad for errors.Is() compatibility.
	ManifestError struct {
		// Path is the manifest file path.
		Path string
		// Reason describes the structural problem.
		Reason string
		// Cause is the underlying error, if any.
		Cause error
	}

	// DuplicatePackageError is returned when two members share a name.
	// It wraps ErrDuplicatePackage for errors.Is() compatibility.
	DuplicatePackageError struct {
		Name       string
		FirstPath  string
		SecondPath string
	}
)

// ParseFeatureDep tokenizes a raw dependency-spec string, splitting on the
// first '/'.
func ParseFeatureDep(raw string) FeatureDep {
	pkg, cap, found := strings.Cut(raw, "/")
	if !found {
		return FeatureDep{Package: pkg}
	}
	return FeatureDep{Package: pkg, Capability: cap}
}

// IsCapability reports whether the dep names a sub-capability.
func (d FeatureDep) IsCapability() bool { return d.Capability != "" }

// String renders the dep in its original spec syntax.
func (d FeatureDep) String() string {
	if d.Capability == "" {
		return d.Package
	}
	return d.Package + "/" + d.Capability
}

// ConfigAware reports whether the package reads global options directly
// rather than through tree-propagated feature flags. A package opts in
// explicitly via [package.metadata.kbuild] enabled = true, or implicitly by
// declaring any CONFIG_-prefixed feature.
func (p *Package) ConfigAware() bool { return p.configAware }

// MetadataEnabled reports the explicit metadata opt-in alone.
func (p *Package) MetadataEnabled() bool { return p.metadataEnabled }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s with [workspace] members found in %s", ManifestName, e.Root)
}

// Unwrap returns ErrWorkspaceNotFound so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrWorkspaceNotFound }

// Error implements the error interface.
func (e *ManifestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("manifest %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrManifestLoad so callers can use errors.Is.
func (e *ManifestError) Unwrap() error { return ErrManifestLoad }

// Error implements the error interface.
func (e *DuplicatePackageError) Error() string {
	return fmt.Sprintf("package name %q declared by both %s and %s",
		e.Name, e.FirstPath, e.SecondPath)
}

// Unwrap returns ErrDuplicatePackage so callers can use errors.Is.
func (e *DuplicatePackageError) Unwrap() error { return ErrDuplicatePackage }

// Load reads the workspace manifest at root and every member manifest it
// names. Member entries may be literal paths or glob patterns. Any
// unreadable or malformed manifest is fatal.
func Load(root string) (*Workspace, error) {
	rootManifest := filepath.Join(root, ManifestName)
	if _, err := os.Stat(rootManifest); err != nil {
		return nil, &NotFoundError{Root: root}
	}

	m, err := readManifest(rootManifest)
	if err != nil {
		return nil, &ManifestError{Path: rootManifest, Reason: "unreadable workspace manifest", Cause: err}
	}
	if m.Workspace == nil || len(m.Workspace.Members) == 0 {
		return nil, &NotFoundError{Root: root}
	}

	memberDirs, err := resolveMembers(root, m.Workspace.Members)
	if err != nil {
		return nil, &ManifestError{Path: rootManifest, Reason: "invalid [workspace] members", Cause: err}
	}

	ws := &Workspace{Root: root, byName: make(map[string]*Package)}
	for _, dir := range memberDirs {
		pkg, err := loadPackage(dir)
		if err != nil {
			return nil, err
		}
		if existing, ok := ws.byName[pkg.Name]; ok {
			return nil, &DuplicatePackageError{
				Name:       pkg.Name,
				FirstPath:  existing.Path,
				SecondPath: pkg.Path,
			}
		}
		ws.byName[pkg.Name] = pkg
		ws.Packages = append(ws.Packages, pkg)
	}

	return ws, nil
}

// resolveMembers expands member entries to directories, preserving listing
// order. Glob patterns expand in lexical order.
func resolveMembers(root string, members []string) ([]string, error) {
	var dirs []string
	for _, member := range members {
		if !strings.ContainsAny(member, "*?[") {
			dirs = append(dirs, filepath.Join(root, filepath.FromSlash(member)))
			continue
		}

		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(member)))
		if err != nil {
			return nil, fmt.Errorf("bad member pattern %q: %w", member, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				continue
			}
			dirs = append(dirs, match)
		}
	}
	return dirs, nil
}

// loadPackage reads one member manifest and classifies the package.
func loadPackage(dir string) (*Package, error) {
	path := filepath.Join(dir, ManifestName)
	m, err := readManifest(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Reason: "unreadable member manifest", Cause: err}
	}
	if m.Package == nil || m.Package.Name == "" {
		return nil, &ManifestError{Path: path, Reason: "missing [package] name"}
	}

	pkg := &Package{
		Name:            m.Package.Name,
		Path:            dir,
		metadataEnabled: m.Package.Metadata.Kbuild.Enabled,
	}

	// TOML tables decode into an unordered map, so declaration order is
	// unrecoverable here. Features are sorted by name to keep every
	// downstream scan deterministic.
	names := make([]string, 0, len(m.Features))
	for name := range m.Features {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		feat := Feature{Name: name}
		for _, raw := range m.Features[name] {
			feat.Deps = append(feat.Deps, ParseFeatureDep(raw))
		}
		pkg.Features = append(pkg.Features, feat)
	}

	pkg.configAware = classify(pkg)
	return pkg, nil
}

// classify decides config-awareness once per package over its immutable
// snapshot: the explicit metadata flag, or the implicit presence of any
// CONFIG_-prefixed feature name.
func classify(p *Package) bool {
	if p.metadataEnabled {
		return true
	}
	for _, f := range p.Features {
		if strings.HasPrefix(f.Name, OptionPrefix) {
			return true
		}
	}
	return false
}

// Find returns the package with the given name, if it is a workspace member.
func (w *Workspace) Find(name string) (*Package, bool) {
	p, ok := w.byName[name]
	return p, ok
}

// OptionFeatureNames returns every distinct CONFIG_-prefixed feature name
// declared by any member, sorted lexicographically.
func (w *Workspace) OptionFeatureNames() []string {
	seen := make(map[string]bool)
	for _, pkg := range w.Packages {
		for _, f := range pkg.Features {
			if strings.HasPrefix(f.Name, OptionPrefix) {
				seen[f.Name] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
