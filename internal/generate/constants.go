// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kbuild-cli/internal/dotconfig"
)

// Typed-constants artifact location, relative to the workspace root.
const (
	ConstantsDir  = "target/kbuild"
	ConstantsName = "config.rs"
)

// RenderConstants produces the typed-constants artifact: one named constant
// per non-boolean config entry. Booleans travel as compiler flags, never as
// constants. Entries are re-sorted by key before emission so that the output
// does not depend on the option file's line order.
func RenderConstants(cfg *dotconfig.Config) []byte {
	entries := cfg.Entries()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	var sb strings.Builder
	sb.WriteString("// Auto-generated by kbuild from .config\n")
	sb.WriteString("// DO NOT EDIT MANUALLY\n\n")

	for _, e := range entries {
		switch e.Value.Kind {
		case dotconfig.KindInt:
			sb.WriteString("#[allow(dead_code)]\n")
			fmt.Fprintf(&sb, "pub const %s: %s = %d;\n\n", e.Key, intType(e.Value.Int), e.Value.Int)
		case dotconfig.KindString:
			sb.WriteString("#[allow(dead_code)]\n")
			fmt.Fprintf(&sb, "pub const %s: &str = %q;\n\n", e.Key, e.Value.Str)
		}
	}

	return []byte(sb.String())
}

// intType picks i32 when the value fits, i64 otherwise.
func intType(v int64) string {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return "i32"
	}
	return "i64"
}

// WriteConstants writes the typed-constants artifact under root and returns
// the written path.
func WriteConstants(root string, cfg *dotconfig.Config) (string, error) {
	dir := filepath.Join(root, filepath.FromSlash(ConstantsDir))
	path := filepath.Join(dir, ConstantsName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &ArtifactWriteError{Path: path, Cause: err}
	}
	if err := os.WriteFile(path, RenderConstants(cfg), 0o644); err != nil {
		return "", &ArtifactWriteError{Path: path, Cause: err}
	}

	return path, nil
}
