// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Flag-declaration artifact location, relative to the workspace root.
const (
	CargoConfigDir  = ".cargo"
	CargoConfigName = "config.toml"
)

type (
	cargoConfigFile struct {
		Build buildTable `toml:"build"`
	}

	buildTable struct {
		Rustflags []string `toml:"rustflags"`
	}
)

// RenderCargoConfig produces the flag-declaration artifact content: a
// [build] table declaring one --check-cfg per option name. Names must
// already be sorted; rendering the same names twice yields identical bytes.
func RenderCargoConfig(optionNames []string) ([]byte, error) {
	flags := make([]string, 0, len(optionNames))
	for _, name := range optionNames {
		flags = append(flags, fmt.Sprintf("--check-cfg=cfg(%s)", name))
	}

	body, err := toml.Marshal(cargoConfigFile{Build: buildTable{Rustflags: flags}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cargo config: %w", err)
	}

	header := "# Auto-generated by kbuild\n" +
		"# Declares all CONFIG_* conditional-compilation flags for check-cfg.\n" +
		"# Run 'kbuild build' to regenerate. DO NOT EDIT MANUALLY.\n\n"
	return append([]byte(header), body...), nil
}

// WriteCargoConfig writes the flag-declaration artifact under root and
// returns the written path.
func WriteCargoConfig(root string, optionNames []string) (string, error) {
	dir := filepath.Join(root, CargoConfigDir)
	path := filepath.Join(dir, CargoConfigName)

	content, err := RenderCargoConfig(optionNames)
	if err != nil {
		return "", &ArtifactWriteError{Path: path, Cause: err}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &ArtifactWriteError{Path: path, Cause: err}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", &ArtifactWriteError{Path: path, Cause: err}
	}

	return path, nil
}
