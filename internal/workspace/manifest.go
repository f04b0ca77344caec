// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ManifestName is the file name of a package manifest.
const ManifestName = "Cargo.toml"

type (
	// manifestFile is the decoded view of a Cargo.toml. Only the tables the
	// pipeline consumes are mapped; everything else is ignored by the decoder.
	manifestFile struct {
		Workspace *workspaceTable     `toml:"workspace"`
		Package   *packageTable       `toml:"package"`
		Features  map[string][]string `toml:"features"`
	}

	workspaceTable struct {
		Members []string `toml:"members"`
	}

	packageTable struct {
		Name     string        `toml:"name"`
		Metadata metadataTable `toml:"metadata"`
	}

	metadataTable struct {
		Kbuild kbuildTable `toml:"kbuild"`
	}

	kbuildTable struct {
		Enabled bool `toml:"enabled"`
	}
)

// readManifest reads and decodes the manifest at path.
func readManifest(path string) (*manifestFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m manifestFile
	if err := toml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &m, nil
}
