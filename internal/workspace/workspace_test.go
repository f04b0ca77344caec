// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeWorkspace lays out a workspace root with the given member manifests.
// members maps member directory name to Cargo.toml content.
func writeWorkspace(t *testing.T, members map[string]string) string {
	t.Helper()
	root := t.TempDir()

	rootManifest := "[workspace]\nmembers = [\n"
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	// Stable member listing so discovery order is predictable in tests.
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[j] < names[i] {
				names[i], names[j] = names[j], names[i]
			}
		}
	}
	for _, name := range names {
		rootManifest += "    \"" + name + "\",\n"
	}
	rootManifest += "]\n"

	if err := os.WriteFile(filepath.Join(root, ManifestName), []byte(rootManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	for name, content := range members {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func TestLoad_MembersAndFeatures(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"kernel_net": `
[package]
name = "kernel_net"

[features]
CONFIG_NET = ["network_utils"]
default = []
`,
		"network_utils": `
[package]
name = "network_utils"

[package.metadata.kbuild]
enabled = true
`,
	})

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(ws.Packages) != 2 {
		t.Fatalf("len(Packages) = %d, want 2", len(ws.Packages))
	}

	net, ok := ws.Find("kernel_net")
	if !ok {
		t.Fatal("Find(kernel_net) = false")
	}
	if len(net.Features) != 2 {
		t.Fatalf("kernel_net features = %d, want 2", len(net.Features))
	}
	// Features come back sorted by name.
	if net.Features[0].Name != "CONFIG_NET" || net.Features[1].Name != "default" {
		t.Errorf("feature order = [%s %s], want [CONFIG_NET default]",
			net.Features[0].Name, net.Features[1].Name)
	}
	deps := net.Features[0].Deps
	if len(deps) != 1 || deps[0].Package != "network_utils" || deps[0].IsCapability() {
		t.Errorf("CONFIG_NET deps = %+v, want one bare network_utils ref", deps)
	}

	utils, _ := ws.Find("network_utils")
	if !utils.MetadataEnabled() {
		t.Error("network_utils should carry the explicit metadata flag")
	}
}

func TestLoad_GlobMembers(t *testing.T) {
	root := t.TempDir()
	rootManifest := "[workspace]\nmembers = [\"crates/*\"]\n"
	if err := os.WriteFile(filepath.Join(root, ManifestName), []byte(rootManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"alpha", "beta"} {
		dir := filepath.Join(root, "crates", name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		manifest := "[package]\nname = \"" + name + "\"\n"
		if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ws.Packages) != 2 {
		t.Fatalf("len(Packages) = %d, want 2", len(ws.Packages))
	}
	if ws.Packages[0].Name != "alpha" || ws.Packages[1].Name != "beta" {
		t.Errorf("glob order = [%s %s], want [alpha beta]",
			ws.Packages[0].Name, ws.Packages[1].Name)
	}
}

func TestLoad_NoWorkspaceManifest(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrWorkspaceNotFound) {
		t.Fatalf("Load() error = %v, want ErrWorkspaceNotFound", err)
	}
}

func TestLoad_NoMembers(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ManifestName), []byte("[package]\nname = \"solo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(root)
	if !errors.Is(err, ErrWorkspaceNotFound) {
		t.Fatalf("Load() error = %v, want ErrWorkspaceNotFound", err)
	}
}

func TestLoad_MalformedMemberManifest(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"broken": "[package\nname = broken",
	})

	_, err := Load(root)
	if !errors.Is(err, ErrManifestLoad) {
		t.Fatalf("Load() error = %v, want ErrManifestLoad", err)
	}

	var merr *ManifestError
	if !errors.As(err, &merr) {
		t.Fatalf("error %v is not a *ManifestError", err)
	}
	if filepath.Base(filepath.Dir(merr.Path)) != "broken" {
		t.Errorf("ManifestError.Path = %q, want the broken member manifest", merr.Path)
	}
}

func TestLoad_MissingPackageName(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"anon": "[features]\nCONFIG_X = []\n",
	})

	_, err := Load(root)
	var merr *ManifestError
	if !errors.As(err, &merr) {
		t.Fatalf("Load() error = %v, want *ManifestError", err)
	}
}

func TestLoad_DuplicatePackageName(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"a": "[package]\nname = \"twin\"\n",
		"b": "[package]\nname = \"twin\"\n",
	})

	_, err := Load(root)
	if !errors.Is(err, ErrDuplicatePackage) {
		t.Fatalf("Load() error = %v, want ErrDuplicatePackage", err)
	}
}

func TestParseFeatureDep(t *testing.T) {
	tests := []struct {
		raw  string
		want FeatureDep
	}{
		{"network_utils", FeatureDep{Package: "network_utils"}},
		{"network_utils/async", FeatureDep{Package: "network_utils", Capability: "async"}},
		{"tokio/rt-multi-thread", FeatureDep{Package: "tokio", Capability: "rt-multi-thread"}},
		// Split happens on the first '/' only.
		{"a/b/c", FeatureDep{Package: "a", Capability: "b/c"}},
	}
	for _, tt := range tests {
		got := ParseFeatureDep(tt.raw)
		if got != tt.want {
			t.Errorf("ParseFeatureDep(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
		if got.String() != tt.raw {
			t.Errorf("String() = %q, want round-trip of %q", got.String(), tt.raw)
		}
	}
}

func TestOptionFeatureNames(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"a": `
[package]
name = "a"

[features]
CONFIG_Z = []
CONFIG_A = []
plain = []
`,
		"b": `
[package]
name = "b"

[features]
CONFIG_A = []
CONFIG_M = []
`,
	})

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	got := ws.OptionFeatureNames()
	want := []string{"CONFIG_A", "CONFIG_M", "CONFIG_Z"}
	if len(got) != len(want) {
		t.Fatalf("OptionFeatureNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OptionFeatureNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
