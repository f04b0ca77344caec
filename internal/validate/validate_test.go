// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kbuild-cli/internal/workspace"
)

// loadWorkspace writes the given member manifests under a temp root and
// loads them. members maps directory name to manifest content.
func loadWorkspace(t *testing.T, members map[string]string) *workspace.Workspace {
	t.Helper()
	root := t.TempDir()

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[j] < names[i] {
				names[i], names[j] = names[j], names[i]
			}
		}
	}

	rootManifest := "[workspace]\nmembers = [\n"
	for _, name := range names {
		rootManifest += "    \"" + name + "\",\n"
	}
	rootManifest += "]\n"
	if err := os.WriteFile(filepath.Join(root, workspace.ManifestName), []byte(rootManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	for name, content := range members {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, workspace.ManifestName), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ws, err := workspace.Load(root)
	if err != nil {
		t.Fatalf("workspace.Load() error: %v", err)
	}
	return ws
}

const awareTarget = `
[package]
name = "network_utils"

[package.metadata.kbuild]
enabled = true

[features]
async = []
`

func TestWorkspace_BareReferenceAlwaysPermitted(t *testing.T) {
	ws := loadWorkspace(t, map[string]string{
		"network_utils": awareTarget,
		"kernel_net": `
[package]
name = "kernel_net"

[features]
CONFIG_NET = ["network_utils"]
`,
	})

	notes, err := Workspace(ws)
	if err != nil {
		t.Fatalf("Workspace() error: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("notes = %v, want none for bare references", notes)
	}
}

func TestWorkspace_CapabilityOntoAwareTargetFails(t *testing.T) {
	ws := loadWorkspace(t, map[string]string{
		"network_utils": awareTarget,
		"kernel_net": `
[package]
name = "kernel_net"

[features]
CONFIG_NET = ["network_utils/async"]
`,
	})

	_, err := Workspace(ws)
	if err == nil {
		t.Fatal("Workspace() succeeded, want FeatureValidationError")
	}
	if !errors.Is(err, ErrFeatureValidation) {
		t.Errorf("errors.Is(err, ErrFeatureValidation) = false for %v", err)
	}

	var verr *FeatureValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %v is not a *FeatureValidationError", err)
	}
	if verr.Package != "kernel_net" || verr.Feature != "CONFIG_NET" ||
		verr.Spec != "network_utils/async" || verr.Target != "network_utils" {
		t.Errorf("error fields = %+v, want kernel_net/CONFIG_NET/network_utils~async", verr)
	}

	msg := err.Error()
	if !strings.Contains(msg, `CONFIG_NET = ["network_utils"]`) {
		t.Errorf("remediation should show the bare-reference rewrite: %q", msg)
	}
	if !strings.Contains(msg, ".config") {
		t.Errorf("remediation should point at the shared option file: %q", msg)
	}
}

func TestWorkspace_CapabilityOntoImplicitlyAwareTargetFails(t *testing.T) {
	// Awareness by CONFIG_ feature presence alone, no metadata flag.
	ws := loadWorkspace(t, map[string]string{
		"network_utils": `
[package]
name = "network_utils"

[features]
CONFIG_ASYNC = []
`,
		"kernel_net": `
[package]
name = "kernel_net"

[features]
CONFIG_NET = ["network_utils/CONFIG_ASYNC"]
`,
	})

	_, err := Workspace(ws)
	var verr *FeatureValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Workspace() error = %v, want *FeatureValidationError", err)
	}
	if verr.Target != "network_utils" {
		t.Errorf("Target = %q, want network_utils", verr.Target)
	}
}

func TestWorkspace_CapabilityOntoNonAwareTargetNoted(t *testing.T) {
	ws := loadWorkspace(t, map[string]string{
		"legacy_driver": `
[package]
name = "legacy_driver"

[features]
extra = []
`,
		"kernel_net": `
[package]
name = "kernel_net"

[features]
CONFIG_NET = ["legacy_driver/extra"]
`,
	})

	notes, err := Workspace(ws)
	if err != nil {
		t.Fatalf("Workspace() error: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d, want 1", len(notes))
	}
	if notes[0].Kind != NoteNotAware {
		t.Errorf("note kind = %v, want NoteNotAware", notes[0].Kind)
	}
	if !strings.Contains(notes[0].String(), "not config-aware") {
		t.Errorf("note text = %q", notes[0].String())
	}
}

func TestWorkspace_CapabilityOntoExternalPackageNoted(t *testing.T) {
	ws := loadWorkspace(t, map[string]string{
		"kernel_net": `
[package]
name = "kernel_net"

[features]
CONFIG_NET = ["tokio/rt-multi-thread"]
`,
	})

	notes, err := Workspace(ws)
	if err != nil {
		t.Fatalf("Workspace() error: %v", err)
	}
	if len(notes) != 1 || notes[0].Kind != NoteExternal {
		t.Fatalf("notes = %v, want one NoteExternal", notes)
	}
	if !strings.Contains(notes[0].String(), "third-party") {
		t.Errorf("note text = %q", notes[0].String())
	}
}

func TestWorkspace_ShortCircuitsAtFirstOffense(t *testing.T) {
	// Two offending specs; only the first (in deterministic scan order)
	// must be reported, with earlier notes preserved.
	ws := loadWorkspace(t, map[string]string{
		"aware_a": `
[package]
name = "aware_a"

[package.metadata.kbuild]
enabled = true
`,
		"aware_b": `
[package]
name = "aware_b"

[package.metadata.kbuild]
enabled = true
`,
		"consumer": `
[package]
name = "consumer"

[features]
CONFIG_ONE = ["serde/derive", "aware_a/x"]
CONFIG_TWO = ["aware_b/y"]
`,
	})

	notes, err := Workspace(ws)
	var verr *FeatureValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Workspace() error = %v, want *FeatureValidationError", err)
	}
	if verr.Spec != "aware_a/x" {
		t.Errorf("first offense = %q, want aware_a/x", verr.Spec)
	}
	if len(notes) != 1 || notes[0].Dep.Package != "serde" {
		t.Errorf("notes before failure = %v, want the serde external note", notes)
	}
}

func TestWorkspace_NonConfigFeaturesAreCheckedToo(t *testing.T) {
	// The rule binds every feature-dependency edge, not only CONFIG_ ones.
	ws := loadWorkspace(t, map[string]string{
		"network_utils": awareTarget,
		"kernel_net": `
[package]
name = "kernel_net"

[features]
fancy = ["network_utils/async"]
`,
	})

	_, err := Workspace(ws)
	var verr *FeatureValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Workspace() error = %v, want *FeatureValidationError", err)
	}
	if verr.Feature != "fancy" {
		t.Errorf("Feature = %q, want fancy", verr.Feature)
	}
}
