// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kbuild-cli/internal/dotconfig"
	"kbuild-cli/internal/issue"
	"kbuild-cli/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .config template from the declared options",
	Long: TitleStyle.Render("kbuild init") + `

Scans the workspace for declared ` + OptionStyle.Render("CONFIG_*") + ` features and writes a
commented template line for each one that the option file does not
mention yet. Existing entries are left untouched, so rerunning after
adding a crate only appends the new options. Also ignores the generated
artifacts in .gitignore.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return reportIssue(cmd, issue.SettingsLoadFailedId, err)
		}

		ws, err := workspace.Load(workspaceRoot)
		if err != nil {
			return reportPipelineError(cmd, err)
		}

		configPath := resolveConfigPath(s)
		added, err := appendConfigTemplate(configPath, ws.OptionFeatureNames())
		if err != nil {
			return reportPipelineError(cmd, err)
		}

		ignored, err := ensureGitignore(workspaceRoot)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, TitleStyle.Render("Initialized"))
		if len(added) == 0 {
			fmt.Fprintf(out, "  %s %s already covers every declared option\n",
				SuccessStyle.Render("✓"), SubtitleStyle.Render(configPath))
		} else {
			fmt.Fprintf(out, "  %s added %d commented option(s) to %s\n",
				SuccessStyle.Render("✓"), len(added), SubtitleStyle.Render(configPath))
			for _, name := range added {
				fmt.Fprintf(out, "      %s\n", OptionStyle.Render(name))
			}
		}
		for _, entry := range ignored {
			fmt.Fprintf(out, "  %s ignored %s\n", SuccessStyle.Render("✓"), OptionStyle.Render(entry))
		}
		fmt.Fprintf(out, "\nNext: uncomment the options you want and run %s\n", OptionStyle.Render("kbuild build"))
		return nil
	},
}

// appendConfigTemplate adds a commented "# NAME=y" line for every declared
// option the file does not mention and returns the names it added. A missing
// file is created from scratch.
func appendConfigTemplate(path string, options []string) ([]string, error) {
	existing := map[string]bool{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		cfg, parseErr := dotconfig.Parse(content, path)
		if parseErr != nil {
			return nil, parseErr
		}
		for _, key := range cfg.Keys() {
			existing[key] = true
		}
		// Commented-out template lines count as mentioned too.
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#"))
			if key, _, found := strings.Cut(line, "="); found {
				existing[strings.TrimSpace(key)] = true
			}
		}
	case errors.Is(err, os.ErrNotExist):
		// fresh file
	default:
		return nil, err
	}

	var added []string
	var b strings.Builder
	if len(content) == 0 {
		b.WriteString("# Global build configuration. Uncomment an option to enable it.\n")
	} else if !strings.HasSuffix(string(content), "\n") {
		b.WriteString("\n")
	}
	for _, name := range options {
		if existing[name] {
			continue
		}
		fmt.Fprintf(&b, "# %s=y\n", name)
		added = append(added, name)
	}
	if b.Len() == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		return nil, err
	}
	return added, nil
}

// ensureGitignore appends the generated-artifact paths to the workspace
// .gitignore when they are not already listed.
func ensureGitignore(root string) ([]string, error) {
	path := filepath.Join(root, ".gitignore")
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	present := map[string]bool{}
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var added []string
	for _, entry := range []string{".cargo/config.toml", "target/"} {
		if !present[entry] {
			added = append(added, entry)
		}
	}
	if len(added) == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return nil, err
		}
	}
	for _, entry := range added {
		if _, err := fmt.Fprintln(f, entry); err != nil {
			return nil, err
		}
	}
	return added, nil
}
