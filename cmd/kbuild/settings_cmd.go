// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kbuild-cli/internal/issue"
	"kbuild-cli/internal/settings"
)

// settingsCmd manages kbuild's own settings file, not the workspace .config.
var settingsCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage kbuild's own settings",
	Long: `Manage kbuild's own settings.

Settings are stored in:
  - Linux: ~/.config/kbuild/config.toml
  - macOS: ~/Library/Application Support/kbuild/config.toml
  - Windows: %APPDATA%\kbuild\config.toml

This is the tool's settings file; the workspace option file (.config)
is managed with 'kbuild init'.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showSettings(cmd)
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := settings.FilePath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})
}

func showSettings(cmd *cobra.Command) error {
	s, err := loadSettings()
	if err != nil {
		return reportIssue(cmd, issue.SettingsLoadFailedId, err)
	}

	keyStyle := OptionStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Settings"))
	fmt.Println()

	path := settingsFile
	if path == "" {
		if resolved, pathErr := settings.FilePath(); pathErr == nil {
			path = resolved
		}
	}
	if path != "" && fileExists(path) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Settings file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Settings file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	cargoBinary := s.CargoBinary
	if cargoBinary == "" {
		cargoBinary = "cargo (from PATH)"
	}
	fmt.Printf("%s: %s\n", keyStyle.Render("cargo_binary"), valueStyle.Render(cargoBinary))
	fmt.Printf("%s: %s\n", keyStyle.Render("config_file"), valueStyle.Render(s.ConfigFile))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", s.UI.Verbose)))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(string(s.UI.ColorScheme)))
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
