// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for kbuild.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"kbuild-cli/internal/settings"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// workspaceRoot is the Cargo workspace root (--workspace)
	workspaceRoot string
	// configFile is an explicit option-file path (--config)
	configFile string
	// settingsFile allows specifying a custom settings file
	settingsFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "kbuild",
		Short: "Kernel-style global configuration for Cargo workspaces",
		Long: TitleStyle.Render("kbuild") + SubtitleStyle.Render(" - kernel-style global configuration for Cargo workspaces") + `

kbuild replaces tree-propagated feature flags with one shared .config
file that every package reads directly. It validates that no package
steers a config-aware dependency through sub-capability feature specs,
declares every CONFIG_* option for check-cfg, generates typed constants
for non-boolean options, and then hands the build to cargo.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Declare CONFIG_* features (or [package.metadata.kbuild]) in your crates
  2. Run 'kbuild init' to generate a .config template
  3. Enable options in .config and run 'kbuild build'

` + SubtitleStyle.Render("Examples:") + `
  kbuild build              Validate, generate, and build the workspace
  kbuild check              Validate and generate without building
  kbuild init               Create a .config template from declared options
  kbuild config show        Show kbuild's own settings`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&workspaceRoot, "workspace", "w", ".", "workspace root directory")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "option file path (default <workspace>/.config)")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default is $HOME/.config/kbuild/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(settingsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// loadSettings resolves kbuild's own settings, honoring the --settings flag.
func loadSettings() (*settings.Settings, error) {
	return settings.LoadWithOptions(settings.LoadOptions{FilePath: settingsFile})
}

// newLogger builds the pipeline logger; --verbose or the settings file
// raise the level to debug.
func newLogger(s *settings.Settings) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "kbuild"})
	if verbose || (s != nil && s.UI.Verbose) {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
