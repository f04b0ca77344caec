// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kbuild-cli/internal/cargo"
	"kbuild-cli/internal/dotconfig"
	"kbuild-cli/internal/generate"
	"kbuild-cli/internal/issue"
	"kbuild-cli/internal/pipeline"
	"kbuild-cli/internal/settings"
	"kbuild-cli/internal/validate"
	"kbuild-cli/internal/workspace"
)

var buildCmd = &cobra.Command{
	Use:   "build [-- cargo-args...]",
	Short: "Validate, generate artifacts, and build the workspace",
	Long: TitleStyle.Render("kbuild build") + `

Runs the full pipeline: loads the workspace, validates feature
dependencies, parses the option file, regenerates the check-cfg
declarations and typed constants, then invokes cargo with the enabled
features. Arguments after ` + OptionStyle.Render("--") + ` are passed to cargo verbatim.

Examples:
  kbuild build
  kbuild build -- --release
  kbuild build -c configs/ci.config`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return reportIssue(cmd, issue.SettingsLoadFailedId, err)
		}

		res, err := runPipeline(cmd, s, pipeline.ModeBuild, args)
		if err != nil {
			return reportPipelineError(cmd, err)
		}

		if !res.ExitCode.IsSuccess() {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: int(res.ExitCode)}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Build finished (%d option(s), %d feature(s) enabled)\n",
			SuccessStyle.Render("✓"), len(res.OptionNames), len(res.EnabledFeatures))
		return nil
	},
}

// resolveConfigPath picks the option file: the --config flag wins, otherwise
// the settings default joined to the workspace root.
func resolveConfigPath(s *settings.Settings) string {
	if configFile != "" {
		return configFile
	}
	name := s.ConfigFile
	if name == "" {
		name = ".config"
	}
	return filepath.Join(workspaceRoot, name)
}

// runPipeline wires the shared flags and settings into one pipeline run.
func runPipeline(cmd *cobra.Command, s *settings.Settings, mode pipeline.Mode, extraArgs []string) (*pipeline.Result, error) {
	return pipeline.Run(cmd.Context(), pipeline.Options{
		WorkspaceRoot: workspaceRoot,
		ConfigPath:    resolveConfigPath(s),
		Mode:          mode,
		CargoBinary:   s.CargoBinary,
		BuildArgs:     extraArgs,
		Stdout:        cmd.OutOrStdout(),
		Stderr:        cmd.ErrOrStderr(),
		Stdin:         cmd.InOrStdin(),
		Logger:        newLogger(s),
	})
}

// reportPipelineError maps pipeline failures onto their issue cards before
// relaying the error itself.
func reportPipelineError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, dotconfig.ErrConfigNotFound):
		return reportIssue(cmd, issue.ConfigNotFoundId, err)
	case errors.Is(err, dotconfig.ErrConfigParse):
		return reportIssue(cmd, issue.ConfigParseErrorId, err)
	case errors.Is(err, workspace.ErrWorkspaceNotFound):
		return reportIssue(cmd, issue.WorkspaceNotFoundId, err)
	case errors.Is(err, workspace.ErrManifestLoad), errors.Is(err, workspace.ErrDuplicatePackage):
		return reportIssue(cmd, issue.ManifestLoadErrorId, err)
	case errors.Is(err, validate.ErrFeatureValidation):
		return reportIssue(cmd, issue.FeatureValidationId, err)
	case errors.Is(err, generate.ErrArtifactWrite):
		return reportIssue(cmd, issue.ArtifactWriteFailedId, err)
	case errors.Is(err, cargo.ErrCargoNotFound):
		return reportIssue(cmd, issue.CargoNotFoundId, err)
	default:
		return err
	}
}

// reportIssue renders the canned card for a known failure class to stderr and
// returns the original error so cobra still reports it.
func reportIssue(cmd *cobra.Command, id issue.Id, err error) error {
	cmd.SilenceUsage = true
	if card := issue.Get(id); card != nil {
		rendered, renderErr := card.Render("dark")
		if renderErr == nil {
			fmt.Fprint(os.Stderr, rendered)
		}
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
	cmd.SilenceErrors = true
	return err
}
