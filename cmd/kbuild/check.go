// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kbuild-cli/internal/issue"
	"kbuild-cli/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate and regenerate artifacts without building",
	Long: TitleStyle.Render("kbuild check") + `

Runs validation and artifact generation exactly like ` + OptionStyle.Render("kbuild build") + `,
but stops before invoking cargo. Useful in CI and pre-commit hooks to
catch feature-dependency violations and stale artifacts early.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return reportIssue(cmd, issue.SettingsLoadFailedId, err)
		}

		res, err := runPipeline(cmd, s, pipeline.ModeCheck, nil)
		if err != nil {
			return reportPipelineError(cmd, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, TitleStyle.Render("Check passed"))
		fmt.Fprintf(out, "  %s %d option(s) declared, %d feature(s) enabled\n",
			SuccessStyle.Render("✓"), len(res.OptionNames), len(res.EnabledFeatures))
		fmt.Fprintf(out, "  %s %s\n", SuccessStyle.Render("✓"), SubtitleStyle.Render(res.FlagArtifactPath))
		fmt.Fprintf(out, "  %s %s\n", SuccessStyle.Render("✓"), SubtitleStyle.Render(res.ConstantsArtifactPath))
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  %s %s\n", WarningStyle.Render("!"), w.String())
		}
		for _, n := range res.Notes {
			fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("•"), n.String())
		}
		return nil
	},
}
