package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/nikki/internal/report"
)

// newIdeasCmd creates the ideas command.
func newIdeasCmd() *cobra.Command {
	return newModeCmd(report.ModeIdeas, "ideas-out", "Ideas report path, or - for stdout (default: <out_dir>/ideas.md)")
}

// newMealsCmd creates the meals command.
func newMealsCmd() *cobra.Command {
	return newModeCmd(report.ModeMeals, "meals-out", "Meals report path, or - for stdout (default: <out_dir>/meals.md)")
}

// newModeCmd builds a command that writes the single report for mode.
func newModeCmd(mode report.Mode, outFlag, outUsage string) *cobra.Command {
	var in inputFlags
	var out string

	cmd := &cobra.Command{
		Use:   mode.String(),
		Short: fmt.Sprintf("Write the %s report", mode),
		Long: fmt.Sprintf(`Write the %[1]s report from a Notion export.

The report starts with "%[2]s" and has one "## YYYY-MM-DD"
heading per date in the window.

Examples:
  nikki %[1]s --src export --%[3]s -              # Print to stdout
  nikki %[1]s --src export --week 2024-06-05 --only-with-content`, mode, mode.Title(), outFlag),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReports(cmd, &in, nil, false, func(s *session) []reportTarget {
				return []reportTarget{{mode, outPath(s, out, configuredName(s, mode))}}
			})
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&out, outFlag, "", outUsage)

	return cmd
}

// configuredName returns the report file name set in config for mode.
func configuredName(s *session, mode report.Mode) string {
	switch mode {
	case report.ModeMeals:
		return s.cfg.Reports.Meals
	case report.ModeBundle:
		return s.cfg.Reports.Bundle
	default:
		return s.cfg.Reports.Ideas
	}
}
