package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/nikki/internal/report"
)

// newBundleCmd creates the bundle command.
func newBundleCmd() *cobra.Command {
	var in inputFlags
	var toggl togglFlags
	var out string
	var sectionsOnly bool

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Write the daily bundle report",
		Long: `Write every dated page into one report, optionally with Toggl hours.

Each date gets a "## YYYY-MM-DD" heading carrying the page title, then the
page text without its H1 line. With --sections-only only the five journal
sections are kept, in canonical order. With a Toggl export each date gets a
table of hours per project and the report ends with the window total.

Examples:
  nikki bundle --src export --week-start 2024-06-01
  nikki bundle --src export --last-week --toggl-dir ~/Downloads
  nikki bundle --src export --this-week --sections-only --bundle-out -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReports(cmd, &in, &toggl, sectionsOnly, func(s *session) []reportTarget {
				return []reportTarget{{report.ModeBundle, outPath(s, out, s.cfg.Reports.Bundle)}}
			})
		},
	}

	in.register(cmd)
	toggl.register(cmd)
	cmd.Flags().StringVar(&out, "bundle-out", "", "Bundle report path, or - for stdout (default: <out_dir>/bundle.md)")
	cmd.Flags().BoolVar(&sectionsOnly, "sections-only", false, "Keep only the five journal sections")

	return cmd
}
