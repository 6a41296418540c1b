package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/nikki/internal/report"
)

// newExtractCmd creates the extract command.
func newExtractCmd() *cobra.Command {
	var in inputFlags
	var ideasOut, mealsOut string
	var ideasOnly, mealsOnly bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write ideas.md and meals.md from a Notion export",
		Long: `Extract the ✨ ひらめき and 🧪 習慣ログ 【食事】 blocks of every dated page.

Each report has one "## YYYY-MM-DD" heading per date, with the blocks in
fenced md code blocks. Use "-" as an output path to print to stdout.

Examples:
  nikki extract --src ~/Notion/Diary                     # Write ./ideas.md and ./meals.md
  nikki extract --src export --last-week --skip-nashi
  nikki extract --src export --ideas-only --ideas-out -  # Print ideas only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targets := func(s *session) []reportTarget {
				var out []reportTarget
				if !mealsOnly {
					out = append(out, reportTarget{report.ModeIdeas, outPath(s, ideasOut, s.cfg.Reports.Ideas)})
				}
				if !ideasOnly {
					out = append(out, reportTarget{report.ModeMeals, outPath(s, mealsOut, s.cfg.Reports.Meals)})
				}
				return out
			}
			return runReports(cmd, &in, nil, false, targets)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&ideasOut, "ideas-out", "", "Ideas report path (default: <out_dir>/ideas.md)")
	cmd.Flags().StringVar(&mealsOut, "meals-out", "", "Meals report path (default: <out_dir>/meals.md)")
	cmd.Flags().BoolVar(&ideasOnly, "ideas-only", false, "Write only the ideas report")
	cmd.Flags().BoolVar(&mealsOnly, "meals-only", false, "Write only the meals report")
	cmd.MarkFlagsMutuallyExclusive("ideas-only", "meals-only")

	return cmd
}

// outPath picks the flag value, else the configured name under out_dir.
func outPath(s *session, flag, configured string) string {
	if flag != "" {
		return flag
	}
	return s.cfg.ReportPath(configured)
}

// runReports is the shared body of the report commands.
func runReports(cmd *cobra.Command, in *inputFlags, toggl *togglFlags, sectionsOnly bool, targets func(*session) []reportTarget) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	opts, warnings, err := buildOptions(cmd, s, in, toggl)
	if err != nil {
		return err
	}
	opts.SectionsOnly = sectionsOnly

	result, err := execBatch(s, opts, warnings)
	if err != nil {
		return err
	}

	written, err := writeReports(s, result, targets(s))
	if err != nil {
		return err
	}
	return printBatch(s, result, written)
}
