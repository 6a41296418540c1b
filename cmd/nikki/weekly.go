package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/nikki/internal/output"
	"github.com/gorewood/nikki/internal/report"
)

// weeklyFlags bind the weekly command, which watch reuses.
type weeklyFlags struct {
	in           inputFlags
	toggl        togglFlags
	outDir       string
	sectionsOnly bool
	reports      []string
}

func (w *weeklyFlags) register(cmd *cobra.Command) {
	w.in.register(cmd)
	w.toggl.register(cmd)
	cmd.Flags().StringVar(&w.outDir, "out-dir", "", "Directory for ideas.md, meals.md and bundle.md (default: config out_dir)")
	cmd.Flags().BoolVar(&w.sectionsOnly, "sections-only", false, "Keep only the five journal sections in the bundle")
	cmd.Flags().StringSliceVar(&w.reports, "reports", nil, "Reports to write: ideas, meals, bundle (default: all)")
}

// newWeeklyCmd creates the weekly command.
func newWeeklyCmd() *cobra.Command {
	var flags weeklyFlags

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Write all three reports for one week",
		Long: `Write ideas.md, meals.md and bundle.md for one Saturday to Friday week.

Without a window flag the current week is used. The Toggl export configured
in toggl.csv or toggl.dir is merged into the bundle unless --no-toggl is set.

Examples:
  nikki weekly --src export --out-dir reports
  nikki weekly --last-week --toggl-dir ~/Downloads
  nikki weekly --week-start 2024-06-01 --json
  nikki weekly --reports ideas,meals`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runWeekly(cmd, s, &flags)
		},
	}

	flags.register(cmd)

	return cmd
}

// runWeekly runs one weekly batch with the session's clock.
func runWeekly(cmd *cobra.Command, s *session, flags *weeklyFlags) error {
	targets, err := weeklyTargets(s, flags.reports)
	if err != nil {
		return s.fail(output.NewUserErrorWithCause(err.Error(), err))
	}

	in := flags.in
	if in.window.IsZero() {
		in.window.ThisWeek = true
	}
	if flags.outDir != "" {
		s.cfg.OutDir = flags.outDir
	}

	opts, warnings, err := buildOptions(cmd, s, &in, &flags.toggl)
	if err != nil {
		return err
	}
	opts.SectionsOnly = flags.sectionsOnly

	result, err := execBatch(s, opts, warnings)
	if err != nil {
		return err
	}

	written, err := writeReports(s, result, targets)
	if err != nil {
		return err
	}
	return printBatch(s, result, written)
}

// weeklyTargets lists the named reports, or all three, under the
// configured out dir.
func weeklyTargets(s *session, names []string) ([]reportTarget, error) {
	modes := report.Modes
	if len(names) > 0 {
		modes = nil
		seen := make(map[report.Mode]bool)
		for _, name := range names {
			mode, err := report.ParseMode(name)
			if err != nil {
				return nil, err
			}
			if !seen[mode] {
				seen[mode] = true
				modes = append(modes, mode)
			}
		}
	}

	targets := make([]reportTarget, 0, len(modes))
	for _, mode := range modes {
		targets = append(targets, reportTarget{mode, s.cfg.ReportPath(configuredName(s, mode))})
	}
	return targets, nil
}
