package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/nikki/internal/diary"
	"github.com/gorewood/nikki/internal/output"
	"github.com/gorewood/nikki/internal/pipeline"
)

// windowFlags binds the shared date window flags.
type windowFlags struct {
	diary.Selector
}

func (w *windowFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&w.WeekStart, "week-start", "", "Seven days from this date, normally a Saturday (YYYY-MM-DD)")
	flags.StringVar(&w.Week, "week", "", "The Saturday to Friday week containing this date")
	flags.BoolVar(&w.ThisWeek, "this-week", false, "The current Saturday to Friday week")
	flags.BoolVar(&w.LastWeek, "last-week", false, "The previous Saturday to Friday week")
	flags.StringVar(&w.Since, "since", "", "First date to include (YYYY-MM-DD, or 7d / 2w back from today)")
	flags.StringVar(&w.Until, "until", "", "Last date to include (YYYY-MM-DD)")

	cmd.MarkFlagsMutuallyExclusive("week-start", "week", "this-week", "last-week", "since")
	cmd.MarkFlagsMutuallyExclusive("week-start", "week", "this-week", "last-week", "until")
}

// resolve returns the selected range plus an optional warning.
func (w *windowFlags) resolve(s *session) (diary.Range, string, error) {
	r, warning, err := w.Resolve(s.now, s.loc)
	if err != nil {
		return diary.Range{}, "", s.fail(output.NewUserErrorWithCause(err.Error(), err))
	}
	return r, warning, nil
}

// inputFlags binds the export source and extraction flags.
type inputFlags struct {
	src             string
	skipNashi       bool
	onlyWithContent bool
	window          windowFlags
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.src, "src", "", "Notion export directory or single .md file (default: config source or $NIKKI_SRC)")
	cmd.Flags().BoolVar(&in.skipNashi, "skip-nashi", false, "Drop dates whose blocks are only なし / - なし / —")
	cmd.Flags().BoolVar(&in.onlyWithContent, "only-with-content", false, "Drop dates that have no block of the report's kind")
	in.window.register(cmd)
}

// togglFlags bind the Toggl export selection.
type togglFlags struct {
	csv  string
	dir  string
	none bool
}

func (t *togglFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.csv, "toggl", "", "Toggl Detailed CSV to merge")
	cmd.Flags().StringVar(&t.dir, "toggl-dir", "", "Directory whose newest CSV is merged")
	cmd.Flags().BoolVar(&t.none, "no-toggl", false, "Ignore any configured Toggl export")
	cmd.MarkFlagsMutuallyExclusive("toggl", "toggl-dir", "no-toggl")
}

// buildOptions merges flags over config into pipeline options. The returned
// strings are warnings to report with the batch.
func buildOptions(cmd *cobra.Command, s *session, in *inputFlags, toggl *togglFlags) (pipeline.Options, []string, error) {
	src := in.src
	if src == "" {
		src = s.cfg.Source
	}
	if src == "" {
		err := output.NewUserError("no export source given").
			WithHint("pass --src, or set source in .nikki.yaml or NIKKI_SRC")
		return pipeline.Options{}, nil, s.fail(err)
	}

	r, warning, err := in.window.resolve(s)
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	var warnings []string
	if warning != "" {
		warnings = append(warnings, warning)
	}

	skip := s.cfg.SkipNashi
	if cmd.Flags().Changed("skip-nashi") {
		skip = in.skipNashi
	}

	opts := pipeline.Options{
		Source:          src,
		Range:           r,
		SkipNashi:       skip,
		OnlyWithContent: in.onlyWithContent,
		Location:        s.loc,
		Logger:          s.logger,
	}
	if toggl != nil && !toggl.none {
		switch {
		case toggl.csv != "":
			opts.TimeLogPath = toggl.csv
		case toggl.dir != "":
			opts.TimeLogDir = toggl.dir
		default:
			opts.TimeLogPath, opts.TimeLogDir = s.cfg.Toggl.CSV, s.cfg.Toggl.Dir
		}
	}
	return opts, warnings, nil
}

// execBatch runs the pipeline and maps its failures to exit errors.
func execBatch(s *session, opts pipeline.Options, warnings []string) (*pipeline.Result, error) {
	result, err := pipeline.Run(opts)
	if err != nil {
		if pipeline.IsFatal(err) {
			return nil, s.fail(output.NewUserErrorWithCause(err.Error(), err).
				WithHint("check that --src points at a Notion Markdown export with dated pages"))
		}
		return nil, s.fail(output.NewSystemErrorWithCause("failed to read export: "+err.Error(), err))
	}
	result.Warnings = append(warnings, result.Warnings...)

	for _, w := range result.Warnings {
		s.printer.Warn("%s", w)
	}
	for _, d := range result.Duplicates {
		s.printer.Stderr("duplicate %s: kept %s, dropped %s\n", d.Day, d.Kept, d.Dropped)
	}
	return result, nil
}
