package main

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/nikki/internal/diary"
	"github.com/gorewood/nikki/internal/output"
	"github.com/gorewood/nikki/internal/timelog"
)

// timelogDay is one date in timelog JSON output.
type timelogDay struct {
	Date     string                 `json:"date"`
	Hours    float64                `json:"hours"`
	Projects []timelog.ProjectTotal `json:"projects"`
}

// timelogEntry is one CSV row in timelog JSON output.
type timelogEntry struct {
	Date        string   `json:"date"`
	Project     string   `json:"project"`
	Client      string   `json:"client,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Hours       float64  `json:"hours"`
}

// timelogOutput is the JSON shape of the timelog command.
type timelogOutput struct {
	Source   string                 `json:"source"`
	Range    string                 `json:"range,omitempty"`
	Days     []timelogDay           `json:"days"`
	Projects []timelog.ProjectTotal `json:"projects"`
	Entries  []timelogEntry         `json:"entries,omitempty"`
	Hours    float64                `json:"hours"`
	Rows     int                    `json:"rows"`
	Skipped  int                    `json:"skipped"`
	Warnings []string               `json:"warnings"`
}

type timelogFlags struct {
	csv, dir  string
	byProject bool
	entries   bool
	window    windowFlags
}

// newTimelogCmd creates the timelog command.
func newTimelogCmd() *cobra.Command {
	var flags timelogFlags

	cmd := &cobra.Command{
		Use:   "timelog",
		Short: "Summarize a Toggl Detailed CSV export",
		Long: `Summarize tracked time per date, or per project with --by-project.

The export is --toggl, else the newest CSV in --toggl-dir, else the
configured toggl.csv or toggl.dir. Malformed rows are skipped with a warning.

Examples:
  nikki timelog --toggl TogglTrack_Report.csv
  nikki timelog --toggl-dir ~/Downloads --last-week --by-project
  nikki timelog --this-week --json
  nikki timelog --week 2024-06-05 --entries`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTimelog(cmd, &flags)
		},
	}

	cmd.Flags().StringVar(&flags.csv, "toggl", "", "Toggl Detailed CSV")
	cmd.Flags().StringVar(&flags.dir, "toggl-dir", "", "Directory whose newest CSV is read")
	cmd.Flags().BoolVar(&flags.byProject, "by-project", false, "Total per project instead of per date")
	cmd.Flags().BoolVar(&flags.entries, "entries", false, "List every time entry with client, description and tags")
	cmd.MarkFlagsMutuallyExclusive("toggl", "toggl-dir")
	cmd.MarkFlagsMutuallyExclusive("by-project", "entries")
	flags.window.register(cmd)

	return cmd
}

func runTimelog(cmd *cobra.Command, flags *timelogFlags) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	r, warning, err := flags.window.resolve(s)
	if err != nil {
		return err
	}

	path, err := timelogPath(s, flags.csv, flags.dir)
	if err != nil {
		return s.fail(err)
	}

	summary, warnings, err := timelog.ParseFile(path)
	if err != nil {
		return s.fail(output.NewUserErrorWithCause("cannot read Toggl export: "+err.Error(), err))
	}
	summary = summary.Filter(r)
	if warning != "" {
		warnings = append([]string{warning}, warnings...)
	}
	for _, w := range warnings {
		s.printer.Warn("%s", w)
	}
	s.logger.Sugar().Debugw("time log parsed", "path", path, "rows", summary.Rows, "skipped", summary.Skipped)

	if s.printer.IsJSON() {
		out := timelogOutput{
			Source:   path,
			Days:     make([]timelogDay, 0, len(summary.Days)),
			Projects: summary.Projects(),
			Hours:    timelog.Hours(summary.Total()),
			Rows:     summary.Rows,
			Skipped:  summary.Skipped,
			Warnings: warnings,
		}
		if !r.IsZero() {
			out.Range = r.String()
		}
		if out.Projects == nil {
			out.Projects = []timelog.ProjectTotal{}
		}
		if out.Warnings == nil {
			out.Warnings = []string{}
		}
		for _, d := range summary.Days {
			out.Days = append(out.Days, timelogDay{
				Date:     timelog.DayLabel(d.Date),
				Hours:    timelog.Hours(d.Total),
				Projects: d.Projects(),
			})
		}
		if flags.entries {
			out.Entries = make([]timelogEntry, 0, len(summary.Entries))
			for _, e := range summary.Entries {
				out.Entries = append(out.Entries, timelogEntry{
					Date:        timelog.DayLabel(e.Date),
					Project:     e.Project,
					Client:      e.Client,
					Description: e.Description,
					Tags:        e.Tags,
					Hours:       timelog.Hours(e.Duration),
				})
			}
		}
		return s.printer.WriteJSON(out)
	}

	printTimelog(s.printer, summary, r, flags)
	return nil
}

// timelogPath resolves the export to read. Errors are user errors.
func timelogPath(s *session, csvFlag, dirFlag string) (string, error) {
	csvPath, dir := csvFlag, dirFlag
	if csvPath == "" && dir == "" {
		csvPath, dir = s.cfg.Toggl.CSV, s.cfg.Toggl.Dir
	}
	switch {
	case csvPath != "":
		return csvPath, nil
	case dir != "":
		path, err := timelog.Latest(dir)
		if err != nil {
			if errors.Is(err, timelog.ErrNoExports) || errors.Is(err, os.ErrNotExist) {
				return "", output.NewUserErrorWithCause(err.Error(), err)
			}
			return "", output.NewSystemErrorWithCause(err.Error(), err)
		}
		return path, nil
	}
	return "", output.NewUserError("no Toggl export given").
		WithHint("pass --toggl or --toggl-dir, or set toggl.csv or toggl.dir in .nikki.yaml")
}

// printTimelog renders the human tables. A closed window lists each of
// its dates, untracked ones included.
func printTimelog(printer *output.Printer, summary *timelog.Summary, r diary.Range, flags *timelogFlags) {
	printer.Section("Toggl " + summary.Source)

	var rows [][]string
	switch {
	case flags.byProject:
		for _, p := range summary.Projects() {
			rows = append(rows, []string{p.Project, timelog.FormatHours(p.Duration), timelog.FormatClock(p.Duration)})
		}
		printer.Table([]string{"Project", "Hours", "Time"}, rows)
	case flags.entries:
		for _, e := range summary.Entries {
			rows = append(rows, []string{
				timelog.DayLabel(e.Date),
				e.Project,
				e.Client,
				e.Description,
				strings.Join(e.Tags, ", "),
				timelog.FormatClock(e.Duration),
			})
		}
		printer.Table([]string{"Date", "Project", "Client", "Description", "Tags", "Time"}, rows)
	default:
		days := summary.Days
		if dates := r.Days(); dates != nil {
			days = make([]timelog.Day, 0, len(dates))
			for _, date := range dates {
				d, ok := summary.Day(date)
				if !ok {
					d = timelog.Day{Date: date}
				}
				days = append(days, d)
			}
		}
		for _, d := range days {
			rows = append(rows, []string{
				timelog.DayLabel(d.Date),
				timelog.FormatHours(d.Total),
				timelog.FormatClock(d.Total),
				topProject(d),
			})
		}
		printer.Table([]string{"Date", "Hours", "Time", "Top project"}, rows)
	}

	printer.Println()
	printer.KeyValue("Total", timelog.FormatHours(summary.Total())+"h")
	printer.KeyValue("Rows", strconv.Itoa(summary.Rows))
	if summary.Skipped > 0 {
		printer.KeyValue("Skipped", strconv.Itoa(summary.Skipped))
	}
}

func topProject(d timelog.Day) string {
	projects := d.Projects()
	if len(projects) == 0 {
		return ""
	}
	return projects[0].Project
}
