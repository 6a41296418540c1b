package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/nikki/internal/diary"
	"github.com/gorewood/nikki/internal/pipeline"
	"github.com/gorewood/nikki/internal/report"
	"github.com/gorewood/nikki/internal/section"
	"github.com/gorewood/nikki/internal/timelog"
)

const (
	modeIdeas = report.ModeIdeas
	modeMeals = report.ModeMeals
)

// --- Shared types ---

// Window selects a date range. Leave everything empty for all dates.
type Window struct {
	WeekStart string `json:"week_start,omitempty" jsonschema:"seven days from this date (YYYY-MM-DD), normally a Saturday"`
	Week      string `json:"week,omitempty"       jsonschema:"the Saturday to Friday week containing this date"`
	ThisWeek  bool   `json:"this_week,omitempty"  jsonschema:"the current Saturday to Friday week"`
	LastWeek  bool   `json:"last_week,omitempty"  jsonschema:"the previous Saturday to Friday week"`
	Since     string `json:"since,omitempty"      jsonschema:"first date to include (YYYY-MM-DD or 7d)"`
	Until     string `json:"until,omitempty"      jsonschema:"last date to include (YYYY-MM-DD)"`
}

func (w Window) selector() diary.Selector {
	return diary.Selector{
		WeekStart: w.WeekStart,
		Week:      w.Week,
		ThisWeek:  w.ThisWeek,
		LastWeek:  w.LastWeek,
		Since:     w.Since,
		Until:     w.Until,
	}
}

// --- Entries tool ---

// EntriesInput is the input for the entries tool.
type EntriesInput struct {
	Src    string `json:"src,omitempty" jsonschema:"Notion export directory (defaults to the configured source)"`
	Window Window   `json:"window,omitempty" jsonschema:"date window; omit for all dates"`
	Kinds  []string `json:"kinds,omitempty"  jsonschema:"keep only pages with a section of one of these kinds (idea, meal, habits, practice, learning, review, other)"`
}

// EntrySummary describes one dated page.
type EntrySummary struct {
	Date     string   `json:"date"            jsonschema:"diary date YYYY-MM-DD"`
	Source   string   `json:"source"          jsonschema:"source markdown file"`
	Title    string   `json:"title,omitempty" jsonschema:"first H1 line"`
	Sections []string `json:"sections"        jsonschema:"section kinds present on the page"`
}

// EntriesOutput is the output for the entries tool.
type EntriesOutput struct {
	Range      string            `json:"range,omitempty"      jsonschema:"resolved date window"`
	Entries    []EntrySummary    `json:"entries"              jsonschema:"dated pages, ascending"`
	Stats      diary.Stats       `json:"stats"                jsonschema:"walk statistics"`
	Warnings   []string          `json:"warnings,omitempty"   jsonschema:"files that were skipped"`
	Duplicates []diary.Duplicate `json:"duplicates,omitempty" jsonschema:"pages that lost to another page with the same date"`
}

func handleEntries(defaults Defaults) mcp.ToolHandlerFor[EntriesInput, EntriesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input EntriesInput) (*mcp.CallToolResult, EntriesOutput, error) {
		kinds, err := parseKinds(input.Kinds)
		if err != nil {
			return nil, EntriesOutput{}, err
		}
		result, err := runBatch(defaults, batchInput{src: input.Src, window: input.Window})
		if err != nil {
			return nil, EntriesOutput{}, err
		}

		out := EntriesOutput{
			Range:      rangeLabel(result.Options.Range),
			Entries:    make([]EntrySummary, 0, len(result.Records)),
			Stats:      result.Stats,
			Warnings:   result.Warnings,
			Duplicates: result.Duplicates,
		}
		for _, rec := range result.Records {
			if !hasAnyKind(rec.Document, kinds) {
				continue
			}
			out.Entries = append(out.Entries, EntrySummary{
				Date:     rec.Day(),
				Source:   rec.Source,
				Title:    rec.Document.Title,
				Sections: kindNames(rec.Document),
			})
		}
		return nil, out, nil
	}
}

// --- Ideas and meals tools ---

// ReportInput is the input for the ideas and meals tools.
type ReportInput struct {
	Src             string `json:"src,omitempty"               jsonschema:"Notion export directory (defaults to the configured source)"`
	SkipNashi       *bool  `json:"skip_nashi,omitempty"        jsonschema:"drop dates whose only content is a placeholder such as なし"`
	OnlyWithContent bool   `json:"only_with_content,omitempty" jsonschema:"drop dates without any block of this kind"`
	Window          Window `json:"window,omitempty"            jsonschema:"date window; omit for all dates"`
}

// ReportOutput is the output of every report tool.
type ReportOutput struct {
	Range      string            `json:"range,omitempty"      jsonschema:"resolved date window"`
	Dates      int               `json:"dates"                jsonschema:"number of date headings in the report"`
	Markdown   string            `json:"markdown"             jsonschema:"the rendered report"`
	Warnings   []string          `json:"warnings,omitempty"   jsonschema:"files or rows that were skipped"`
	Duplicates []diary.Duplicate `json:"duplicates,omitempty" jsonschema:"pages that lost to another page with the same date"`
}

func handleReport(defaults Defaults, mode report.Mode) mcp.ToolHandlerFor[ReportInput, ReportOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, ReportOutput, error) {
		result, err := runBatch(defaults, batchInput{
			src:             input.Src,
			window:          input.Window,
			skipNashi:       input.SkipNashi,
			onlyWithContent: input.OnlyWithContent,
		})
		if err != nil {
			return nil, ReportOutput{}, err
		}
		return nil, reportOutput(result, mode), nil
	}
}

// --- Bundle tool ---

// BundleInput is the input for the bundle tool.
type BundleInput struct {
	Src          string `json:"src,omitempty"           jsonschema:"Notion export directory (defaults to the configured source)"`
	SectionsOnly bool   `json:"sections_only,omitempty" jsonschema:"only the five journal sections in canonical order"`
	Toggl        string `json:"toggl,omitempty"         jsonschema:"Toggl Detailed CSV to merge"`
	TogglDir     string `json:"toggl_dir,omitempty"     jsonschema:"directory whose newest CSV is merged"`
	NoToggl      bool   `json:"no_toggl,omitempty"      jsonschema:"skip the configured Toggl export"`
	Window       Window `json:"window,omitempty"        jsonschema:"date window; omit for all dates"`
}

func handleBundle(defaults Defaults) mcp.ToolHandlerFor[BundleInput, ReportOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input BundleInput) (*mcp.CallToolResult, ReportOutput, error) {
		result, err := runBatch(defaults, batchInput{
			src:          input.Src,
			window:       input.Window,
			sectionsOnly: input.SectionsOnly,
			togglCSV:     input.Toggl,
			togglDir:     input.TogglDir,
			withToggl:    !input.NoToggl,
		})
		if err != nil {
			return nil, ReportOutput{}, err
		}
		return nil, reportOutput(result, report.ModeBundle), nil
	}
}

// --- Timelog tool ---

// TimelogInput is the input for the timelog tool.
type TimelogInput struct {
	Toggl    string `json:"toggl,omitempty"     jsonschema:"Toggl Detailed CSV (defaults to the configured export)"`
	TogglDir string `json:"toggl_dir,omitempty" jsonschema:"directory whose newest CSV is read"`
	Window   Window `json:"window,omitempty"    jsonschema:"date window; omit for all dates"`
}

// DaySummary is the tracked time of one date.
type DaySummary struct {
	Date       string                 `json:"date"        jsonschema:"date YYYY-MM-DD"`
	TotalHours float64                `json:"total_hours" jsonschema:"hours tracked that day"`
	Projects   []timelog.ProjectTotal `json:"projects"    jsonschema:"hours per project, longest first"`
}

// TimelogOutput is the output for the timelog tool.
type TimelogOutput struct {
	Source     string                 `json:"source"             jsonschema:"CSV file that was read"`
	Range      string                 `json:"range,omitempty"    jsonschema:"resolved date window"`
	Days       []DaySummary           `json:"days"               jsonschema:"per-day totals, ascending"`
	Projects   []timelog.ProjectTotal `json:"projects"           jsonschema:"per-project totals across all days"`
	TotalHours float64                `json:"total_hours"        jsonschema:"hours tracked in the window"`
	Warnings   []string               `json:"warnings,omitempty" jsonschema:"rows that were skipped"`
}

func handleTimelog(defaults Defaults) mcp.ToolHandlerFor[TimelogInput, TimelogOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input TimelogInput) (*mcp.CallToolResult, TimelogOutput, error) {
		r, _, err := input.Window.selector().Resolve(defaults.now(), defaults.Location)
		if err != nil {
			return nil, TimelogOutput{}, err
		}

		path, err := pickTimeLog(defaults, input.Toggl, input.TogglDir)
		if err != nil {
			return nil, TimelogOutput{}, err
		}
		summary, warnings, err := timelog.ParseFile(path)
		if err != nil {
			return nil, TimelogOutput{}, err
		}
		summary = summary.Filter(r)

		out := TimelogOutput{
			Source:     path,
			Range:      rangeLabel(r),
			Days:       make([]DaySummary, 0, len(summary.Days)),
			Projects:   summary.Projects(),
			TotalHours: timelog.Hours(summary.Total()),
			Warnings:   warnings,
		}
		for _, d := range summary.Days {
			out.Days = append(out.Days, DaySummary{
				Date:       timelog.DayLabel(d.Date),
				TotalHours: timelog.Hours(d.Total),
				Projects:   d.Projects(),
			})
		}
		return nil, out, nil
	}
}

// --- helpers ---

type batchInput struct {
	src             string
	window          Window
	skipNashi       *bool
	onlyWithContent bool
	sectionsOnly    bool
	togglCSV        string
	togglDir        string
	withToggl       bool
}

func runBatch(defaults Defaults, in batchInput) (*pipeline.Result, error) {
	src := in.src
	if src == "" {
		src = defaults.Source
	}
	if src == "" {
		return nil, errors.New("src is required: no default source is configured")
	}

	r, warning, err := in.window.selector().Resolve(defaults.now(), defaults.Location)
	if err != nil {
		return nil, err
	}

	skip := defaults.SkipNashi
	if in.skipNashi != nil {
		skip = *in.skipNashi
	}

	opts := pipeline.Options{
		Source:          src,
		Range:           r,
		SkipNashi:       skip,
		OnlyWithContent: in.onlyWithContent,
		SectionsOnly:    in.sectionsOnly,
		Location:        defaults.Location,
		Logger:          defaults.Logger,
	}
	if in.withToggl {
		switch {
		case in.togglCSV != "":
			opts.TimeLogPath = in.togglCSV
		case in.togglDir != "":
			opts.TimeLogDir = in.togglDir
		default:
			opts.TimeLogPath, opts.TimeLogDir = defaults.TogglCSV, defaults.TogglDir
		}
	}

	result, err := pipeline.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	if warning != "" {
		result.Warnings = append([]string{warning}, result.Warnings...)
	}
	return result, nil
}

func pickTimeLog(defaults Defaults, csv, dir string) (string, error) {
	switch {
	case csv != "":
		return csv, nil
	case dir != "":
		return timelog.Latest(dir)
	case defaults.TogglCSV != "":
		return defaults.TogglCSV, nil
	case defaults.TogglDir != "":
		return timelog.Latest(defaults.TogglDir)
	}
	return "", errors.New("toggl or toggl_dir is required: no default export is configured")
}

func reportOutput(result *pipeline.Result, mode report.Mode) ReportOutput {
	doc := result.Document(mode)
	return ReportOutput{
		Range:      rangeLabel(result.Options.Range),
		Dates:      len(doc.Entries),
		Markdown:   doc.Markdown(),
		Warnings:   result.Warnings,
		Duplicates: result.Duplicates,
	}
}

// parseKinds returns nil for no names, which matches every page.
func parseKinds(names []string) (map[section.Kind]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	kinds := make(map[section.Kind]bool, len(names))
	for _, name := range names {
		k, err := section.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds[k] = true
	}
	return kinds, nil
}

func hasAnyKind(doc *section.Document, kinds map[section.Kind]bool) bool {
	if kinds == nil {
		return true
	}
	for _, s := range doc.Sections {
		if kinds[s.Kind] {
			return true
		}
	}
	return false
}

func kindNames(doc *section.Document) []string {
	seen := make(map[section.Kind]bool)
	names := []string{}
	for _, s := range doc.Sections {
		if seen[s.Kind] {
			continue
		}
		seen[s.Kind] = true
		names = append(names, s.Kind.String())
	}
	return names
}

func rangeLabel(r diary.Range) string {
	if r.IsZero() {
		return ""
	}
	return r.String()
}
