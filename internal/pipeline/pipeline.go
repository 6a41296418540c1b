// Package pipeline runs one report batch: walk the export, split pages into
// sections, apply the date window and attach the Toggl time log.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gorewood/nikki/internal/diary"
	"github.com/gorewood/nikki/internal/logging"
	"github.com/gorewood/nikki/internal/report"
	"github.com/gorewood/nikki/internal/section"
	"github.com/gorewood/nikki/internal/timelog"
)

// Options configure a batch.
type Options struct {
	Source          string
	Range           diary.Range
	SkipNashi       bool
	OnlyWithContent bool
	SectionsOnly    bool
	// TimeLogPath names a Toggl CSV. TimeLogDir is searched for the newest
	// CSV when TimeLogPath is empty.
	TimeLogPath string
	TimeLogDir  string
	Location    *time.Location
	Logger      *zap.Logger
}

// Result is everything a batch produced.
type Result struct {
	Records     []report.Record
	Warnings    []string
	Duplicates  []diary.Duplicate
	Stats       diary.Stats
	TimeLog     *timelog.Summary
	Options     Options
	GeneratedAt time.Time
}

// IsFatal reports whether err aborts a batch because of its input.
func IsFatal(err error) bool {
	return errors.Is(err, diary.ErrSourceNotFound) ||
		errors.Is(err, diary.ErrNoDocuments) ||
		errors.Is(err, diary.ErrNoDatedEntries)
}

// Run executes the batch. Input problems with single files or the time log
// become warnings; only walk failures are returned.
func Run(opts Options) (*Result, error) {
	logger := logging.OrNop(opts.Logger)

	walked, err := diary.Walk(opts.Source, logger)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if opts.Location != nil {
		now = now.In(opts.Location)
	}
	result := &Result{
		Warnings:    walked.Warnings,
		Duplicates:  walked.Duplicates,
		Stats:       walked.Stats,
		Options:     opts,
		GeneratedAt: now,
	}

	extractor := section.NewExtractor(logger)
	for _, entry := range diary.Filter(walked.Entries, opts.Range) {
		result.Records = append(result.Records, report.Record{
			Date:     entry.Date,
			Source:   entry.SourcePath,
			Document: extractor.Extract(entry.RawText),
		})
	}
	logger.Debug("batch walked",
		zap.Int("entries", len(walked.Entries)),
		zap.Int("in_range", len(result.Records)),
	)

	summary, warning := loadTimeLog(opts)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	if summary != nil {
		result.TimeLog = summary.Filter(opts.Range)
	}
	return result, nil
}

// loadTimeLog parses the configured Toggl export. Any failure is reported
// as a single warning and leaves the batch without time data.
func loadTimeLog(opts Options) (*timelog.Summary, string) {
	path := opts.TimeLogPath
	if path == "" && opts.TimeLogDir != "" {
		latest, err := timelog.Latest(opts.TimeLogDir)
		if err != nil {
			return nil, fmt.Sprintf("time log: %v", err)
		}
		path = latest
	}
	if path == "" {
		return nil, ""
	}

	summary, rowWarnings, err := timelog.ParseFile(path)
	if err != nil {
		return nil, fmt.Sprintf("time log: %v", err)
	}
	if len(rowWarnings) > 0 {
		return summary, joinRowWarnings(path, rowWarnings)
	}
	return summary, ""
}

func joinRowWarnings(path string, warnings []string) string {
	return fmt.Sprintf("time log %s: skipped %d malformed row(s) (first: %s)", path, len(warnings), warnings[0])
}

// ReportOptions returns the renderer options for the batch.
func (r *Result) ReportOptions() report.Options {
	return report.Options{
		SkipNashi:       r.Options.SkipNashi,
		OnlyWithContent: r.Options.OnlyWithContent,
		SectionsOnly:    r.Options.SectionsOnly,
		Range:           r.Options.Range,
		TimeLog:         r.TimeLog,
	}
}

// Document builds the report for mode.
func (r *Result) Document(mode report.Mode) *report.Document {
	return report.Build(r.Records, mode, r.ReportOptions())
}

// Render produces the Markdown report for mode.
func (r *Result) Render(mode report.Mode) string {
	return r.Document(mode).Markdown()
}

// Render is shorthand for result.Render(mode).
func Render(result *Result, mode report.Mode) string {
	return result.Render(mode)
}
