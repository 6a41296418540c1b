package main

import (
	"fmt"

	"github.com/gorewood/nikki/internal/diary"
	"github.com/gorewood/nikki/internal/output"
	"github.com/gorewood/nikki/internal/pipeline"
	"github.com/gorewood/nikki/internal/report"
)

// stdoutPath writes a report to standard output instead of a file.
const stdoutPath = "-"

// reportTarget is one report to produce.
type reportTarget struct {
	mode report.Mode
	path string
}

// writtenReport describes a produced report in command output.
type writtenReport struct {
	Mode     string `json:"mode"`
	Path     string `json:"path"`
	Dates    int    `json:"dates"`
	Markdown string `json:"markdown,omitempty"`
}

// batchOutput is the JSON shape of every report command.
type batchOutput struct {
	Range      string            `json:"range,omitempty"`
	Reports    []writtenReport   `json:"reports"`
	Stats      diary.Stats       `json:"stats"`
	Warnings   []string          `json:"warnings"`
	Duplicates []diary.Duplicate `json:"duplicates"`
}

// writeReports renders every target, then writes them. Nothing is written
// when rendering fails.
func writeReports(s *session, result *pipeline.Result, targets []reportTarget) ([]writtenReport, error) {
	written := make([]writtenReport, 0, len(targets))
	contents := make([]string, 0, len(targets))
	for _, t := range targets {
		doc := result.Document(t.mode)
		contents = append(contents, doc.Markdown())
		written = append(written, writtenReport{Mode: t.mode.String(), Path: t.path, Dates: len(doc.Entries)})
	}

	for i, t := range targets {
		if t.path == stdoutPath {
			if s.printer.IsJSON() {
				written[i].Markdown = contents[i]
			} else {
				s.printer.Print("%s", contents[i])
			}
			continue
		}
		if err := report.WriteFile(t.path, contents[i]); err != nil {
			return nil, s.fail(output.NewSystemErrorWithCause(fmt.Sprintf("failed to write %s", t.path), err))
		}
		s.logger.Sugar().Debugw("report written", "mode", t.mode.String(), "path", t.path, "dates", written[i].Dates)
	}
	return written, nil
}

// printBatch reports what a batch produced.
func printBatch(s *session, result *pipeline.Result, written []writtenReport) error {
	if s.printer.IsJSON() {
		out := batchOutput{
			Reports:    written,
			Stats:      result.Stats,
			Warnings:   result.Warnings,
			Duplicates: result.Duplicates,
		}
		if out.Warnings == nil {
			out.Warnings = []string{}
		}
		if out.Duplicates == nil {
			out.Duplicates = []diary.Duplicate{}
		}
		if r := result.Options.Range; !r.IsZero() {
			out.Range = r.String()
		}
		return s.printer.WriteJSON(out)
	}

	for _, w := range written {
		if w.Path == stdoutPath {
			continue
		}
		msg := fmt.Sprintf("Wrote %s (%d %s)", w.Path, w.Dates, plural(w.Dates, "date", "dates"))
		if err := s.printer.Success(map[string]any{"message": msg}); err != nil {
			return err
		}
	}
	if n := s.printer.Warnings(); n > 0 {
		s.printer.Stderr("%d %s\n", n, plural(n, "warning", "warnings"))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
