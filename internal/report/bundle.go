package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorewood/nikki/internal/notionmd"
	"github.com/gorewood/nikki/internal/section"
	"github.com/gorewood/nikki/internal/timelog"
)

const (
	togglHeading     = "### ⏱ 作業時間 (Toggl)"
	weekTotalHeading = "## ⏱ 週合計"
)

func buildBundle(records []Record, opts Options) *Document {
	doc := &Document{Mode: ModeBundle, Title: ModeBundle.Title()}
	if !opts.Range.IsZero() {
		doc.Title += " " + opts.Range.String()
	}

	for _, rec := range records {
		heading := "## " + rec.Day()
		if rec.Document.Title != "" {
			if rest := notionmd.H1Remainder(rec.Document.Title); rest != "" {
				heading += " " + rest
			}
		}

		var body string
		if opts.SectionsOnly {
			body = journalSections(rec.Document)
		} else {
			body = strings.Trim(rec.Document.Rest, "\r\n")
		}

		if opts.TimeLog != nil {
			if day, ok := opts.TimeLog.Day(rec.Date); ok {
				var builder strings.Builder
				if body != "" {
					builder.WriteString(body)
					builder.WriteString("\n\n")
				}
				builder.WriteString(togglHeading)
				builder.WriteString("\n\n")
				writeTimeTable(&builder, day.Projects(), day.Total)
				body = strings.TrimRight(builder.String(), "\n")
			}
		}

		doc.Entries = append(doc.Entries, Entry{
			Date:    rec.Date,
			Day:     rec.Day(),
			Heading: heading,
			Body:    body,
		})
	}

	if opts.TimeLog != nil {
		doc.Footer = weekTotal(opts.TimeLog)
	}
	return doc
}

// journalSections lists the journal sections in canonical order with their
// original heading lines.
func journalSections(doc *section.Document) string {
	var parts []string
	for _, kind := range section.JournalOrder {
		for _, s := range doc.OfKind(kind) {
			body := strings.Trim(s.Body, "\r\n")
			if body == "" {
				parts = append(parts, s.Heading)
				continue
			}
			parts = append(parts, s.Heading+"\n"+body)
		}
	}
	return strings.Join(parts, "\n\n")
}

func weekTotal(summary *timelog.Summary) string {
	var builder strings.Builder
	builder.WriteString(weekTotalHeading)
	builder.WriteString("\n\n")
	if len(summary.Days) == 0 {
		builder.WriteString("- 記録なし")
		return builder.String()
	}
	writeTimeTable(&builder, summary.Projects(), summary.Total())
	return strings.TrimRight(builder.String(), "\n")
}

// writeTimeTable writes a project/hours table with a total row.
func writeTimeTable(builder *strings.Builder, projects []timelog.ProjectTotal, total time.Duration) {
	builder.WriteString("| プロジェクト | 時間 |\n")
	builder.WriteString("|---|---:|\n")
	for _, p := range projects {
		fmt.Fprintf(builder, "| %s | %sh |\n", escapeCell(p.Project), timelog.FormatHours(p.Duration))
	}
	fmt.Fprintf(builder, "| **合計** | **%sh** |\n", timelog.FormatHours(total))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
