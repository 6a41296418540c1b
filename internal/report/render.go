package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorewood/nikki/internal/diary"
	"github.com/gorewood/nikki/internal/notionmd"
	"github.com/gorewood/nikki/internal/section"
	"github.com/gorewood/nikki/internal/timelog"
)

// Record is one dated diary page ready for rendering.
type Record struct {
	Date     time.Time
	Source   string
	Document *section.Document
}

// Day formats the record date as YYYY-MM-DD.
func (r Record) Day() string {
	return r.Date.Format(notionmd.DateLayout)
}

// Options tune rendering.
type Options struct {
	// SkipNashi drops a date whose blocks of the mode's kind are all
	// placeholders such as なし.
	SkipNashi bool
	// OnlyWithContent drops dates with no block of the mode's kind.
	OnlyWithContent bool
	// SectionsOnly limits bundle bodies to the journal sections.
	SectionsOnly bool
	// Range labels the bundle title.
	Range diary.Range
	// TimeLog adds Toggl tables to the bundle when set.
	TimeLog *timelog.Summary
}

// Entry is one dated block of a rendered report.
type Entry struct {
	Date    time.Time `json:"-"`
	Day     string    `json:"date"`
	Heading string    `json:"heading"`
	Body    string    `json:"body"`
}

// Document is a rendered report before serialization.
type Document struct {
	Mode    Mode    `json:"-"`
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
	Footer  string  `json:"footer,omitempty"`
}

// Render builds and serializes a report.
func Render(records []Record, mode Mode, opts Options) string {
	return Build(records, mode, opts).Markdown()
}

// Build assembles the report document for records, which must already be
// date-ascending.
func Build(records []Record, mode Mode, opts Options) *Document {
	if mode == ModeBundle {
		return buildBundle(records, opts)
	}
	return buildExtract(records, mode, opts)
}

// Markdown serializes the document.
func (d *Document) Markdown() string {
	var builder strings.Builder
	builder.WriteString(d.Title)
	builder.WriteString("\n")

	for _, e := range d.Entries {
		fmt.Fprintf(&builder, "\n%s\n", e.Heading)
		if e.Body != "" {
			fmt.Fprintf(&builder, "\n%s\n", e.Body)
		}
	}
	if d.Footer != "" {
		fmt.Fprintf(&builder, "\n%s\n", d.Footer)
	}
	return builder.String()
}

func buildExtract(records []Record, mode Mode, opts Options) *Document {
	doc := &Document{Mode: mode, Title: mode.Title()}
	kind := mode.Kind()

	for _, rec := range records {
		var blocks []section.Section
		placeholders := 0
		for _, s := range rec.Document.OfKind(kind) {
			if s.Empty() {
				continue
			}
			if section.IsPlaceholder(s.Content()) {
				placeholders++
				if opts.SkipNashi {
					continue
				}
			}
			blocks = append(blocks, s)
		}

		if opts.SkipNashi && placeholders > 0 && len(blocks) == 0 {
			continue
		}
		if opts.OnlyWithContent && len(blocks) == 0 {
			continue
		}

		var builder strings.Builder
		for i, s := range blocks {
			if i > 0 {
				builder.WriteString("\n")
			}
			writeFenced(&builder, s.Body)
		}
		doc.Entries = append(doc.Entries, Entry{
			Date:    rec.Date,
			Day:     rec.Day(),
			Heading: "## " + rec.Day(),
			Body:    strings.TrimRight(builder.String(), "\n"),
		})
	}
	return doc
}

// writeFenced writes body inside a ```md fence.
func writeFenced(builder *strings.Builder, body string) {
	builder.WriteString("```md\n")
	builder.WriteString(strings.TrimRight(strings.TrimLeft(body, "\r\n"), "\r\n"))
	builder.WriteString("\n```\n")
}
