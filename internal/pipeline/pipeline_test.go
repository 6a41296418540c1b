package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorewood/nikki/internal/diary"
	"github.com/gorewood/nikki/internal/report"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_IdeasEndToEnd(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "2024-06-01.md", "✨ひらめき\nIdea A\n")
	writeFile(t, src, "2024-06-03.md", "# 2024年6月3日\nquiet day\n")

	result, err := Run(Options{Source: src})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	doc := result.Document(report.ModeIdeas)
	if len(doc.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(doc.Entries))
	}
	if doc.Entries[0].Day != "2024-06-01" || !strings.Contains(doc.Entries[0].Body, "Idea A") {
		t.Errorf("first entry = %+v", doc.Entries[0])
	}
	if doc.Entries[1].Day != "2024-06-03" || doc.Entries[1].Body != "" {
		t.Errorf("second entry = %+v", doc.Entries[1])
	}

	md := Render(result, report.ModeIdeas)
	if strings.Count(md, "\n## ") != 2 {
		t.Errorf("markdown headings:\n%s", md)
	}
}

func TestRun_RangeAndTimeLog(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "2024-05-31.md", "before\n")
	writeFile(t, src, "2024-06-01.md", "inside\n")
	writeFile(t, src, "2024-06-08.md", "after\n")

	toggl := t.TempDir()
	writeFile(t, toggl, "old.csv", "Start date,Duration,Project\n2024-06-01,09:00:00,Old\n")
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(toggl, "old.csv"), old, old); err != nil {
		t.Fatal(err)
	}
	writeFile(t, toggl, "new.csv", "Start date,Duration,Project\n"+
		"2024-06-01,01:00:00,A\n2024-06-02,bad,A\n2024-06-08,02:00:00,A\n")

	week := diary.WeekOf(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	result, err := Run(Options{Source: src, Range: week, TimeLogDir: toggl})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Records) != 1 || result.Records[0].Day() != "2024-06-01" {
		t.Fatalf("records = %+v", result.Records)
	}
	if result.TimeLog == nil || result.TimeLog.Total() != time.Hour {
		t.Fatalf("time log = %+v", result.TimeLog)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "malformed") {
		t.Errorf("warnings = %v", result.Warnings)
	}

	md := result.Render(report.ModeBundle)
	if !strings.Contains(md, "# 日次まとめ 2024-06-01〜2024-06-07") || !strings.Contains(md, "| A | 1.00h |") {
		t.Errorf("bundle:\n%s", md)
	}
}

func TestRun_TimeLogProblemsAreWarnings(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "2024-06-01.md", "x\n")
	badCSV := writeFile(t, t.TempDir(), "bad.csv", "Date,Hours\n2024-06-01,1\n")

	tests := []struct {
		name string
		opts Options
	}{
		{"missing file", Options{Source: src, TimeLogPath: filepath.Join(src, "absent.csv")}},
		{"missing columns", Options{Source: src, TimeLogPath: badCSV}},
		{"empty dir", Options{Source: src, TimeLogDir: t.TempDir()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(tt.opts)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if result.TimeLog != nil {
				t.Error("time log should be nil")
			}
			if len(result.Warnings) != 1 || !strings.HasPrefix(result.Warnings[0], "time log") {
				t.Errorf("warnings = %v", result.Warnings)
			}
		})
	}
}

func TestRun_Fatal(t *testing.T) {
	_, err := Run(Options{Source: filepath.Join(t.TempDir(), "absent")})
	if !IsFatal(err) || !errors.Is(err, diary.ErrSourceNotFound) {
		t.Errorf("Run() error = %v", err)
	}
	if IsFatal(errors.New("disk full")) {
		t.Error("unrelated errors are not fatal input errors")
	}
}

func TestRun_EmptyWindowRendersTitleOnly(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "2024-06-01.md", "✨ひらめき\nIdea A\n")

	far := diary.WeekOf(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	result, err := Run(Options{Source: src, Range: far})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := result.Render(report.ModeIdeas); got != report.ModeIdeas.Title()+"\n" {
		t.Errorf("Render() = %q", got)
	}
}
