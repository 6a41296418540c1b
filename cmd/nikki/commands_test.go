package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/nikki/internal/output"
)

const (
	ideasPage = "# 2024年6月1日 散歩の日\n\n## ✨ひらめき\nIdea A\n\n## 🧪習慣ログ\n【食事】\n朝: パン\n【運動】\n散歩\n"
	quietPage = "# 2024年6月3日\nquiet day\n"
)

func exportDir(t *testing.T, root string) string {
	t.Helper()
	src := filepath.Join(root, "export")
	writePage(t, src, "Diary/2024-06-01 0123456789abcdef0123456789abcdef.md", ideasPage)
	writePage(t, src, "Diary/page.md", quietPage)
	return src
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func TestExtract_WritesBothReports(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)
	ideas := filepath.Join(dir, "out", "ideas.md")
	meals := filepath.Join(dir, "out", "meals.md")

	out, _, err := execute(t, "extract", "--src", src, "--ideas-out", ideas, "--meals-out", meals)
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	if !strings.Contains(out, ideas) || !strings.Contains(out, meals) {
		t.Errorf("output should name both files: %q", out)
	}

	got := readFile(t, ideas)
	if !strings.HasPrefix(got, "# ✨ ひらめき（Notion抽出）\n") {
		t.Errorf("ideas title:\n%s", got)
	}
	if !strings.Contains(got, "## 2024-06-01\n") || !strings.Contains(got, "## 2024-06-03\n") {
		t.Errorf("ideas headings:\n%s", got)
	}
	if !strings.Contains(got, "```md\nIdea A\n```") {
		t.Errorf("ideas block:\n%s", got)
	}

	got = readFile(t, meals)
	if !strings.Contains(got, "朝: パン") || strings.Contains(got, "散歩\n```") {
		t.Errorf("meals report:\n%s", got)
	}
}

func TestExtract_IdeasOnly(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)

	if _, _, err := execute(t, "extract", "--src", src, "--ideas-only"); err != nil {
		t.Fatalf("extract error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ideas.md")); err != nil {
		t.Errorf("ideas.md should be written to the working directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "meals.md")); !os.IsNotExist(err) {
		t.Errorf("meals.md should not be written, stat error = %v", err)
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T, dir string) []string
		code int
	}{
		{"missing src flag", func(*testing.T, string) []string { return []string{"extract"} }, output.ExitUserError},
		{"missing directory", func(_ *testing.T, dir string) []string {
			return []string{"extract", "--src", filepath.Join(dir, "nope")}
		}, output.ExitUserError},
		{"no dated pages", func(t *testing.T, dir string) []string {
			writePage(t, dir, "empty/notes.md", "no date here\n")
			return []string{"extract", "--src", filepath.Join(dir, "empty")}
		}, output.ExitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			_, stderr, err := execute(t, tt.args(t, dir)...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := output.GetExitCode(err); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
			if stderr == "" {
				t.Error("error should be printed to stderr")
			}
			if _, statErr := os.Stat(filepath.Join(dir, "ideas.md")); !os.IsNotExist(statErr) {
				t.Error("no report should be written on a fatal error")
			}
		})
	}
}

func TestIdeas_Stdout(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)

	out, _, err := execute(t, "ideas", "--src", src, "--ideas-out", "-", "--only-with-content")
	if err != nil {
		t.Fatalf("ideas error = %v", err)
	}
	want := "# ✨ ひらめき（Notion抽出）\n\n## 2024-06-01\n\n```md\nIdea A\n```\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestMeals_JSONIncludesMarkdownForStdout(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)

	out, _, err := execute(t, "--json", "meals", "--src", src, "--meals-out", "-")
	if err != nil {
		t.Fatalf("meals error = %v", err)
	}
	var got batchOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got.Reports) != 1 || got.Reports[0].Mode != "meals" {
		t.Fatalf("reports = %+v", got.Reports)
	}
	if !strings.Contains(got.Reports[0].Markdown, "朝: パン") {
		t.Errorf("markdown = %q", got.Reports[0].Markdown)
	}
	if got.Stats.Dated != 2 {
		t.Errorf("stats = %+v", got.Stats)
	}
}

func TestReport_WarningsInJSON(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)
	writePage(t, src, "Diary/undated.md", "no date here\n")

	out, _, err := execute(t, "--json", "ideas", "--src", src, "--ideas-out", "-")
	if err != nil {
		t.Fatalf("ideas error = %v", err)
	}
	var got batchOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got.Warnings) != 1 || !strings.Contains(got.Warnings[0], "undated.md") {
		t.Errorf("warnings = %v", got.Warnings)
	}
}

func TestReport_WarningCountOnStderr(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)
	writePage(t, src, "Diary/undated.md", "no date here\n")
	writePage(t, src, "Diary/also-undated.md", "nor here\n")

	out, stderr, err := execute(t, "ideas", "--src", src, "--ideas-out", filepath.Join(dir, "ideas.md"))
	if err != nil {
		t.Fatalf("ideas error = %v", err)
	}
	if !strings.Contains(stderr, "2 warnings\n") {
		t.Errorf("stderr should count warnings:\n%s", stderr)
	}
	if strings.Contains(out, "warnings") {
		t.Errorf("the count belongs on stderr:\n%s", out)
	}

	_, stderr, err = execute(t, "ideas", "--src", exportDir(t, t.TempDir()), "--ideas-out", filepath.Join(dir, "clean.md"))
	if err != nil {
		t.Fatalf("ideas error = %v", err)
	}
	if strings.Contains(stderr, "warning") {
		t.Errorf("no count without warnings:\n%s", stderr)
	}
}

func TestWindowFlags_Exclusive(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)

	if _, _, err := execute(t, "ideas", "--src", src, "--this-week", "--last-week"); err == nil {
		t.Error("--this-week with --last-week should fail")
	}
	if _, _, err := execute(t, "ideas", "--src", src, "--week", "2024-06-01", "--since", "2024-05-01"); err == nil {
		t.Error("--week with --since should fail")
	}
	if _, _, err := execute(t, "ideas", "--src", src, "--since", "2024-06-05", "--until", "2024-06-01"); err == nil {
		t.Error("an inverted range should fail")
	}
}

func TestWeekly_WritesThreeReports(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)
	writePage(t, src, "Diary/2024-06-09.md", "next week\n")
	csv := filepath.Join(dir, "toggl.csv")
	writePage(t, dir, "toggl.csv", "Start date,Duration,Project\n2024-06-01,01:30:00,ClientWork\n2024-06-03,00:30:00,\n")
	outDir := filepath.Join(dir, "reports")

	out, _, err := execute(t, "--json", "weekly", "--src", src, "--out-dir", outDir,
		"--week-start", "2024-06-01", "--toggl", csv)
	if err != nil {
		t.Fatalf("weekly error = %v", err)
	}
	var got batchOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got.Reports) != 3 {
		t.Fatalf("reports = %+v", got.Reports)
	}
	if got.Range != "2024-06-01〜2024-06-07" {
		t.Errorf("range = %q", got.Range)
	}

	bundle := readFile(t, filepath.Join(outDir, "bundle.md"))
	for _, want := range []string{
		"# 日次まとめ 2024-06-01〜2024-06-07\n",
		"## 2024-06-01 散歩の日\n",
		"| ClientWork | 1.50h |",
		"| (no project) | 0.50h |",
		"## ⏱ 週合計",
	} {
		if !strings.Contains(bundle, want) {
			t.Errorf("bundle should contain %q:\n%s", want, bundle)
		}
	}
	if strings.Contains(bundle, "next week") {
		t.Errorf("bundle should stop at the window:\n%s", bundle)
	}
	for _, name := range []string{"ideas.md", "meals.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestWeekly_ConfigFile(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)
	config := "source: " + src + "\nout_dir: " + filepath.Join(dir, "weekly") + "\nreports:\n  bundle: days.md\n"
	writePage(t, dir, ".nikki.yaml", config)

	if _, _, err := execute(t, "weekly", "--week", "2024-06-05"); err != nil {
		t.Fatalf("weekly error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "weekly", "days.md")); err != nil {
		t.Errorf("configured bundle name not used: %v", err)
	}
}

func TestWeekly_ReportsFlag(t *testing.T) {
	dir := isolate(t)
	src := exportDir(t, dir)
	outDir := filepath.Join(dir, "reports")

	out, _, err := execute(t, "--json", "weekly", "--src", src, "--out-dir", outDir,
		"--week-start", "2024-06-01", "--no-toggl", "--reports", "Meals,ideas,meals")
	if err != nil {
		t.Fatalf("weekly error = %v", err)
	}
	var got batchOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got.Reports) != 2 || got.Reports[0].Mode != "meals" || got.Reports[1].Mode != "ideas" {
		t.Errorf("reports = %+v", got.Reports)
	}
	if _, err := os.Stat(filepath.Join(outDir, "bundle.md")); !os.IsNotExist(err) {
		t.Errorf("bundle.md should not be written: %v", err)
	}

	_, _, err = execute(t, "weekly", "--src", src, "--out-dir", outDir, "--reports", "diary")
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("unknown report exit code = %d, want %d (err %v)", code, output.ExitUserError, err)
	}
}

func TestTimelog(t *testing.T) {
	dir := isolate(t)
	csv := filepath.Join(dir, "toggl.csv")
	writePage(t, dir, "toggl.csv", "\ufeffStart date,Duration,Project\n"+
		"2024-06-01,01:30:00,ClientWork\n2024-06-01,00:30:00,Notes\n2024-06-02,oops,Notes\n2024-06-03,02:00:00,ClientWork\n")

	out, _, err := execute(t, "--json", "timelog", "--toggl", csv)
	if err != nil {
		t.Fatalf("timelog error = %v", err)
	}
	var got timelogOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Hours != 4 || len(got.Days) != 2 || got.Days[0].Hours != 2 {
		t.Errorf("summary = %+v", got)
	}
	if got.Skipped != 1 || len(got.Warnings) != 1 {
		t.Errorf("malformed row should warn: skipped=%d warnings=%v", got.Skipped, got.Warnings)
	}

	out, _, err = execute(t, "timelog", "--toggl", csv, "--by-project", "--since", "2024-06-03")
	if err != nil {
		t.Fatalf("timelog error = %v", err)
	}
	if !strings.Contains(out, "ClientWork") || strings.Contains(out, "Notes") {
		t.Errorf("by-project table:\n%s", out)
	}
}

func TestTimelog_ClosedWindowListsEveryDate(t *testing.T) {
	dir := isolate(t)
	csv := filepath.Join(dir, "toggl.csv")
	writePage(t, dir, "toggl.csv", "Start date,Duration,Project\n2024-06-01,01:30:00,ClientWork\n2024-06-03,00:30:00,Notes\n")

	out, _, err := execute(t, "timelog", "--toggl", csv, "--week-start", "2024-06-01")
	if err != nil {
		t.Fatalf("timelog error = %v", err)
	}
	for _, day := range []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-07"} {
		if !strings.Contains(out, day) {
			t.Errorf("table should list %s:\n%s", day, out)
		}
	}
	if !strings.Contains(out, "0.00") {
		t.Errorf("untracked dates should show 0.00:\n%s", out)
	}

	out, _, err = execute(t, "timelog", "--toggl", csv)
	if err != nil {
		t.Fatalf("timelog error = %v", err)
	}
	if strings.Contains(out, "2024-06-02") {
		t.Errorf("open window should list tracked dates only:\n%s", out)
	}
}

func TestTimelog_Entries(t *testing.T) {
	dir := isolate(t)
	csv := filepath.Join(dir, "toggl.csv")
	writePage(t, dir, "toggl.csv", "Client,Project,Description,Start date,Duration,Tags\n"+
		"Acme,ClientWork,review,2024-06-01,01:30:00,\"deep, focus\"\n"+
		",Study,go,2024-06-03,01:00:00,\n")

	out, _, err := execute(t, "--json", "timelog", "--toggl", csv, "--entries")
	if err != nil {
		t.Fatalf("timelog error = %v", err)
	}
	var got timelogOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %+v", got.Entries)
	}
	if e := got.Entries[0]; e.Client != "Acme" || e.Description != "review" || strings.Join(e.Tags, ",") != "deep,focus" || e.Hours != 1.5 {
		t.Errorf("first entry = %+v", e)
	}

	out, _, err = execute(t, "timelog", "--toggl", csv, "--entries")
	if err != nil {
		t.Fatalf("timelog error = %v", err)
	}
	for _, want := range []string{"Acme", "review", "deep, focus", "1:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("entries table should contain %q:\n%s", want, out)
		}
	}

	out, _, err = execute(t, "--json", "timelog", "--toggl", csv)
	if err != nil {
		t.Fatalf("timelog error = %v", err)
	}
	if strings.Contains(out, `"entries"`) {
		t.Errorf("entries should be omitted without --entries:\n%s", out)
	}
}

func TestTimelog_NoExport(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"nothing configured", []string{"timelog"}},
		{"missing file", []string{"timelog", "--toggl", filepath.Join(dir, "nope.csv")}},
		{"empty dir", []string{"timelog", "--toggl-dir", dir}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if code := output.GetExitCode(err); code != output.ExitUserError {
				t.Errorf("exit code = %d, want %d (err %v)", code, output.ExitUserError, err)
			}
		})
	}
}
