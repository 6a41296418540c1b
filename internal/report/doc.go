// Package report renders diary records as Markdown reports.
//
// Three modes exist:
//
//   - ideas: the ✨ ひらめき blocks of each date, fenced as ```md
//   - meals: the 【食事】 blocks found inside 🧪 習慣ログ
//   - bundle: the diary text of each date, optionally with Toggl totals
//
// Every report has one "## YYYY-MM-DD" heading per date, ascending.
// An empty record set still renders its title line.
//
// Reports replace their target file wholesale:
//
//	content := report.Render(records, report.ModeIdeas, report.Options{})
//	err := report.WriteFile("out/ideas.md", content)
package report
