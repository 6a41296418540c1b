// Package notionmd classifies lines of Notion-exported Markdown.
//
// Notion mixes NBSP, full-width digits and full-width colons into exported
// pages. Every matcher here runs on the NFKC form of a line, while callers
// keep the original line for output.
package notionmd

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DateLayout is the ISO calendar date format used in report headings.
const DateLayout = "2006-01-02"

// DateSource records where a diary date was found.
type DateSource string

// Date sources, in inference priority order.
const (
	DateFromFilename DateSource = "filename"
	DateFromH1       DateSource = "h1"
	DateFromLine     DateSource = "date-line"
)

var (
	h1DateRe   = regexp.MustCompile(`^\s*#\s*(\d{4})(?:年(\d{1,2})月(\d{1,2})日|[-/.](\d{1,2})[-/.](\d{1,2}))`)
	lineDateRe = regexp.MustCompile(`^\s*日付\s*:\s*(\d{4})(?:年(\d{1,2})月(\d{1,2})日|[-/.](\d{1,2})[-/.](\d{1,2}))`)

	nameKanjiRe   = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
	nameSepRe     = regexp.MustCompile(`(?:^|\D)(\d{4})[-_.](\d{1,2})[-_.](\d{1,2})(?:\D|$)`)
	nameCompactRe = regexp.MustCompile(`(?:^|\D)(\d{4})(\d{2})(\d{2})(?:\D|$)`)
	notionIDRe    = regexp.MustCompile(`\s+[0-9a-f]{32}$`)
	exactDateRe   = regexp.MustCompile(`^(\d{4})(?:[-/.](\d{1,2})[-/.](\d{1,2})|年(\d{1,2})月(\d{1,2})日)$`)

	headingRe = regexp.MustCompile(`^(#{1,6})(?:\s+|$)`)
)

// Normalize returns the NFKC form of line without its trailing newline.
// NBSP becomes an ordinary space and full-width ASCII becomes ASCII.
func Normalize(line string) string {
	return strings.TrimRight(norm.NFKC.String(line), "\r\n")
}

// HeadingLevel returns the ATX heading level of line (1–6), or 0.
func HeadingLevel(line string) int {
	m := headingRe.FindStringSubmatch(Normalize(line))
	if m == nil {
		return 0
	}
	return len(m[1])
}

// IsH1 reports whether line is a level-1 heading.
func IsH1(line string) bool {
	return HeadingLevel(line) == 1
}

// IsH2 reports whether line is a level-2 heading.
func IsH2(line string) bool {
	return HeadingLevel(line) == 2
}

// HeadingText returns the heading text without the leading hashes.
func HeadingText(line string) string {
	s := Normalize(line)
	m := headingRe.FindString(s)
	if m == "" {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[len(m):])
}

// ParseH1Date extracts a date from an H1 such as "# 2025年11月14日 ClientWork".
func ParseH1Date(line string) (time.Time, bool) {
	return matchDate(h1DateRe, Normalize(line))
}

// ParseDateLine extracts a date from a property line such as "日付: 2025年10月21日".
func ParseDateLine(line string) (time.Time, bool) {
	return matchDate(lineDateRe, Normalize(line))
}

// IsDateLine reports whether line is a "日付:" property line carrying a date.
func IsDateLine(line string) bool {
	_, ok := ParseDateLine(line)
	return ok
}

// FilenameDate extracts a date token from a file name. The trailing
// 32-hex Notion page id is ignored so its digits never read as a date.
func FilenameDate(name string) (time.Time, bool) {
	base := strings.TrimSuffix(name, ".md")
	base = notionIDRe.ReplaceAllString(Normalize(base), "")

	for _, re := range []*regexp.Regexp{nameKanjiRe, nameSepRe, nameCompactRe} {
		if d, ok := matchDate(re, base); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a value that is exactly one date, such as "2024-06-01",
// "2024/6/1" or "2024年6月1日". Surrounding text is rejected.
func ParseDate(value string) (time.Time, bool) {
	return matchDate(exactDateRe, strings.TrimSpace(Normalize(value)))
}

// DocumentDate scans lines for the first H1 date or "日付:" line.
// An H1 date anywhere wins over a date line.
func DocumentDate(lines []string) (time.Time, DateSource, bool) {
	var fromLine time.Time
	haveLine := false
	for _, line := range lines {
		if d, ok := ParseH1Date(line); ok {
			return d, DateFromH1, true
		}
		if !haveLine {
			if d, ok := ParseDateLine(line); ok {
				fromLine, haveLine = d, true
			}
		}
	}
	if haveLine {
		return fromLine, DateFromLine, true
	}
	return time.Time{}, "", false
}

// MakeDate builds a UTC midnight date and rejects impossible calendar days.
func MakeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// matchDate applies re and converts the first complete y/m/d group triple.
func matchDate(re *regexp.Regexp, s string) (time.Time, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	parts := make([]int, 0, 3)
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return time.Time{}, false
		}
		parts = append(parts, n)
	}
	if len(parts) != 3 {
		return time.Time{}, false
	}
	return MakeDate(parts[0], parts[1], parts[2])
}

// SplitLines splits text into lines, keeping each line's newline.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// H1Remainder returns the H1 text that follows its leading date token,
// e.g. "ClientWork 10h達成 🎉" for "# 2025年11月14日 ClientWork 10h達成 🎉".
// Without a date token the whole heading text is returned.
func H1Remainder(line string) string {
	s := Normalize(line)
	if loc := h1DateRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return HeadingText(line)
}
