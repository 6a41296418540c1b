// Package timelog reads Toggl "Detailed" CSV exports and sums tracked time
// per day and per project.
package timelog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorewood/nikki/internal/diary"
	"github.com/gorewood/nikki/internal/notionmd"
)

// NoProject labels time tracked without a project.
const NoProject = "(no project)"

// Expected Toggl Detailed headers.
const (
	ColStartDate   = "Start date"
	ColDuration    = "Duration"
	ColProject     = "Project"
	ColDescription = "Description"
	ColClient      = "Client"
	ColTags        = "Tags"
)

// ErrMissingColumns reports a CSV without the required headers.
var ErrMissingColumns = errors.New("missing required columns")

var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006"}

// Entry is one time entry row.
type Entry struct {
	Date        time.Time
	Project     string
	Client      string
	Description string
	Tags        []string
	Duration    time.Duration
}

// ProjectTotal is the time spent on one project.
type ProjectTotal struct {
	Project  string        `json:"project"`
	Duration time.Duration `json:"-"`
	Hours    float64       `json:"hours"`
}

// Day sums the entries of one calendar date.
type Day struct {
	Date      time.Time
	Total     time.Duration
	ByProject map[string]time.Duration
}

// Projects returns the day's projects, longest first.
func (d Day) Projects() []ProjectTotal {
	return sortedTotals(d.ByProject)
}

// Summary is a parsed export grouped by date.
type Summary struct {
	Source string
	Days   []Day
	// Entries keeps the parsed rows in file order.
	Entries []Entry
	Rows    int
	Skipped int
}

// Day returns the summary for date, if any time was tracked.
func (s *Summary) Day(date time.Time) (Day, bool) {
	if s == nil {
		return Day{}, false
	}
	for _, d := range s.Days {
		if d.Date.Equal(date) {
			return d, true
		}
	}
	return Day{}, false
}

// Total sums every day.
func (s *Summary) Total() time.Duration {
	if s == nil {
		return 0
	}
	var total time.Duration
	for _, d := range s.Days {
		total += d.Total
	}
	return total
}

// Projects sums each project across every day, longest first.
func (s *Summary) Projects() []ProjectTotal {
	if s == nil {
		return nil
	}
	all := make(map[string]time.Duration)
	for _, d := range s.Days {
		for p, dur := range d.ByProject {
			all[p] += dur
		}
	}
	return sortedTotals(all)
}

// Filter returns a summary restricted to the days in r.
func (s *Summary) Filter(r diary.Range) *Summary {
	if s == nil || r.IsZero() {
		return s
	}
	out := &Summary{Source: s.Source, Rows: s.Rows, Skipped: s.Skipped}
	for _, d := range s.Days {
		if r.Contains(d.Date) {
			out.Days = append(out.Days, d)
		}
	}
	for _, e := range s.Entries {
		if r.Contains(e.Date) {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

// ParseFile opens path and parses it.
func ParseFile(path string) (*Summary, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open time log: %w", err)
	}
	defer func() { _ = f.Close() }()

	summary, warnings, err := Parse(f)
	if err != nil {
		return nil, warnings, fmt.Errorf("%s: %w", path, err)
	}
	summary.Source = path
	return summary, warnings, nil
}

// Parse reads a Toggl Detailed CSV. Malformed rows are skipped and reported
// as warnings. Missing required headers fail with ErrMissingColumns.
func Parse(r io.Reader) (*Summary, []string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		entries  []Entry
		warnings []string
		skipped  int
		rows     int
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rows++
		if err != nil {
			skipped++
			warnings = append(warnings, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		entry, err := cols.entry(record)
		if err != nil {
			skipped++
			warnings = append(warnings, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		entries = append(entries, entry)
	}

	return &Summary{Days: Summarize(entries), Entries: entries, Rows: rows, Skipped: skipped}, warnings, nil
}

// Summarize groups entries by date, ascending.
func Summarize(entries []Entry) []Day {
	byDate := make(map[time.Time]*Day)
	for _, e := range entries {
		d, ok := byDate[e.Date]
		if !ok {
			d = &Day{Date: e.Date, ByProject: make(map[string]time.Duration)}
			byDate[e.Date] = d
		}
		d.Total += e.Duration
		d.ByProject[e.Project] += e.Duration
	}

	days := make([]Day, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

type columns struct {
	date, duration, project   int
	description, client, tags int
}

func mapColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	lookup := func(name string) int {
		if i, ok := index[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	cols := columns{
		date:        lookup(ColStartDate),
		duration:    lookup(ColDuration),
		project:     lookup(ColProject),
		description: lookup(ColDescription),
		client:      lookup(ColClient),
		tags:        lookup(ColTags),
	}

	var missing []string
	for name, i := range map[string]int{ColStartDate: cols.date, ColDuration: cols.duration, ColProject: cols.project} {
		if i < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return cols, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columns) entry(record []string) (Entry, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := ParseDate(field(c.date))
	if err != nil {
		return Entry{}, err
	}
	dur, err := ParseDuration(field(c.duration))
	if err != nil {
		return Entry{}, err
	}
	project := field(c.project)
	if project == "" {
		project = NoProject
	}

	entry := Entry{
		Date:        date,
		Project:     project,
		Client:      field(c.client),
		Description: field(c.description),
		Duration:    dur,
	}
	if tags := field(c.tags); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				entry.Tags = append(entry.Tags, tag)
			}
		}
	}
	return entry, nil
}

// ParseDate reads a Toggl start date as a calendar date.
func ParseDate(value string) (time.Time, error) {
	if len(value) > 10 {
		value = value[:10]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start date %q", value)
}

// ParseDuration reads "HH:MM:SS" (hours may exceed 24), "HH:MM" or decimal
// hours such as "1.5".
func ParseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, errors.New("empty duration")
	}
	if !strings.Contains(value, ":") {
		hours, err := strconv.ParseFloat(value, 64)
		if err != nil || hours < 0 {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return time.Duration(hours * float64(time.Hour)).Round(time.Second), nil
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (i > 0 && n > 59) {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		total += time.Duration(n) * units[i]
	}
	return total, nil
}

// FormatHours renders d as decimal hours with two places.
func FormatHours(d time.Duration) string {
	return strconv.FormatFloat(d.Hours(), 'f', 2, 64)
}

// FormatClock renders d as H:MM.
func FormatClock(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// DayLabel formats a summary date the way report headings do.
func DayLabel(d time.Time) string {
	return d.Format(notionmd.DateLayout)
}

func sortedTotals(m map[string]time.Duration) []ProjectTotal {
	totals := make([]ProjectTotal, 0, len(m))
	for p, d := range m {
		totals = append(totals, ProjectTotal{Project: p, Duration: d, Hours: Hours(d)})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Duration != totals[j].Duration {
			return totals[i].Duration > totals[j].Duration
		}
		return totals[i].Project < totals[j].Project
	})
	return totals
}

// Hours converts d to hours rounded to two decimals.
func Hours(d time.Duration) float64 {
	v, _ := strconv.ParseFloat(FormatHours(d), 64)
	return v
}
