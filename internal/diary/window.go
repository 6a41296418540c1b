package diary

import (
	"time"

	"github.com/gorewood/nikki/internal/notionmd"
)

// Range is an inclusive span of calendar dates. A zero Since or Until
// leaves that end open. Dates are UTC midnight values.
type Range struct {
	Since time.Time
	Until time.Time
}

// IsZero reports whether the range is open on both ends.
func (r Range) IsZero() bool {
	return r.Since.IsZero() && r.Until.IsZero()
}

// Contains reports whether the calendar date d falls inside the range.
func (r Range) Contains(d time.Time) bool {
	if !r.Since.IsZero() && d.Before(r.Since) {
		return false
	}
	if !r.Until.IsZero() && d.After(r.Until) {
		return false
	}
	return true
}

// String formats the range as "YYYY-MM-DD〜YYYY-MM-DD", leaving open ends blank.
func (r Range) String() string {
	return formatDay(r.Since) + "〜" + formatDay(r.Until)
}

func formatDay(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(notionmd.DateLayout)
}

// Days returns every date in a closed range. It returns nil for open ranges.
func (r Range) Days() []time.Time {
	if r.Since.IsZero() || r.Until.IsZero() {
		return nil
	}
	var days []time.Time
	for d := r.Since; !d.After(r.Until); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Filter returns the entries whose date lies in r, preserving order.
func Filter(entries []*Entry, r Range) []*Entry {
	if r.IsZero() {
		return entries
	}
	var result []*Entry
	for _, entry := range entries {
		if r.Contains(entry.Date) {
			result = append(result, entry)
		}
	}
	return result
}

// CalendarDate returns the calendar day of t as observed in loc.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekFrom returns the seven days starting at start.
func WeekFrom(start time.Time) Range {
	start = CalendarDate(start, nil)
	return Range{Since: start, Until: start.AddDate(0, 0, 6)}
}

// WeekOf returns the Saturday to Friday week containing d.
func WeekOf(d time.Time) Range {
	d = CalendarDate(d, nil)
	offset := (int(d.Weekday()) - int(time.Saturday) + 7) % 7
	return WeekFrom(d.AddDate(0, 0, -offset))
}

// ThisWeek returns the week containing now in loc.
func ThisWeek(now time.Time, loc *time.Location) Range {
	return WeekOf(CalendarDate(now, loc))
}

// LastWeek returns the week before the one containing now in loc.
func LastWeek(now time.Time, loc *time.Location) Range {
	return WeekOf(CalendarDate(now, loc).AddDate(0, 0, -7))
}
