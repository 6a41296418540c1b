package diary

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekOf(t *testing.T) {
	// 2024-06-01 is a Saturday.
	saturday := day(2024, 6, 1)
	for offset := range 7 {
		d := saturday.AddDate(0, 0, offset)
		got := WeekOf(d)
		if !got.Since.Equal(saturday) || !got.Until.Equal(day(2024, 6, 7)) {
			t.Errorf("WeekOf(%s) = %s, want 2024-06-01〜2024-06-07", d.Format("2006-01-02"), got)
		}
		if got.Since.Weekday() != time.Saturday || got.Until.Weekday() != time.Friday {
			t.Errorf("WeekOf(%s) does not run Saturday to Friday", d.Format("2006-01-02"))
		}
	}
	if got := WeekOf(day(2024, 6, 8)); !got.Since.Equal(day(2024, 6, 8)) {
		t.Errorf("next Saturday should start a new week, got %s", got)
	}
}

func TestThisAndLastWeek(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// Friday 20:00 UTC is already Saturday morning in Tokyo.
	now := time.Date(2024, 6, 7, 20, 0, 0, 0, time.UTC)

	if got := ThisWeek(now, tokyo); !got.Since.Equal(day(2024, 6, 8)) {
		t.Errorf("ThisWeek() = %s, want week starting 2024-06-08", got)
	}
	if got := ThisWeek(now, time.UTC); !got.Since.Equal(day(2024, 6, 1)) {
		t.Errorf("ThisWeek(UTC) = %s, want week starting 2024-06-01", got)
	}
	if got := LastWeek(now, tokyo); !got.Since.Equal(day(2024, 6, 1)) || !got.Until.Equal(day(2024, 6, 7)) {
		t.Errorf("LastWeek() = %s, want 2024-06-01〜2024-06-07", got)
	}
}

func TestRangeContains(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		d    time.Time
		want bool
	}{
		{"open range", Range{}, day(2024, 6, 1), true},
		{"since inclusive", Range{Since: day(2024, 6, 1)}, day(2024, 6, 1), true},
		{"before since", Range{Since: day(2024, 6, 1)}, day(2024, 5, 31), false},
		{"until inclusive", Range{Until: day(2024, 6, 7)}, day(2024, 6, 7), true},
		{"after until", Range{Until: day(2024, 6, 7)}, day(2024, 6, 8), false},
		{"inside closed", WeekFrom(day(2024, 6, 1)), day(2024, 6, 4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.d); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRangeDaysAndString(t *testing.T) {
	r := WeekFrom(day(2024, 6, 3))
	if got := r.String(); got != "2024-06-03〜2024-06-09" {
		t.Errorf("String() = %q", got)
	}
	days := r.Days()
	if len(days) != 7 {
		t.Fatalf("Days() returned %d days, want 7", len(days))
	}
	if !days[6].Equal(day(2024, 6, 9)) {
		t.Errorf("last day = %v", days[6])
	}
	if (Range{Since: day(2024, 6, 3)}).Days() != nil {
		t.Error("open range should have no days")
	}
}

func TestFilter(t *testing.T) {
	entries := []*Entry{
		{Date: day(2024, 5, 31)},
		{Date: day(2024, 6, 1)},
		{Date: day(2024, 6, 7)},
		{Date: day(2024, 6, 8)},
	}
	got := Filter(entries, WeekOf(day(2024, 6, 3)))
	if len(got) != 2 || got[0].Day() != "2024-06-01" || got[1].Day() != "2024-06-07" {
		t.Errorf("Filter() kept %d entries", len(got))
	}
	if all := Filter(entries, Range{}); len(all) != 4 {
		t.Errorf("open range kept %d entries, want 4", len(all))
	}
}
