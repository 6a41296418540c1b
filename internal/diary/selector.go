package diary

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorewood/nikki/internal/notionmd"
)

// relativeRe matches relative day offsets like "7d" or "2w".
var relativeRe = regexp.MustCompile(`^(\d+)([dw])$`)

// ErrConflictingWindow reports a selector that names more than one window.
var ErrConflictingWindow = errors.New("conflicting date window")

// Selector is the user's description of a date window. At most one of
// WeekStart, Week, ThisWeek, LastWeek and the Since/Until pair may be set.
type Selector struct {
	WeekStart string
	Week      string
	ThisWeek  bool
	LastWeek  bool
	Since     string
	Until     string
}

// IsZero reports whether no window was requested.
func (s Selector) IsZero() bool {
	return s == Selector{}
}

// Resolve turns the selector into a range. now and loc anchor "this week",
// "last week" and relative offsets. The returned warning is non-empty when
// the range is usable but probably not what was meant.
func (s Selector) Resolve(now time.Time, loc *time.Location) (Range, string, error) {
	if err := s.check(); err != nil {
		return Range{}, "", err
	}
	today := CalendarDate(now, loc)

	switch {
	case s.WeekStart != "":
		start, err := ParseDay(s.WeekStart, today)
		if err != nil {
			return Range{}, "", fmt.Errorf("--week-start: %w", err)
		}
		r := WeekFrom(start)
		warning := ""
		if start.Weekday() != time.Saturday {
			warning = fmt.Sprintf("week start %s is a %s, not a Saturday; using %s",
				start.Format(notionmd.DateLayout), start.Weekday(), r)
		}
		return r, warning, nil
	case s.Week != "":
		d, err := ParseDay(s.Week, today)
		if err != nil {
			return Range{}, "", fmt.Errorf("--week: %w", err)
		}
		return WeekOf(d), "", nil
	case s.ThisWeek:
		return ThisWeek(now, loc), "", nil
	case s.LastWeek:
		return LastWeek(now, loc), "", nil
	}

	var r Range
	if s.Since != "" {
		d, err := ParseDay(s.Since, today)
		if err != nil {
			return Range{}, "", fmt.Errorf("--since: %w", err)
		}
		r.Since = d
	}
	if s.Until != "" {
		d, err := ParseDay(s.Until, today)
		if err != nil {
			return Range{}, "", fmt.Errorf("--until: %w", err)
		}
		r.Until = d
	}
	if !r.Since.IsZero() && !r.Until.IsZero() && r.Since.After(r.Until) {
		return Range{}, "", fmt.Errorf("since %s is after until %s",
			r.Since.Format(notionmd.DateLayout), r.Until.Format(notionmd.DateLayout))
	}
	return r, "", nil
}

func (s Selector) check() error {
	var set []string
	if s.WeekStart != "" {
		set = append(set, "week-start")
	}
	if s.Week != "" {
		set = append(set, "week")
	}
	if s.ThisWeek {
		set = append(set, "this-week")
	}
	if s.LastWeek {
		set = append(set, "last-week")
	}
	if s.Since != "" || s.Until != "" {
		set = append(set, "since/until")
	}
	if len(set) > 1 {
		return fmt.Errorf("%w: %s", ErrConflictingWindow, strings.Join(set, ", "))
	}
	return nil
}

// ParseDay parses a calendar date ("2024-06-01", "2024/6/1", "2024年6月1日")
// or a relative offset back from today ("7d", "2w").
func ParseDay(value string, today time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if m := relativeRe.FindStringSubmatch(value); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid offset %q", value)
		}
		if m[2] == "w" {
			n *= 7
		}
		return today.AddDate(0, 0, -n), nil
	}
	if d, ok := notionmd.ParseDate(value); ok {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q; use YYYY-MM-DD or an offset such as 7d", value)
}
