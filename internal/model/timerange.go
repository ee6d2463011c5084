package model

import (
	"fmt"
	"strings"
)

// AxisStartHour is the hour at which the linear day axis begins, so that
// late-night shifts such as 20:00-02:00 stay contiguous.
const AxisStartHour = 6

// TimeRange is an interval of wall-clock time. When End is numerically
// earlier than Start the range crosses midnight.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewTimeRange returns the range [start, end).
func NewTimeRange(start, end TimeOfDay) TimeRange {
	return TimeRange{Start: start, End: end}
}

// ParseTimeRange parses "HH:MM-HH:MM".
func ParseTimeRange(s string) (TimeRange, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return TimeRange{}, fmt.Errorf("invalid time range %q, expected HH:MM-HH:MM", s)
	}
	start, err := ParseTimeOfDay(from)
	if err != nil {
		return TimeRange{}, fmt.Errorf("range start: %w", err)
	}
	end, err := ParseTimeOfDay(to)
	if err != nil {
		return TimeRange{}, fmt.Errorf("range end: %w", err)
	}
	return TimeRange{Start: start, End: end}, nil
}

// MustRange parses s and panics on error. Intended for constants and tests.
func MustRange(s string) TimeRange {
	r, err := ParseTimeRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns r in "HH:MM-HH:MM" format.
func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// IsZero reports whether r is degenerate (start == end).
func (r TimeRange) IsZero() bool {
	return r.Start == r.End
}

// CrossesMidnight reports whether r wraps past 24:00.
func (r TimeRange) CrossesMidnight() bool {
	return r.End.Minutes() < r.Start.Minutes()
}

// Duration returns the length of r in minutes.
func (r TimeRange) Duration() int {
	if r.CrossesMidnight() {
		return (MinutesPerDay - r.Start.Minutes()) + r.End.Minutes()
	}
	return r.End.Minutes() - r.Start.Minutes()
}

// linear places r on the day axis as [start, end) with end > start.
func (r TimeRange) linear() (int, int) {
	start := LinearMinutes(r.Start, AxisStartHour)
	end := LinearMinutes(r.End, AxisStartHour)
	if end <= start {
		// only reachable for ranges that straddle the axis start
		end += MinutesPerDay
	}
	return start, end
}

// Overlaps reports whether a and b share any time. Ranges that only touch
// at an endpoint do not overlap; degenerate ranges overlap nothing.
func Overlaps(a, b TimeRange) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	as, ae := a.linear()
	bs, be := b.linear()
	for _, shift := range [...]int{0, MinutesPerDay, -MinutesPerDay} {
		if as < be+shift && bs+shift < ae {
			return true
		}
	}
	return false
}

// Within reports whether a lies entirely inside b.
func Within(a, b TimeRange) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	as, ae := a.linear()
	bs, be := b.linear()
	for _, shift := range [...]int{0, MinutesPerDay, -MinutesPerDay} {
		if as+shift >= bs && ae+shift <= be {
			return true
		}
	}
	return false
}
