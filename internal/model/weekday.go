package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a day of the recurring week, Monday first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek is the number of Weekday values.
const DaysInWeek = 7

// AllWeekdays lists every weekday in week order.
var AllWeekdays = [DaysInWeek]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayKeys = [DaysInWeek]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Valid reports whether w is one of the seven weekdays.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// Index returns the zero-based position of w in the week.
func (w Weekday) Index() int {
	return int(w)
}

// Next returns the following weekday, wrapping Sunday to Monday.
func (w Weekday) Next() Weekday {
	return Weekday((int(w) + 1) % DaysInWeek)
}

// Prev returns the preceding weekday, wrapping Monday to Sunday.
func (w Weekday) Prev() Weekday {
	return Weekday((int(w) + DaysInWeek - 1) % DaysInWeek)
}

// String returns the document key of w ("monday".."sunday").
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayKeys[w]
}

// Title returns the capitalized weekday name.
func (w Weekday) Title() string {
	s := w.String()
	if !w.Valid() {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseWeekday parses a document weekday key, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, k := range weekdayKeys {
		if k == key {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// WeekdayOf converts Go's Sunday-first weekday to the Monday-first enum.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % DaysInWeek)
}
