package model

import "fmt"

// SpecialDayType classifies a date-specific exception.
type SpecialDayType string

const (
	SpecialClosed SpecialDayType = "closed"
	SpecialHours  SpecialDayType = "special_hours"
	SpecialEvent  SpecialDayType = "event"
)

// Valid reports whether t is a known exception type.
func (t SpecialDayType) Valid() bool {
	switch t {
	case SpecialClosed, SpecialHours, SpecialEvent:
		return true
	}
	return false
}

// ParseSpecialDayType parses a document exception type.
func ParseSpecialDayType(s string) (SpecialDayType, error) {
	t := SpecialDayType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown special day type %q", s)
	}
	return t, nil
}

// SpecialDay is a date-keyed exception layered over the weekly plan.
// At most one SpecialDay exists per date.
type SpecialDay struct {
	ID             string
	Date           Date
	Name           string
	Type           SpecialDayType
	Hours          *TimeRange
	OverrideShifts []Shift
}

// Clone returns a deep copy of s.
func (s SpecialDay) Clone() SpecialDay {
	out := s
	if s.Hours != nil {
		h := *s.Hours
		out.Hours = &h
	}
	if s.OverrideShifts != nil {
		out.OverrideShifts = append([]Shift(nil), s.OverrideShifts...)
	}
	return out
}

// Schedule is the unit validated and persisted together.
type Schedule struct {
	Week        WeekPlan
	SpecialDays []SpecialDay
}

// Clone returns a deep copy of s.
func (s Schedule) Clone() Schedule {
	out := Schedule{Week: s.Week.Clone()}
	if s.SpecialDays != nil {
		out.SpecialDays = make([]SpecialDay, len(s.SpecialDays))
		for i, sd := range s.SpecialDays {
			out.SpecialDays[i] = sd.Clone()
		}
	}
	return out
}

// SpecialDayOn returns the exception for date, if any.
func (s Schedule) SpecialDayOn(date Date) (SpecialDay, bool) {
	for _, sd := range s.SpecialDays {
		if sd.Date == date {
			return sd, true
		}
	}
	return SpecialDay{}, false
}

// EffectiveDay is the resolved schedule for one concrete date. It is
// derived on demand and never stored.
type EffectiveDay struct {
	Date   Date
	IsOpen bool
	Shifts []Shift
	Reason *SpecialDay
}

// Bookable reports whether the day is open with at least one shift.
func (e EffectiveDay) Bookable() bool {
	return e.IsOpen && len(e.Shifts) > 0
}
