package model

import "sort"

// Shift is a named service window within a day.
type Shift struct {
	ID       string
	Name     string
	Label    string // emoji shown next to the name
	Range    TimeRange
	Color    string // "#RRGGBB", optional
	IsCustom bool
}

// DayPlan is one weekday's venue hours plus its shifts.
type DayPlan struct {
	Enabled bool
	Venue   *TimeRange
	Shifts  []Shift
}

// Clone returns a deep copy of d.
func (d DayPlan) Clone() DayPlan {
	out := DayPlan{Enabled: d.Enabled}
	if d.Venue != nil {
		v := *d.Venue
		out.Venue = &v
	}
	if d.Shifts != nil {
		out.Shifts = append([]Shift(nil), d.Shifts...)
	}
	return out
}

// ShiftIndex returns the position of the shift with id, or -1.
func (d DayPlan) ShiftIndex(id string) int {
	for i, s := range d.Shifts {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// HasShiftID reports whether a shift with id exists in d.
func (d DayPlan) HasShiftID(id string) bool {
	return d.ShiftIndex(id) >= 0
}

// SortShifts orders shifts by start time, keeping ties stable.
func SortShifts(shifts []Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		return shifts[i].Range.Start.Before(shifts[j].Range.Start)
	})
}

// WeekPlan holds a DayPlan for every weekday. Being an array it is total
// over the week by construction.
type WeekPlan [DaysInWeek]DayPlan

// Day returns the plan for w. An out-of-range weekday is a programming
// error and panics.
func (p WeekPlan) Day(w Weekday) DayPlan {
	if !w.Valid() {
		panic("model: invalid weekday " + w.String())
	}
	return p[w]
}

// With returns a copy of p with w's plan replaced by d.
func (p WeekPlan) With(w Weekday, d DayPlan) WeekPlan {
	if !w.Valid() {
		panic("model: invalid weekday " + w.String())
	}
	out := p.Clone()
	out[w] = d.Clone()
	return out
}

// Clone returns a deep copy of p.
func (p WeekPlan) Clone() WeekPlan {
	var out WeekPlan
	for i := range p {
		out[i] = p[i].Clone()
	}
	return out
}
