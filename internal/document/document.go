// Package document converts schedules to and from the persisted JSON
// document, one per restaurant.
package document

import (
	"errors"

	"horario/internal/model"
)

// ErrInvalidFormat is returned when a stored document cannot be loaded.
// Loading never yields a partial schedule.
var ErrInvalidFormat = errors.New("invalid schedule document format")

// Document is the persisted shape of a model.Schedule.
type Document struct {
	OpeningHours map[string]DayDoc `json:"openingHours"`
	SpecialDays  []SpecialDayDoc   `json:"specialDays"`
}

// DayDoc is one weekday of the opening hours.
type DayDoc struct {
	Enabled   bool       `json:"enabled"`
	OpenTime  string     `json:"openTime,omitempty" validate:"omitempty,hhmm"`
	CloseTime string     `json:"closeTime,omitempty" validate:"omitempty,hhmm"`
	Shifts    []ShiftDoc `json:"shifts" validate:"dive"`
}

// ShiftDoc is a shift as stored.
type ShiftDoc struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Emoji     string `json:"emoji"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	Color     string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	IsCustom  bool   `json:"isCustom"`
}

// SpecialDayDoc is a date exception as stored.
type SpecialDayDoc struct {
	ID     string     `json:"id" validate:"required"`
	Date   string     `json:"date" validate:"required,datetime=2006-01-02"`
	Name   string     `json:"name"`
	Type   string     `json:"type" validate:"required,oneof=closed special_hours event"`
	Hours  string     `json:"hours,omitempty" validate:"omitempty,hhmmrange"`
	Shifts []ShiftDoc `json:"shifts,omitempty" validate:"omitempty,dive"`
}

// EffectiveDayDoc is the wire form of a resolved day.
type EffectiveDayDoc struct {
	Date    string         `json:"date"`
	Weekday string         `json:"weekday"`
	IsOpen  bool           `json:"isOpen"`
	Shifts  []ShiftDoc     `json:"shifts"`
	Reason  *SpecialDayDoc `json:"reason,omitempty"`
}

// FromShift converts a model shift.
func FromShift(s model.Shift) ShiftDoc {
	return ShiftDoc{
		ID:        s.ID,
		Name:      s.Name,
		Emoji:     s.Label,
		StartTime: s.Range.Start.String(),
		EndTime:   s.Range.End.String(),
		Color:     s.Color,
		IsCustom:  s.IsCustom,
	}
}

// FromShifts converts a shift list. The result is never nil.
func FromShifts(shifts []model.Shift) []ShiftDoc {
	out := make([]ShiftDoc, len(shifts))
	for i, s := range shifts {
		out[i] = FromShift(s)
	}
	return out
}

// FromDay converts a day plan.
func FromDay(d model.DayPlan) DayDoc {
	doc := DayDoc{Enabled: d.Enabled, Shifts: FromShifts(d.Shifts)}
	if d.Venue != nil {
		doc.OpenTime = d.Venue.Start.String()
		doc.CloseTime = d.Venue.End.String()
	}
	return doc
}

// FromSpecialDay converts a special day.
func FromSpecialDay(sd model.SpecialDay) SpecialDayDoc {
	doc := SpecialDayDoc{
		ID:   sd.ID,
		Date: sd.Date.String(),
		Name: sd.Name,
		Type: string(sd.Type),
	}
	if sd.Hours != nil {
		doc.Hours = sd.Hours.String()
	}
	if len(sd.OverrideShifts) > 0 {
		doc.Shifts = FromShifts(sd.OverrideShifts)
	}
	return doc
}

// FromSchedule converts a schedule into its document form.
func FromSchedule(s model.Schedule) Document {
	doc := Document{
		OpeningHours: make(map[string]DayDoc, model.DaysInWeek),
		SpecialDays:  make([]SpecialDayDoc, len(s.SpecialDays)),
	}
	for _, w := range model.AllWeekdays {
		doc.OpeningHours[w.String()] = FromDay(s.Week[w])
	}
	for i, sd := range s.SpecialDays {
		doc.SpecialDays[i] = FromSpecialDay(sd)
	}
	return doc
}

// FromEffectiveDay converts a resolved day.
func FromEffectiveDay(e model.EffectiveDay) EffectiveDayDoc {
	doc := EffectiveDayDoc{
		Date:    e.Date.String(),
		Weekday: e.Date.Weekday().String(),
		IsOpen:  e.IsOpen,
		Shifts:  FromShifts(e.Shifts),
	}
	if e.Reason != nil {
		reason := FromSpecialDay(*e.Reason)
		doc.Reason = &reason
	}
	return doc
}
