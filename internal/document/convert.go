package document

import (
	"fmt"

	"horario/internal/model"
)

// ToShift converts a validated shift document.
func (d ShiftDoc) ToShift() (model.Shift, error) {
	start, err := model.ParseTimeOfDay(d.StartTime)
	if err != nil {
		return model.Shift{}, fmt.Errorf("startTime: %w", err)
	}
	end, err := model.ParseTimeOfDay(d.EndTime)
	if err != nil {
		return model.Shift{}, fmt.Errorf("endTime: %w", err)
	}
	return model.Shift{
		ID:       d.ID,
		Name:     d.Name,
		Label:    d.Emoji,
		Range:    model.NewTimeRange(start, end),
		Color:    d.Color,
		IsCustom: d.IsCustom,
	}, nil
}

func toShifts(docs []ShiftDoc) ([]model.Shift, error) {
	out := make([]model.Shift, 0, len(docs))
	for i, d := range docs {
		s, err := d.ToShift()
		if err != nil {
			return nil, fmt.Errorf("shifts[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// ToDay converts a validated day document.
func (d DayDoc) ToDay() (model.DayPlan, error) {
	shifts, err := toShifts(d.Shifts)
	if err != nil {
		return model.DayPlan{}, err
	}
	day := model.DayPlan{Enabled: d.Enabled, Shifts: shifts}
	if (d.OpenTime == "") != (d.CloseTime == "") {
		return model.DayPlan{}, fmt.Errorf("openTime and closeTime must be set together")
	}
	if d.OpenTime != "" {
		venue, err := model.ParseTimeRange(d.OpenTime + "-" + d.CloseTime)
		if err != nil {
			return model.DayPlan{}, fmt.Errorf("venue hours: %w", err)
		}
		day.Venue = &venue
	}
	return day, nil
}

// ToSpecialDay converts a validated special day document.
func (d SpecialDayDoc) ToSpecialDay() (model.SpecialDay, error) {
	date, err := model.ParseDate(d.Date)
	if err != nil {
		return model.SpecialDay{}, fmt.Errorf("date: %w", err)
	}
	typ, err := model.ParseSpecialDayType(d.Type)
	if err != nil {
		return model.SpecialDay{}, err
	}
	sd := model.SpecialDay{ID: d.ID, Date: date, Name: d.Name, Type: typ}
	if d.Hours != "" {
		hours, err := model.ParseTimeRange(d.Hours)
		if err != nil {
			return model.SpecialDay{}, fmt.Errorf("hours: %w", err)
		}
		sd.Hours = &hours
	}
	if len(d.Shifts) > 0 {
		if sd.OverrideShifts, err = toShifts(d.Shifts); err != nil {
			return model.SpecialDay{}, err
		}
	}
	return sd, nil
}
