package schedule

import "horario/internal/model"

// Resolve computes the effective schedule for date by layering the
// matching special day, if any, over the weekly plan.
//
// Closed always wins. Special hours replace the day's shifts with the
// override shifts, or else keep only regular shifts overlapping the
// special window (whole, not clipped). An event carves overlapping shifts
// out of the regular day and keeps the rest. Shift order is not guaranteed.
func Resolve(week model.WeekPlan, specialDays []model.SpecialDay, date model.Date) model.EffectiveDay {
	base := week.Day(date.Weekday())
	result := model.EffectiveDay{Date: date, Shifts: []model.Shift{}}

	exception, ok := findSpecialDay(specialDays, date)
	if !ok {
		result.IsOpen = base.Enabled
		if base.Enabled {
			result.Shifts = copyShifts(base.Shifts)
		}
		return result
	}

	reason := exception.Clone()
	result.Reason = &reason

	switch exception.Type {
	case model.SpecialClosed:
		result.IsOpen = false
	case model.SpecialHours:
		// Open even when nothing survives the filter; Bookable() tells the
		// caller whether any shift is left.
		result.IsOpen = true
		if len(exception.OverrideShifts) > 0 {
			result.Shifts = copyShifts(exception.OverrideShifts)
		} else {
			result.Shifts = filterShifts(base.Shifts, exception.Hours, true)
		}
	case model.SpecialEvent:
		result.IsOpen = base.Enabled
		if base.Enabled {
			result.Shifts = filterShifts(base.Shifts, exception.Hours, false)
		}
	default:
		result.IsOpen = base.Enabled
		if base.Enabled {
			result.Shifts = copyShifts(base.Shifts)
		}
	}
	return result
}

// ResolveSchedule is Resolve over a Schedule.
func ResolveSchedule(s model.Schedule, date model.Date) model.EffectiveDay {
	return Resolve(s.Week, s.SpecialDays, date)
}

// ResolveRange resolves every date from..to inclusive.
func ResolveRange(s model.Schedule, from, to model.Date) []model.EffectiveDay {
	if to.Before(from) {
		return nil
	}
	days := make([]model.EffectiveDay, 0, from.DaysUntil(to)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, Resolve(s.Week, s.SpecialDays, d))
	}
	return days
}

func findSpecialDay(specialDays []model.SpecialDay, date model.Date) (model.SpecialDay, bool) {
	for _, sd := range specialDays {
		if sd.Date == date {
			return sd, true
		}
	}
	return model.SpecialDay{}, false
}

// filterShifts keeps shifts whose overlap with window equals keepOverlapping.
// A missing window overlaps nothing.
func filterShifts(shifts []model.Shift, window *model.TimeRange, keepOverlapping bool) []model.Shift {
	out := make([]model.Shift, 0, len(shifts))
	for _, s := range shifts {
		overlaps := window != nil && model.Overlaps(s.Range, *window)
		if overlaps == keepOverlapping {
			out = append(out, s)
		}
	}
	return out
}

func copyShifts(shifts []model.Shift) []model.Shift {
	return append(make([]model.Shift, 0, len(shifts)), shifts...)
}
