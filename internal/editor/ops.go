package editor

import (
	"errors"

	"horario/internal/model"
	"horario/internal/schedule"
)

// ErrNotConfirmed is returned by destructive operations invoked without
// the operator's confirmation.
var ErrNotConfirmed = errors.New("operation requires confirmation")

// Op is a pure mutation of a schedule snapshot. An Op that fails leaves the
// session unchanged.
type Op func(model.Schedule) (model.Schedule, error)

func onDay(w model.Weekday, f func(model.DayPlan) (model.DayPlan, error)) Op {
	return func(s model.Schedule) (model.Schedule, error) {
		day, err := f(s.Week.Day(w))
		if err != nil {
			return s, err
		}
		s.Week = s.Week.With(w, day)
		return s, nil
	}
}

func onWeek(f func(model.WeekPlan) model.WeekPlan) Op {
	return func(s model.Schedule) (model.Schedule, error) {
		s.Week = f(s.Week)
		return s, nil
	}
}

func ToggleDay(w model.Weekday) Op {
	return onDay(w, func(d model.DayPlan) (model.DayPlan, error) {
		return schedule.ToggleEnabled(d), nil
	})
}

func AddTemplateShift(w model.Weekday, templateName string) Op {
	return onDay(w, func(d model.DayPlan) (model.DayPlan, error) {
		return schedule.AddTemplateShift(d, templateName)
	})
}

func AddShift(w model.Weekday, shift model.Shift) Op {
	return onDay(w, func(d model.DayPlan) (model.DayPlan, error) {
		return schedule.AddShift(d, shift), nil
	})
}

func UpdateShift(w model.Weekday, id string, patch schedule.ShiftPatch) Op {
	return onDay(w, func(d model.DayPlan) (model.DayPlan, error) {
		return schedule.UpdateShift(d, id, patch), nil
	})
}

func SwapBuiltin(w model.Weekday, id, templateName string) Op {
	return onDay(w, func(d model.DayPlan) (model.DayPlan, error) {
		return schedule.SwapBuiltin(d, id, templateName)
	})
}

func RemoveShift(w model.Weekday, id string) Op {
	return onDay(w, func(d model.DayPlan) (model.DayPlan, error) {
		return schedule.RemoveShift(d, id), nil
	})
}

// ApplyDayToAll overwrites the whole week with source. confirmed must be
// true; the overwrite cannot be undone.
func ApplyDayToAll(source model.Weekday, confirmed bool) Op {
	return func(s model.Schedule) (model.Schedule, error) {
		if !confirmed {
			return s, ErrNotConfirmed
		}
		s.Week = schedule.ApplyDayToAll(s.Week, source)
		return s, nil
	}
}

func ApplyVenueHours(openTime, closeTime model.TimeOfDay) Op {
	return onWeek(func(w model.WeekPlan) model.WeekPlan {
		return schedule.ApplyVenueHoursToAllOpenDays(w, openTime, closeTime)
	})
}

func RenameTemplate(oldName string, patch schedule.TemplatePatch) Op {
	return onWeek(func(w model.WeekPlan) model.WeekPlan {
		return schedule.RenameOrRestyle(w, oldName, patch)
	})
}

func DeleteTemplate(name string, opts schedule.DeleteOptions) Op {
	return onWeek(func(w model.WeekPlan) model.WeekPlan {
		return schedule.DeleteTemplate(w, name, opts)
	})
}

func AddSpecialDay(sd model.SpecialDay, res schedule.Resolution) Op {
	return func(s model.Schedule) (model.Schedule, error) {
		list, err := schedule.AddSpecialDay(s.SpecialDays, sd, res)
		if err != nil {
			return s, err
		}
		s.SpecialDays = list
		return s, nil
	}
}

func UpdateSpecialDay(sd model.SpecialDay, res schedule.Resolution) Op {
	return func(s model.Schedule) (model.Schedule, error) {
		list, err := schedule.UpdateSpecialDay(s.SpecialDays, sd, res)
		if err != nil {
			return s, err
		}
		s.SpecialDays = list
		return s, nil
	}
}

func RemoveSpecialDay(id string) Op {
	return func(s model.Schedule) (model.Schedule, error) {
		s.SpecialDays = schedule.RemoveSpecialDay(s.SpecialDays, id)
		return s, nil
	}
}

// Replace swaps in a whole schedule, e.g. one uploaded by a dashboard. It
// must pass schedule.ValidateSchedule.
func Replace(next model.Schedule) Op {
	return func(s model.Schedule) (model.Schedule, error) {
		if err := schedule.ValidateSchedule(next); err != nil {
			return s, err
		}
		return next.Clone(), nil
	}
}
