package schedule

import (
	"horario/internal/model"
)

// ShiftPatch changes one shift. Nil fields are left unchanged.
type ShiftPatch struct {
	Name  *string
	Label *string
	Color *string
	Start *model.TimeOfDay
	End   *model.TimeOfDay
}

// freshID returns an id not used by any shift in day.
func freshID(day model.DayPlan) string {
	for {
		id := newID()
		if !day.HasShiftID(id) {
			return id
		}
	}
}

// ToggleEnabled flips day.Enabled. A day enabled with no shifts receives
// one default shift so it is never open but empty.
func ToggleEnabled(day model.DayPlan) model.DayPlan {
	out := day.Clone()
	out.Enabled = !out.Enabled
	if out.Enabled && len(out.Shifts) == 0 {
		out.Shifts = []model.Shift{DefaultTemplate.Instantiate(freshID(out))}
	}
	return out
}

// AddShift appends a copy of s under a fresh id and re-sorts by start time.
func AddShift(day model.DayPlan, s model.Shift) model.DayPlan {
	out := day.Clone()
	s.ID = freshID(out)
	out.Shifts = append(out.Shifts, s)
	model.SortShifts(out.Shifts)
	return out
}

// AddTemplateShift appends an instance of the named built-in template.
func AddTemplateShift(day model.DayPlan, templateName string) (model.DayPlan, error) {
	tpl, err := LookupTemplate(templateName)
	if err != nil {
		return day, err
	}
	return AddShift(day, tpl.Instantiate("")), nil
}

// UpdateShift applies patch to the shift with id. The list is re-sorted
// when the start time changes. Unknown ids leave the day unchanged.
func UpdateShift(day model.DayPlan, id string, patch ShiftPatch) model.DayPlan {
	out := day.Clone()
	i := out.ShiftIndex(id)
	if i < 0 {
		return out
	}
	s := &out.Shifts[i]
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Label != nil {
		s.Label = *patch.Label
	}
	if patch.Color != nil {
		s.Color = *patch.Color
	}
	if patch.End != nil {
		s.Range.End = *patch.End
	}
	if patch.Start != nil && *patch.Start != s.Range.Start {
		s.Range.Start = *patch.Start
		model.SortShifts(out.Shifts)
	}
	return out
}

// SwapBuiltin replaces a built-in shift instance with another built-in
// template, keeping its id. Custom shifts are not affected.
func SwapBuiltin(day model.DayPlan, id, templateName string) (model.DayPlan, error) {
	tpl, err := LookupTemplate(templateName)
	if err != nil {
		return day, err
	}
	out := day.Clone()
	i := out.ShiftIndex(id)
	if i < 0 || out.Shifts[i].IsCustom {
		return out, nil
	}
	out.Shifts[i] = tpl.Instantiate(id)
	model.SortShifts(out.Shifts)
	return out, nil
}

// RemoveShift deletes the shift with id. A day left without shifts is
// disabled, since it cannot be open for service.
func RemoveShift(day model.DayPlan, id string) model.DayPlan {
	out := day.Clone()
	i := out.ShiftIndex(id)
	if i < 0 {
		return out
	}
	out.Shifts = append(out.Shifts[:i], out.Shifts[i+1:]...)
	if len(out.Shifts) == 0 {
		out.Enabled = false
	}
	return out
}
