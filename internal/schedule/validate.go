package schedule

import (
	"errors"
	"fmt"

	"horario/internal/model"
)

// ValidateSchedule checks the structural invariants of s: unique shift ids
// per day, at most one special day per date, known exception types, and a
// window on every exception that filters by one.
func ValidateSchedule(s model.Schedule) error {
	var errs []error

	for _, w := range model.AllWeekdays {
		errs = append(errs, validateShifts(fmt.Sprintf("week[%s]", w), s.Week[w].Shifts)...)
	}

	dates := make(map[model.Date]int, len(s.SpecialDays))
	ids := make(map[string]int, len(s.SpecialDays))
	for i, sd := range s.SpecialDays {
		prefix := fmt.Sprintf("special_days[%d]", i)
		if sd.ID == "" {
			errs = append(errs, fmt.Errorf("%s: id is required", prefix))
		} else if j, ok := ids[sd.ID]; ok {
			errs = append(errs, fmt.Errorf("%s: id %q already used by special_days[%d]", prefix, sd.ID, j))
		} else {
			ids[sd.ID] = i
		}

		if sd.Date.IsZero() {
			errs = append(errs, fmt.Errorf("%s: date is required", prefix))
		} else if j, ok := dates[sd.Date]; ok {
			errs = append(errs, fmt.Errorf("%s: date %s already used by special_days[%d]", prefix, sd.Date, j))
		} else {
			dates[sd.Date] = i
		}

		if !sd.Type.Valid() {
			errs = append(errs, fmt.Errorf("%s: unknown type %q", prefix, sd.Type))
		}
		switch {
		case sd.Type == model.SpecialEvent && sd.Hours == nil:
			errs = append(errs, fmt.Errorf("%s: event requires hours", prefix))
		case sd.Type == model.SpecialHours && sd.Hours == nil && len(sd.OverrideShifts) == 0:
			errs = append(errs, fmt.Errorf("%s: special_hours requires hours or shifts", prefix))
		}
		errs = append(errs, validateShifts(prefix+".shifts", sd.OverrideShifts)...)
	}

	return errors.Join(errs...)
}

func validateShifts(prefix string, shifts []model.Shift) []error {
	var errs []error
	seen := make(map[string]int, len(shifts))
	for i, s := range shifts {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: id is required", prefix, i))
			continue
		}
		if j, ok := seen[s.ID]; ok {
			errs = append(errs, fmt.Errorf("%s[%d]: duplicate id %q (also at %d)", prefix, i, s.ID, j))
			continue
		}
		seen[s.ID] = i
	}
	return errs
}
