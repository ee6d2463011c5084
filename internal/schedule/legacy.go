package schedule

import (
	"fmt"
	"strings"

	"horario/internal/model"
)

// LegacyClosed is the legacy marker for a closed weekday.
const LegacyClosed = "Cerrado"

// UpgradeLegacyDay converts the legacy weekly-hours string, either
// "Cerrado" or a comma-separated list of "HH:MM-HH:MM" ranges, into a
// structured DayPlan. Ranges are classified by start hour into the
// built-in templates; anything else becomes a numbered generic shift.
func UpgradeLegacyDay(value string) (model.DayPlan, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, LegacyClosed) {
		return model.DayPlan{Enabled: false, Shifts: []model.Shift{}}, nil
	}

	parts := strings.Split(value, ",")
	day := model.DayPlan{Enabled: true, Shifts: make([]model.Shift, 0, len(parts))}
	for i, part := range parts {
		r, err := model.ParseTimeRange(strings.TrimSpace(part))
		if err != nil {
			return model.DayPlan{}, fmt.Errorf("range %d: %w", i+1, err)
		}
		s := classifyLegacyRange(r, i+1)
		s.ID = freshID(day)
		day.Shifts = append(day.Shifts, s)
	}
	model.SortShifts(day.Shifts)

	venue := legacyVenue(day.Shifts)
	day.Venue = &venue
	return day, nil
}

// legacyVenue spans the shifts on the day axis, so late-night ranges count
// as the end of the service day rather than its start.
func legacyVenue(shifts []model.Shift) model.TimeRange {
	first, last := 0, 0
	startOf := func(i int) int { return model.LinearMinutes(shifts[i].Range.Start, model.AxisStartHour) }
	endOf := func(i int) int { return startOf(i) + shifts[i].Range.Duration() }
	for i := range shifts {
		if startOf(i) < startOf(first) {
			first = i
		}
		if endOf(i) > endOf(last) {
			last = i
		}
	}
	return model.NewTimeRange(shifts[first].Range.Start, shifts[last].Range.End)
}

func classifyLegacyRange(r model.TimeRange, n int) model.Shift {
	var tpl Template
	switch h := r.Start.Hour; {
	case h >= 7 && h <= 11:
		tpl = Breakfast
	case h >= 12 && h <= 16:
		tpl = Lunch
	case h >= 19 || h < 7:
		tpl = Dinner
	default:
		return model.Shift{Name: fmt.Sprintf("Shift %d", n), Label: "🕒", Range: r}
	}
	s := tpl.Instantiate("")
	s.Range = r
	return s
}
