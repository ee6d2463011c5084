package schedule

import (
	"fmt"
	"strings"

	"horario/internal/model"
)

// Summarize renders week as a short English description for operators.
// It is a display helper and accepts any WeekPlan, including a fully
// closed one.
func Summarize(week model.WeekPlan) string {
	var open, closed []string
	for _, w := range model.AllWeekdays {
		if week[w].Enabled {
			open = append(open, w.Title())
		} else {
			closed = append(closed, w.Title())
		}
	}

	switch {
	case len(open) == 0:
		return "Closed every day."
	case len(closed) == 0:
		if sameShiftTimes(week) && len(week[model.Monday].Shifts) > 0 {
			return "Open every day: " + describeShifts(week[model.Monday].Shifts) + "."
		}
		return "Open every day."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Open %s.", joinNames(open))
	if len(closed) <= 2 {
		fmt.Fprintf(&b, " Closed %s.", joinNames(closed))
	}
	return b.String()
}

// sameShiftTimes reports whether every day has the same sequence of ranges.
func sameShiftTimes(week model.WeekPlan) bool {
	first := sortedRanges(week[0].Shifts)
	for _, day := range week[1:] {
		other := sortedRanges(day.Shifts)
		if len(other) != len(first) {
			return false
		}
		for i := range first {
			if first[i] != other[i] {
				return false
			}
		}
	}
	return true
}

func sortedRanges(shifts []model.Shift) []model.TimeRange {
	sorted := append([]model.Shift(nil), shifts...)
	model.SortShifts(sorted)
	out := make([]model.TimeRange, len(sorted))
	for i, s := range sorted {
		out[i] = s.Range
	}
	return out
}

func describeShifts(shifts []model.Shift) string {
	sorted := append([]model.Shift(nil), shifts...)
	model.SortShifts(sorted)
	parts := make([]string, len(sorted))
	for i, s := range sorted {
		parts[i] = fmt.Sprintf("%s %s", s.Name, s.Range)
	}
	return strings.Join(parts, ", ")
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
