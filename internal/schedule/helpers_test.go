package schedule

import (
	"fmt"
	"testing"

	"horario/internal/model"
)

// sequentialIDs makes generated ids predictable for the duration of t.
func sequentialIDs(t *testing.T) {
	t.Helper()
	n := 0
	orig := newID
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = orig })
}

func shift(id, name, rng string) model.Shift {
	return model.Shift{ID: id, Name: name, Range: model.MustRange(rng)}
}

func customShift(id, name, rng string) model.Shift {
	s := shift(id, name, rng)
	s.IsCustom = true
	return s
}

// lunchDinnerWeek is open Monday to Saturday with Lunch and Dinner; Sunday
// is closed.
func lunchDinnerWeek() model.WeekPlan {
	var week model.WeekPlan
	for _, w := range model.AllWeekdays {
		week[w] = model.DayPlan{
			Enabled: w != model.Sunday,
			Shifts: []model.Shift{
				shift("l", "Lunch", "13:00-16:00"),
				shift("d", "Dinner", "20:00-23:30"),
			},
		}
	}
	return week
}

func shiftNames(shifts []model.Shift) []string {
	out := make([]string, len(shifts))
	for i, s := range shifts {
		out[i] = s.Name
	}
	return out
}

func hours(s string) *model.TimeRange {
	r := model.MustRange(s)
	return &r
}

func assertUniqueIDs(t *testing.T, day model.DayPlan) {
	t.Helper()
	seen := make(map[string]bool)
	for _, s := range day.Shifts {
		if seen[s.ID] {
			t.Fatalf("duplicate shift id %q", s.ID)
		}
		seen[s.ID] = true
	}
}
