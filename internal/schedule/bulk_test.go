package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horario/internal/model"
)

// withoutIDs blanks shift ids so plans can be compared semantically.
func withoutIDs(week model.WeekPlan) model.WeekPlan {
	out := week.Clone()
	for i := range out {
		for j := range out[i].Shifts {
			out[i].Shifts[j].ID = ""
		}
	}
	return out
}

func TestApplyDayToAll(t *testing.T) {
	sequentialIDs(t)

	week := lunchDinnerWeek()
	venue := model.MustRange("12:00-00:00")
	week[model.Monday].Venue = &venue
	week[model.Monday].Shifts = append(week[model.Monday].Shifts, customShift("c", "Tapas", "18:00-19:00"))

	got := ApplyDayToAll(week, model.Monday)

	for _, w := range model.AllWeekdays {
		day := got[w]
		assert.True(t, day.Enabled, w.String())
		require.NotNil(t, day.Venue)
		assert.Equal(t, venue, *day.Venue)
		assert.Equal(t, []string{"Lunch", "Dinner", "Tapas"}, shiftNames(day.Shifts))
		assertUniqueIDs(t, day)
		if w != model.Monday {
			assert.NotEqual(t, "l", day.Shifts[0].ID)
		}
	}

	got[model.Tuesday].Venue.Start = model.MustTime("09:00")
	assert.Equal(t, venue, *got[model.Monday].Venue)
	assert.False(t, week[model.Sunday].Enabled)
}

func TestApplyDayToAllIsIdempotent(t *testing.T) {
	week := lunchDinnerWeek()
	week[model.Wednesday] = model.DayPlan{}

	once := ApplyDayToAll(week, model.Monday)
	twice := ApplyDayToAll(once, model.Monday)
	assert.Equal(t, withoutIDs(once), withoutIDs(twice))
}

func TestApplyVenueHoursToAllOpenDays(t *testing.T) {
	week := lunchDinnerWeek()
	got := ApplyVenueHoursToAllOpenDays(week, model.MustTime("12:00"), model.MustTime("01:00"))

	for _, w := range model.AllWeekdays {
		if w == model.Sunday {
			assert.Nil(t, got[w].Venue)
			continue
		}
		require.NotNil(t, got[w].Venue)
		assert.Equal(t, model.MustRange("12:00-01:00"), *got[w].Venue)
		assert.Equal(t, week[w].Shifts, got[w].Shifts)
	}
	assert.Nil(t, week[model.Monday].Venue)
}
