package schedule

import "horario/internal/model"

// DefaultVenueHours is the venue range of a freshly configured day.
var DefaultVenueHours = model.MustRange("12:00-23:30")

// DefaultWeek returns the plan used on first configuration: every day
// open for lunch and dinner.
func DefaultWeek() model.WeekPlan {
	var week model.WeekPlan
	for _, w := range model.AllWeekdays {
		venue := DefaultVenueHours
		day := model.DayPlan{Enabled: true, Venue: &venue}
		day.Shifts = []model.Shift{Lunch.Instantiate(newID())}
		day.Shifts = append(day.Shifts, Dinner.Instantiate(freshID(day)))
		week[w] = day
	}
	return week
}

// DefaultSchedule returns DefaultWeek with no special days.
func DefaultSchedule() model.Schedule {
	return model.Schedule{Week: DefaultWeek(), SpecialDays: []model.SpecialDay{}}
}
