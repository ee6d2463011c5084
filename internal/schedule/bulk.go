package schedule

import "horario/internal/model"

// ApplyDayToAll overwrites every weekday with the source day's enabled flag,
// venue hours and a deep copy of its shifts under fresh ids. The overwrite
// is destructive and includes disabled days; callers must confirm first.
// The source day keeps its own shift ids.
func ApplyDayToAll(week model.WeekPlan, source model.Weekday) model.WeekPlan {
	src := week.Day(source)
	out := week.Clone()
	for _, w := range model.AllWeekdays {
		if w == source {
			continue
		}
		day := src.Clone()
		used := model.DayPlan{}
		for i := range day.Shifts {
			day.Shifts[i].ID = freshID(used)
			used.Shifts = append(used.Shifts, day.Shifts[i])
		}
		out[w] = day
	}
	return out
}

// ApplyVenueHoursToAllOpenDays rewrites the venue hours of enabled days only.
// Shifts are left untouched.
func ApplyVenueHoursToAllOpenDays(week model.WeekPlan, openTime, closeTime model.TimeOfDay) model.WeekPlan {
	out := week.Clone()
	for i := range out {
		if !out[i].Enabled {
			continue
		}
		venue := model.NewTimeRange(openTime, closeTime)
		out[i].Venue = &venue
	}
	return out
}
