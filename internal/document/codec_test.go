package document

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horario/internal/model"
	"horario/internal/schedule"
)

const sampleDocument = `{
  "openingHours": {
    "monday": {
      "enabled": true, "openTime": "12:00", "closeTime": "23:30",
      "shifts": [
        {"id": "l", "name": "Lunch", "emoji": "🍽️", "startTime": "13:00", "endTime": "16:00", "color": "#4CAF50", "isCustom": false},
        {"id": "b", "name": "Brunch", "emoji": "🥂", "startTime": "10:00", "endTime": "12:30", "isCustom": true}
      ]
    },
    "tuesday": "Cerrado",
    "wednesday": "13:00-16:00, 20:00-23:30",
    "thursday": "Cerrado",
    "friday": {"enabled": false, "shifts": []},
    "saturday": "Cerrado",
    "sunday": {"enabled": false, "shifts": []}
  },
  "specialDays": [
    {"id": "x", "date": "2026-12-25", "name": "Christmas", "type": "closed"},
    {"id": "y", "date": "2026-12-31", "name": "NYE", "type": "event", "hours": "20:00-02:00"},
    {"id": "z", "date": "2026-12-24", "name": "Eve", "type": "special_hours", "hours": "10:00-16:00",
     "shifts": [{"id": "s1", "name": "Brunch", "emoji": "🥂", "startTime": "10:00", "endTime": "14:00", "isCustom": true}]}
  ]
}`

func TestDecode(t *testing.T) {
	s, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)

	mon := s.Week[model.Monday]
	assert.True(t, mon.Enabled)
	require.NotNil(t, mon.Venue)
	assert.Equal(t, "12:00-23:30", mon.Venue.String())
	require.Len(t, mon.Shifts, 2)
	assert.Equal(t, "🍽️", mon.Shifts[0].Label)
	assert.Equal(t, "#4CAF50", mon.Shifts[0].Color)
	assert.True(t, mon.Shifts[1].IsCustom)

	assert.False(t, s.Week[model.Tuesday].Enabled)

	wed := s.Week[model.Wednesday]
	assert.True(t, wed.Enabled)
	require.Len(t, wed.Shifts, 2)
	assert.Equal(t, "Lunch", wed.Shifts[0].Name)
	assert.Equal(t, "Dinner", wed.Shifts[1].Name)

	assert.False(t, s.Week[model.Thursday].Enabled)
	assert.NotNil(t, s.Week[model.Thursday].Shifts)

	require.Len(t, s.SpecialDays, 3)
	nye := s.SpecialDays[1]
	assert.Equal(t, model.SpecialEvent, nye.Type)
	require.NotNil(t, nye.Hours)
	assert.True(t, nye.Hours.CrossesMidnight())
	assert.Len(t, s.SpecialDays[2].OverrideShifts, 1)
}

// weekDoc builds a complete document whose monday is the given JSON value
// and whose other days are closed.
func weekDoc(monday, specialDays string) string {
	var b strings.Builder
	b.WriteString(`{"openingHours": {"monday": ` + monday)
	for _, w := range model.AllWeekdays[1:] {
		b.WriteString(`, "` + w.String() + `": "Cerrado"`)
	}
	b.WriteString(`}, "specialDays": [` + specialDays + `]}`)
	return b.String()
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"null", "null"},
		{"not json", "{opening"},
		{"array", "[]"},
		{"unknown weekday", strings.Replace(weekDoc(`"Cerrado"`, ""), `"monday"`, `"funday": "Cerrado", "monday"`, 1)},
		{"missing weekday", `{"openingHours": {"monday": "Cerrado"}}`},
		{"no opening hours", `{"specialDays": []}`},
		{"bad legacy", weekDoc(`"all day"`, "")},
		{"bad shift time", weekDoc(`{"enabled": true, "shifts": [{"id": "a", "name": "A", "startTime": "25:00", "endTime": "26:00"}]}`, "")},
		{"missing shift id", weekDoc(`{"enabled": true, "shifts": [{"name": "A", "startTime": "10:00", "endTime": "11:00"}]}`, "")},
		{"empty shift name", weekDoc(`{"enabled": true, "shifts": [{"id": "a", "name": "", "startTime": "10:00", "endTime": "11:00"}]}`, "")},
		{"bad color", weekDoc(`{"enabled": true, "shifts": [{"id": "a", "name": "A", "startTime": "10:00", "endTime": "11:00", "color": "green"}]}`, "")},
		{"half venue", weekDoc(`{"enabled": true, "openTime": "10:00", "shifts": []}`, "")},
		{"duplicate shift ids", weekDoc(`{"enabled": true, "shifts": [
			{"id": "a", "name": "A", "startTime": "10:00", "endTime": "11:00"},
			{"id": "a", "name": "B", "startTime": "12:00", "endTime": "13:00"}]}`, "")},
		{"bad special type", weekDoc(`"Cerrado"`, `{"id": "x", "date": "2026-12-25", "type": "holiday"}`)},
		{"bad special date", weekDoc(`"Cerrado"`, `{"id": "x", "date": "25/12/2026", "type": "closed"}`)},
		{"bad special hours", weekDoc(`"Cerrado"`, `{"id": "x", "date": "2026-12-25", "type": "event", "hours": "evening"}`)},
		{"event without hours", weekDoc(`"Cerrado"`, `{"id": "x", "date": "2026-12-25", "type": "event"}`)},
		{"duplicate special date", weekDoc(`"Cerrado"`, `
			{"id": "x", "date": "2026-12-25", "type": "closed"},
			{"id": "y", "date": "2026-12-25", "type": "closed"}`)},
		{"duplicate special id", weekDoc(`"Cerrado"`, `
			{"id": "x", "date": "2026-12-25", "type": "closed"},
			{"id": "x", "date": "2026-12-26", "type": "closed"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestDecodeCompleteWeek(t *testing.T) {
	s, err := Decode([]byte(weekDoc(`"13:00-16:00"`, `{"id": "x", "date": "2026-12-25", "type": "closed"}`)))
	require.NoError(t, err)
	assert.True(t, s.Week[model.Monday].Enabled)
	assert.False(t, s.Week[model.Sunday].Enabled)
	assert.Len(t, s.SpecialDays, 1)
}

func TestCheckSchedule(t *testing.T) {
	assert.NoError(t, CheckSchedule(schedule.DefaultSchedule()))
	assert.NoError(t, CheckSchedule(model.Schedule{}))

	unnamed := schedule.DefaultSchedule()
	unnamed.Week[model.Monday].Shifts[0].Name = ""
	assert.ErrorContains(t, CheckSchedule(unnamed), "openingHours.monday")

	noHours := schedule.DefaultSchedule()
	noHours.SpecialDays = []model.SpecialDay{{ID: "x", Date: model.MustDate("2026-12-31"), Type: model.SpecialEvent}}
	assert.ErrorContains(t, CheckSchedule(noHours), "event requires hours")

	noDate := schedule.DefaultSchedule()
	noDate.SpecialDays = []model.SpecialDay{{ID: "x", Type: model.SpecialClosed}}
	assert.ErrorContains(t, CheckSchedule(noDate), "specialDays[0]")
}

func TestEncodeDecodeKeepsSchedule(t *testing.T) {
	original, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)

	data, err := Encode(original)
	require.NoError(t, err)
	assert.False(t, HasLegacyDays(data))

	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original, again)
}

func TestEncodeWritesEveryWeekday(t *testing.T) {
	data, err := Encode(model.Schedule{})
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	var days map[string]any
	require.NoError(t, json.Unmarshal(doc["openingHours"], &days))
	assert.Len(t, days, 7)
	assert.Contains(t, string(data), `"specialDays":[]`)
	assert.Contains(t, string(data), `"shifts":[]`)
}

func TestUpgrade(t *testing.T) {
	legacy := weekDoc(`"08:00-11:00,13:00-16:00"`, "")
	assert.True(t, HasLegacyDays([]byte(legacy)))

	out, err := Upgrade([]byte(legacy))
	require.NoError(t, err)
	assert.False(t, HasLegacyDays(out))
	assert.True(t, strings.Contains(string(out), `"name": "Breakfast"`))

	s, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "Open Monday.", schedule.Summarize(s.Week))

	_, err = Upgrade([]byte("garbage"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFromEffectiveDay(t *testing.T) {
	s, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)

	doc := FromEffectiveDay(schedule.ResolveSchedule(s, model.MustDate("2026-12-25")))
	assert.Equal(t, "2026-12-25", doc.Date)
	assert.Equal(t, "friday", doc.Weekday)
	assert.False(t, doc.IsOpen)
	assert.NotNil(t, doc.Shifts)
	require.NotNil(t, doc.Reason)
	assert.Equal(t, "Christmas", doc.Reason.Name)
}
