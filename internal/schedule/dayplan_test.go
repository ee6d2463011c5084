package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horario/internal/model"
)

func TestToggleEnabled(t *testing.T) {
	sequentialIDs(t)

	on := ToggleEnabled(model.DayPlan{})
	assert.True(t, on.Enabled)
	require.Len(t, on.Shifts, 1)
	assert.Equal(t, DefaultTemplate.Name, on.Shifts[0].Name)

	off := ToggleEnabled(on)
	assert.False(t, off.Enabled)
	assert.Len(t, off.Shifts, 1)

	again := ToggleEnabled(off)
	assert.Len(t, again.Shifts, 1)
}

func TestAddShiftSortsAndAssignsFreshIDs(t *testing.T) {
	sequentialIDs(t)

	day := model.DayPlan{Enabled: true}
	day = AddShift(day, customShift("ignored", "Late", "23:00-01:00"))
	day, err := AddTemplateShift(day, "Dinner")
	require.NoError(t, err)
	day, err = AddTemplateShift(day, "Breakfast")
	require.NoError(t, err)

	assert.Equal(t, []string{"Breakfast", "Dinner", "Late"}, shiftNames(day.Shifts))
	assertUniqueIDs(t, day)
	assert.False(t, day.HasShiftID("ignored"))

	_, err = AddTemplateShift(day, "Tea")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestFreshIDSkipsCollisions(t *testing.T) {
	ids := []string{"a", "a", "a", "b"}
	orig := newID
	newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	t.Cleanup(func() { newID = orig })

	day := model.DayPlan{Shifts: []model.Shift{shift("a", "Lunch", "13:00-16:00")}}
	day = AddShift(day, shift("", "Dinner", "20:00-23:00"))
	assertUniqueIDs(t, day)
	assert.True(t, day.HasShiftID("b"))
}

func TestUpdateShift(t *testing.T) {
	day := model.DayPlan{Enabled: true, Shifts: []model.Shift{
		shift("l", "Lunch", "13:00-16:00"),
		shift("d", "Dinner", "20:00-23:30"),
	}}

	start := model.MustTime("11:00")
	name := "Early"
	got := UpdateShift(day, "d", ShiftPatch{Start: &start, Name: &name})
	assert.Equal(t, []string{"Early", "Lunch"}, shiftNames(got.Shifts))
	assert.Equal(t, model.MustRange("11:00-23:30"), got.Shifts[0].Range)
	assert.Equal(t, "Dinner", day.Shifts[1].Name)

	end := model.MustTime("15:00")
	got = UpdateShift(day, "l", ShiftPatch{End: &end})
	assert.Equal(t, model.MustRange("13:00-15:00"), got.Shifts[0].Range)

	assert.Equal(t, day, UpdateShift(day, "missing", ShiftPatch{Name: &name}))
}

func TestSwapBuiltin(t *testing.T) {
	day := model.DayPlan{Enabled: true, Shifts: []model.Shift{
		Lunch.Instantiate("l"),
		customShift("c", "Tapas", "18:00-19:00"),
	}}

	got, err := SwapBuiltin(day, "l", "Dinner")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tapas", "Dinner"}, shiftNames(got.Shifts))
	assert.True(t, got.HasShiftID("l"))

	got, err = SwapBuiltin(day, "c", "Dinner")
	require.NoError(t, err)
	assert.Equal(t, day, got)

	_, err = SwapBuiltin(day, "l", "Tea")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRemoveShift(t *testing.T) {
	day := model.DayPlan{Enabled: true, Shifts: []model.Shift{
		shift("l", "Lunch", "13:00-16:00"),
		shift("d", "Dinner", "20:00-23:30"),
	}}

	got := RemoveShift(day, "l")
	assert.True(t, got.Enabled)
	assert.Equal(t, []string{"Dinner"}, shiftNames(got.Shifts))
	assert.Len(t, day.Shifts, 2)

	got = RemoveShift(got, "d")
	assert.False(t, got.Enabled)
	assert.Empty(t, got.Shifts)
}

func TestShiftIDsStayUniqueAcrossEdits(t *testing.T) {
	day := model.DayPlan{}
	day = ToggleEnabled(day)
	for i := 0; i < 10; i++ {
		day = AddShift(day, customShift("", "Extra", "17:00-18:00"))
		day, _ = AddTemplateShift(day, "Breakfast")
		if i%3 == 0 {
			day = RemoveShift(day, day.Shifts[0].ID)
		}
	}
	assertUniqueIDs(t, day)
}
