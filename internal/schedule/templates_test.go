package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horario/internal/model"
)

func brunchWeek() model.WeekPlan {
	week := lunchDinnerWeek()
	week[model.Saturday].Shifts = append(week[model.Saturday].Shifts, customShift("b1", "Brunch", "10:00-12:30"))
	week[model.Sunday] = model.DayPlan{Enabled: true, Shifts: []model.Shift{customShift("b2", "Brunch", "11:00-14:00")}}
	week[model.Friday].Shifts = append(week[model.Friday].Shifts, customShift("v", "Vermut", "12:00-13:00"))
	return week
}

func TestListCustomTemplates(t *testing.T) {
	got := ListCustomTemplates(brunchWeek())
	require.Len(t, got, 2)
	assert.Equal(t, "Vermut", got[0].Name)
	assert.Equal(t, "Brunch", got[1].Name)
	assert.Equal(t, "b1", got[1].ID)

	assert.Empty(t, ListCustomTemplates(lunchDinnerWeek()))
}

func TestRenameOrRestyle(t *testing.T) {
	week := brunchWeek()
	name, color := "Aperitivo", "#FF0000"

	got := RenameOrRestyle(week, "Brunch", TemplatePatch{Name: &name, Color: &color})

	sat := got[model.Saturday].Shifts[2]
	assert.Equal(t, "Aperitivo", sat.Name)
	assert.Equal(t, "#FF0000", sat.Color)
	assert.Equal(t, model.MustRange("10:00-12:30"), sat.Range)

	sun := got[model.Sunday].Shifts[0]
	assert.Equal(t, "Aperitivo", sun.Name)
	assert.Equal(t, model.MustRange("11:00-14:00"), sun.Range)

	assert.Equal(t, "Vermut", got[model.Friday].Shifts[2].Name)
	assert.Equal(t, "Lunch", got[model.Saturday].Shifts[0].Name)
	assert.Equal(t, "Brunch", week[model.Saturday].Shifts[2].Name)
}

func TestRenameLeavesBuiltinsAlone(t *testing.T) {
	name := "Almuerzo"
	got := RenameOrRestyle(lunchDinnerWeek(), "Lunch", TemplatePatch{Name: &name})
	for _, w := range model.AllWeekdays {
		assert.Equal(t, "Lunch", got[w].Shifts[0].Name)
	}
}

func TestRenameOntoExistingNameMerges(t *testing.T) {
	week := brunchWeek()
	assert.True(t, TemplateNameCollides(week, "Brunch", "Vermut"))
	assert.False(t, TemplateNameCollides(week, "Brunch", "Brunch"))
	assert.False(t, TemplateNameCollides(week, "Brunch", "Tapas"))

	name := "Vermut"
	got := RenameOrRestyle(week, "Brunch", TemplatePatch{Name: &name})
	require.Len(t, ListCustomTemplates(got), 1)
}

func TestDeleteTemplate(t *testing.T) {
	week := brunchWeek()

	got := DeleteTemplate(week, "Brunch", DefaultDeleteOptions())
	assert.Len(t, got[model.Saturday].Shifts, 2)
	assert.True(t, got[model.Saturday].Enabled)
	assert.Empty(t, got[model.Sunday].Shifts)
	assert.False(t, got[model.Sunday].Enabled)
	assert.Len(t, week[model.Sunday].Shifts, 1)

	kept := DeleteTemplate(week, "Brunch", DeleteOptions{})
	assert.Empty(t, kept[model.Sunday].Shifts)
	assert.True(t, kept[model.Sunday].Enabled)
}

func TestDeleteTemplateKeepsUntouchedDays(t *testing.T) {
	week := lunchDinnerWeek()
	week[model.Sunday] = model.DayPlan{Enabled: true}

	got := DeleteTemplate(week, "Brunch", DefaultDeleteOptions())
	assert.True(t, got[model.Sunday].Enabled)
}

func TestLookupTemplate(t *testing.T) {
	tpl, err := LookupTemplate("Dinner")
	require.NoError(t, err)
	assert.Equal(t, model.MustRange("20:00-23:30"), tpl.Range)

	_, err = LookupTemplate("Supper")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}
