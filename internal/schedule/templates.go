package schedule

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"horario/internal/model"
)

// ErrUnknownTemplate is returned when a built-in template name does not exist.
var ErrUnknownTemplate = errors.New("unknown shift template")

// Template is a built-in shift definition. Built-ins are fixed; a day holds
// independent instances of them.
type Template struct {
	Name  string
	Label string
	Range model.TimeRange
	Color string
}

// Built-in templates, in display order.
var (
	Breakfast = Template{Name: "Breakfast", Label: "☕", Range: model.MustRange("08:00-11:00"), Color: "#F6C453"}
	Lunch     = Template{Name: "Lunch", Label: "🍽️", Range: model.MustRange("13:00-16:00"), Color: "#4CAF50"}
	Dinner    = Template{Name: "Dinner", Label: "🌙", Range: model.MustRange("20:00-23:30"), Color: "#3F51B5"}

	BuiltinTemplates = []Template{Breakfast, Lunch, Dinner}

	// DefaultTemplate is inserted when a day is enabled without shifts.
	DefaultTemplate = Lunch
)

// newID generates shift and special day ids. Replaced in tests.
var newID = uuid.NewString

// LookupTemplate returns the built-in template with the given name.
func LookupTemplate(name string) (Template, error) {
	for _, t := range BuiltinTemplates {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

// Instantiate returns a new built-in Shift from t with the given id.
func (t Template) Instantiate(id string) model.Shift {
	return model.Shift{
		ID:    id,
		Name:  t.Name,
		Label: t.Label,
		Range: t.Range,
		Color: t.Color,
	}
}

// TemplatePatch changes the display attributes of a custom template.
// Nil fields are left unchanged.
type TemplatePatch struct {
	Name  *string
	Label *string
	Color *string
}

// DeleteOptions controls side effects of DeleteTemplate.
type DeleteOptions struct {
	// DisableEmptyDays turns off days whose last shift was removed.
	DisableEmptyDays bool
}

// DefaultDeleteOptions disables days left without shifts.
func DefaultDeleteOptions() DeleteOptions {
	return DeleteOptions{DisableEmptyDays: true}
}

// ListCustomTemplates returns one representative shift per distinct custom
// name, in week order. The first occurrence wins.
func ListCustomTemplates(week model.WeekPlan) []model.Shift {
	seen := make(map[string]bool)
	var out []model.Shift
	for _, w := range model.AllWeekdays {
		for _, s := range week.Day(w).Shifts {
			if !s.IsCustom || seen[s.Name] {
				continue
			}
			seen[s.Name] = true
			out = append(out, s)
		}
	}
	return out
}

// TemplateNameCollides reports whether renaming oldName to newName would
// merge it into a different custom template already in use.
func TemplateNameCollides(week model.WeekPlan, oldName, newName string) bool {
	if oldName == newName {
		return false
	}
	for _, s := range ListCustomTemplates(week) {
		if s.Name == newName {
			return true
		}
	}
	return false
}

// RenameOrRestyle applies patch to every custom shift named oldName across
// the week. Time ranges are never touched. Renaming onto a name already in
// use merges the two templates.
func RenameOrRestyle(week model.WeekPlan, oldName string, patch TemplatePatch) model.WeekPlan {
	out := week.Clone()
	for i := range out {
		for j := range out[i].Shifts {
			s := &out[i].Shifts[j]
			if !s.IsCustom || s.Name != oldName {
				continue
			}
			if patch.Name != nil {
				s.Name = *patch.Name
			}
			if patch.Label != nil {
				s.Label = *patch.Label
			}
			if patch.Color != nil {
				s.Color = *patch.Color
			}
		}
	}
	return out
}

// DeleteTemplate removes every custom shift named name from every day.
func DeleteTemplate(week model.WeekPlan, name string, opts DeleteOptions) model.WeekPlan {
	out := week.Clone()
	for i := range out {
		day := &out[i]
		kept := make([]model.Shift, 0, len(day.Shifts))
		removed := false
		for _, s := range day.Shifts {
			if s.IsCustom && s.Name == name {
				removed = true
				continue
			}
			kept = append(kept, s)
		}
		if !removed {
			continue
		}
		day.Shifts = kept
		if len(kept) == 0 && opts.DisableEmptyDays {
			day.Enabled = false
		}
	}
	return out
}
