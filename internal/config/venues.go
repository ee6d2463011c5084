package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"horario/internal/model"
	"horario/internal/schedule"
)

// ShiftConfig is either a built-in template reference or a custom shift.
type ShiftConfig struct {
	Template string `yaml:"template,omitempty"` // "Breakfast", "Lunch", "Dinner"
	Name     string `yaml:"name,omitempty"`
	Emoji    string `yaml:"emoji,omitempty"`
	Start    string `yaml:"start,omitempty"` // "10:00"
	End      string `yaml:"end,omitempty"`   // "12:30"
	Color    string `yaml:"color,omitempty"`
}

// DayConfig is one weekday of a seeded week. A plain string value is the
// legacy form: "Cerrado" or comma-separated "HH:MM-HH:MM" ranges.
type DayConfig struct {
	Enabled bool          `yaml:"enabled"`
	Open    string        `yaml:"open,omitempty"`
	Close   string        `yaml:"close,omitempty"`
	Shifts  []ShiftConfig `yaml:"shifts"`

	Legacy string `yaml:"-"`
}

// UnmarshalYAML accepts both the structured and the legacy string form.
func (d *DayConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*d = DayConfig{Legacy: value.Value}
		return nil
	}
	type plain DayConfig
	return value.Decode((*plain)(d))
}

// WeekConfig maps lowercase weekday names to day plans. Missing days are closed.
type WeekConfig map[string]DayConfig

// HolidayConfig is a closure or exception applied when seeding, either on a
// fixed date or on every date matched by an RRULE.
type HolidayConfig struct {
	Date  string `yaml:"date,omitempty"`  // "2026-01-01"
	RRule string `yaml:"rrule,omitempty"` // "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
	Name  string `yaml:"name"`
	Type  string `yaml:"type,omitempty"`  // closed (default), special_hours, event
	Hours string `yaml:"hours,omitempty"` // "18:00-23:00"
}

// RestaurantConfig seeds a restaurant's schedule on first configuration.
type RestaurantConfig struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Week     WeekConfig      `yaml:"week,omitempty"`
	Holidays []HolidayConfig `yaml:"holidays,omitempty"`
}

// VenuesConfig is the root configuration for venues.yaml.
type VenuesConfig struct {
	Restaurants []RestaurantConfig `yaml:"restaurants"`
	Defaults    struct {
		Week WeekConfig `yaml:"week,omitempty"`
	} `yaml:"defaults"`
	Holidays []HolidayConfig `yaml:"holidays"`
}

// LoadVenuesConfig loads and validates venues configuration from a YAML file.
func LoadVenuesConfig(path string) (*VenuesConfig, error) {
	if path == "" {
		path = "configs/venues.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read venues config: %w", err)
	}

	var cfg VenuesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse venues config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate venues config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *VenuesConfig) Validate() error {
	ids := make(map[string]bool)
	for i, r := range c.Restaurants {
		if r.ID == "" {
			return fmt.Errorf("restaurant[%d]: id is required", i)
		}
		if ids[r.ID] {
			return fmt.Errorf("restaurant[%d]: duplicate id '%s'", i, r.ID)
		}
		ids[r.ID] = true

		if err := r.Week.validate(fmt.Sprintf("restaurant[%d].week", i)); err != nil {
			return err
		}
		for j, h := range r.Holidays {
			if err := h.validate(fmt.Sprintf("restaurant[%d].holidays[%d]", i, j)); err != nil {
				return err
			}
		}
	}

	if err := c.Defaults.Week.validate("defaults.week"); err != nil {
		return err
	}
	for i, h := range c.Holidays {
		if err := h.validate(fmt.Sprintf("holiday[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (w WeekConfig) validate(prefix string) error {
	for key, day := range w {
		if _, err := model.ParseWeekday(key); err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
		if _, err := day.toDayPlan(); err != nil {
			return fmt.Errorf("%s.%s: %w", prefix, key, err)
		}
	}
	return nil
}

func (h HolidayConfig) validate(prefix string) error {
	switch {
	case h.Date == "" && h.RRule == "":
		return fmt.Errorf("%s: date or rrule is required", prefix)
	case h.Date != "" && h.RRule != "":
		return fmt.Errorf("%s: date and rrule are mutually exclusive", prefix)
	}
	if h.Date != "" {
		if _, err := model.ParseDate(h.Date); err != nil {
			return fmt.Errorf("%s: invalid date format '%s', expected YYYY-MM-DD", prefix, h.Date)
		}
	}
	if h.RRule != "" {
		if _, err := parseRRule(h.RRule); err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
	}
	if _, err := h.template(); err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return nil
}

func parseRRule(s string) (*rrule.RRule, error) {
	raw := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "RRULE:")
	r, err := rrule.StrToRRule(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", s, err)
	}
	return r, nil
}

// template builds the special day without id or date.
func (h HolidayConfig) template() (model.SpecialDay, error) {
	typ := model.SpecialClosed
	if h.Type != "" {
		t, err := model.ParseSpecialDayType(h.Type)
		if err != nil {
			return model.SpecialDay{}, err
		}
		typ = t
	}
	sd := model.SpecialDay{Name: h.Name, Type: typ}
	if h.Hours != "" {
		r, err := model.ParseTimeRange(h.Hours)
		if err != nil {
			return model.SpecialDay{}, fmt.Errorf("hours: %w", err)
		}
		sd.Hours = &r
	}
	if typ != model.SpecialClosed && sd.Hours == nil {
		return model.SpecialDay{}, fmt.Errorf("%s requires hours", typ)
	}
	return sd, nil
}

// Dates returns the holiday's dates within from..to inclusive.
func (h HolidayConfig) Dates(from, to model.Date) ([]model.Date, error) {
	if h.Date != "" {
		d, err := model.ParseDate(h.Date)
		if err != nil {
			return nil, err
		}
		if d.Before(from) || d.After(to) {
			return nil, nil
		}
		return []model.Date{d}, nil
	}

	r, err := parseRRule(h.RRule)
	if err != nil {
		return nil, err
	}
	// Unbounded rules start at the window so Between covers it.
	opts := r.OrigOptions
	if opts.Dtstart.IsZero() {
		opts.Dtstart = from.Time()
	}
	r, err = rrule.NewRRule(opts)
	if err != nil {
		return nil, err
	}

	occurrences := r.Between(from.Time(), to.Time(), true)
	dates := make([]model.Date, 0, len(occurrences))
	for _, t := range occurrences {
		dates = append(dates, model.DateOf(t))
	}
	return dates, nil
}

// SpecialDays expands the holiday into special days within from..to.
// Ids are derived from the date so re-seeding is stable.
func (h HolidayConfig) SpecialDays(from, to model.Date) ([]model.SpecialDay, error) {
	tpl, err := h.template()
	if err != nil {
		return nil, err
	}
	dates, err := h.Dates(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]model.SpecialDay, 0, len(dates))
	for _, d := range dates {
		sd := tpl.Clone()
		sd.ID = "holiday-" + d.String()
		sd.Date = d
		out = append(out, sd)
	}
	return out, nil
}

func (d DayConfig) toDayPlan() (model.DayPlan, error) {
	if d.Legacy != "" {
		return schedule.UpgradeLegacyDay(d.Legacy)
	}
	day := model.DayPlan{Enabled: d.Enabled, Shifts: []model.Shift{}}
	if (d.Open == "") != (d.Close == "") {
		return model.DayPlan{}, fmt.Errorf("open and close must be set together")
	}
	if d.Open != "" {
		venue, err := model.ParseTimeRange(d.Open + "-" + d.Close)
		if err != nil {
			return model.DayPlan{}, err
		}
		day.Venue = &venue
	}

	for i, sc := range d.Shifts {
		if sc.Template != "" {
			var err error
			if day, err = schedule.AddTemplateShift(day, sc.Template); err != nil {
				return model.DayPlan{}, fmt.Errorf("shifts[%d]: %w", i, err)
			}
			continue
		}
		if sc.Name == "" {
			return model.DayPlan{}, fmt.Errorf("shifts[%d]: template or name is required", i)
		}
		r, err := model.ParseTimeRange(sc.Start + "-" + sc.End)
		if err != nil {
			return model.DayPlan{}, fmt.Errorf("shifts[%d]: %w", i, err)
		}
		day = schedule.AddShift(day, model.Shift{
			Name:     sc.Name,
			Label:    sc.Emoji,
			Range:    r,
			Color:    sc.Color,
			IsCustom: true,
		})
	}
	return day, nil
}

// ToWeekPlan converts the week. Missing weekdays are closed.
func (w WeekConfig) ToWeekPlan() (model.WeekPlan, error) {
	var week model.WeekPlan
	for i := range week {
		week[i] = model.DayPlan{Shifts: []model.Shift{}}
	}
	for key, dc := range w {
		wd, err := model.ParseWeekday(key)
		if err != nil {
			return model.WeekPlan{}, err
		}
		day, err := dc.toDayPlan()
		if err != nil {
			return model.WeekPlan{}, fmt.Errorf("%s: %w", key, err)
		}
		week[wd] = day
	}
	return week, nil
}

// GetRestaurant returns the restaurant config by id.
func (c *VenuesConfig) GetRestaurant(id string) *RestaurantConfig {
	for i := range c.Restaurants {
		if c.Restaurants[i].ID == id {
			return &c.Restaurants[i]
		}
	}
	return nil
}

// Seed builds the initial schedule for restaurantID: its own week, else the
// default week, else schedule.DefaultWeek. Holidays falling within from..to
// become special days; restaurant holidays take precedence over global
// ones on the same date.
func (c *VenuesConfig) Seed(restaurantID string, from, to model.Date) (model.Schedule, error) {
	s := model.Schedule{Week: schedule.DefaultWeek(), SpecialDays: []model.SpecialDay{}}

	var holidays []HolidayConfig
	week := c.Defaults.Week
	if r := c.GetRestaurant(restaurantID); r != nil {
		if len(r.Week) > 0 {
			week = r.Week
		}
		holidays = append(holidays, r.Holidays...)
	}
	holidays = append(holidays, c.Holidays...)

	if len(week) > 0 {
		w, err := week.ToWeekPlan()
		if err != nil {
			return model.Schedule{}, err
		}
		s.Week = w
	}

	for i, h := range holidays {
		days, err := h.SpecialDays(from, to)
		if err != nil {
			return model.Schedule{}, fmt.Errorf("holiday[%d]: %w", i, err)
		}
		for _, sd := range days {
			if s.SpecialDays, err = schedule.AddSpecialDay(s.SpecialDays, sd, schedule.ResolutionAbort); err != nil {
				return model.Schedule{}, err
			}
		}
	}
	return s, nil
}

// String returns a summary of the configuration.
func (c *VenuesConfig) String() string {
	return fmt.Sprintf("VenuesConfig: %d restaurants, %d holidays", len(c.Restaurants), len(c.Holidays))
}
