package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"horario/internal/model"
	"horario/internal/schedule"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("hhmm", validateTimeOfDay)
	validate.RegisterValidation("hhmmrange", validateTimeRange)
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := model.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validateTimeRange(fl validator.FieldLevel) bool {
	_, err := model.ParseTimeRange(fl.Field().String())
	return err == nil
}

// rawDocument defers weekday decoding so legacy string days can be told
// apart from structured ones.
type rawDocument struct {
	OpeningHours map[string]json.RawMessage `json:"openingHours"`
	SpecialDays  []SpecialDayDoc            `json:"specialDays"`
}

// Decode parses a stored document into a Schedule. Legacy weekdays, either
// "Cerrado" or comma-separated "HH:MM-HH:MM" ranges, are upgraded on the
// way in. All seven weekdays must be present. Any problem fails the whole
// load with ErrInvalidFormat.
func Decode(data []byte) (model.Schedule, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.Schedule{}, fmt.Errorf("%w: empty document", ErrInvalidFormat)
	}

	var raw rawDocument
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return model.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	for _, w := range model.AllWeekdays {
		if _, ok := raw.OpeningHours[w.String()]; !ok {
			return model.Schedule{}, fmt.Errorf("%w: openingHours: missing %s", ErrInvalidFormat, w)
		}
	}

	var s model.Schedule
	for key, value := range raw.OpeningHours {
		w, err := model.ParseWeekday(key)
		if err != nil {
			return model.Schedule{}, fmt.Errorf("%w: openingHours: %v", ErrInvalidFormat, err)
		}
		day, err := decodeDay(value)
		if err != nil {
			return model.Schedule{}, fmt.Errorf("%w: openingHours.%s: %v", ErrInvalidFormat, w, err)
		}
		s.Week[w] = day
	}

	s.SpecialDays = make([]model.SpecialDay, 0, len(raw.SpecialDays))
	for i, doc := range raw.SpecialDays {
		if err := validate.Struct(doc); err != nil {
			return model.Schedule{}, fmt.Errorf("%w: specialDays[%d]: %v", ErrInvalidFormat, i, err)
		}
		sd, err := doc.ToSpecialDay()
		if err != nil {
			return model.Schedule{}, fmt.Errorf("%w: specialDays[%d]: %v", ErrInvalidFormat, i, err)
		}
		s.SpecialDays = append(s.SpecialDays, sd)
	}

	if err := schedule.ValidateSchedule(s); err != nil {
		return model.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return s, nil
}

func decodeDay(value json.RawMessage) (model.DayPlan, error) {
	if strings.HasPrefix(string(bytes.TrimSpace(value)), `"`) {
		var legacy string
		if err := json.Unmarshal(value, &legacy); err != nil {
			return model.DayPlan{}, err
		}
		return schedule.UpgradeLegacyDay(legacy)
	}

	var doc DayDoc
	if err := json.Unmarshal(value, &doc); err != nil {
		return model.DayPlan{}, err
	}
	if err := validate.Struct(doc); err != nil {
		return model.DayPlan{}, err
	}
	return doc.ToDay()
}

// Encode renders s as a stored document. Every weekday is written.
func Encode(s model.Schedule) ([]byte, error) {
	return json.Marshal(FromSchedule(s))
}

// EncodeIndent is Encode with indentation, for files meant to be read.
func EncodeIndent(s model.Schedule) ([]byte, error) {
	return json.MarshalIndent(FromSchedule(s), "", "  ")
}

// HasLegacyDays reports whether data stores any weekday in the legacy
// string form.
func HasLegacyDays(data []byte) bool {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}
	for _, v := range raw.OpeningHours {
		if strings.HasPrefix(string(bytes.TrimSpace(v)), `"`) {
			return true
		}
	}
	return false
}

// Upgrade rewrites a document, legacy or current, in the current form.
func Upgrade(data []byte) ([]byte, error) {
	s, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return EncodeIndent(s)
}

// CheckSchedule reports whether s would load again after being encoded: the
// stored form must pass its validate tags and s must pass
// schedule.ValidateSchedule.
func CheckSchedule(s model.Schedule) error {
	doc := FromSchedule(s)
	var errs []error
	for _, w := range model.AllWeekdays {
		if err := validate.Struct(doc.OpeningHours[w.String()]); err != nil {
			errs = append(errs, fmt.Errorf("openingHours.%s: %w", w, err))
		}
	}
	for i, sd := range doc.SpecialDays {
		if err := validate.Struct(sd); err != nil {
			errs = append(errs, fmt.Errorf("specialDays[%d]: %w", i, err))
		}
	}
	if err := schedule.ValidateSchedule(s); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateStruct checks v against its validate tags, including the hhmm and
// hhmmrange rules.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}
