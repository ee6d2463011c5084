package schedule

import (
	"errors"
	"fmt"
	"sort"

	"horario/internal/model"
)

var (
	// ErrDateConflict marks an attempt to add a second special day for a date.
	ErrDateConflict = errors.New("special day already exists for date")
	// ErrSpecialDayNotFound is returned when an id does not match any special day.
	ErrSpecialDayNotFound = errors.New("special day not found")
	// ErrDuplicateSpecialDayID is returned when a new special day reuses an id.
	ErrDuplicateSpecialDayID = errors.New("special day id already in use")
)

// DateConflictError carries the special day already occupying the date.
type DateConflictError struct {
	Existing model.SpecialDay
}

func (e *DateConflictError) Error() string {
	return fmt.Sprintf("%s: %s (%q)", ErrDateConflict, e.Existing.Date, e.Existing.Name)
}

// Is makes errors.Is(err, ErrDateConflict) match.
func (e *DateConflictError) Is(target error) bool {
	return target == ErrDateConflict
}

// Resolution is the caller's explicit answer to a date conflict.
type Resolution int

const (
	// ResolutionUnset rejects the operation with a *DateConflictError.
	ResolutionUnset Resolution = iota
	// ResolutionReplace drops the existing special day in favour of the new one.
	ResolutionReplace
	// ResolutionAbort keeps the existing special day and discards the new one.
	ResolutionAbort
)

// ParseResolution maps "replace" and "abort"; anything else is unset.
func ParseResolution(s string) Resolution {
	switch s {
	case "replace":
		return ResolutionReplace
	case "abort":
		return ResolutionAbort
	}
	return ResolutionUnset
}

// AddSpecialDay returns a new list with sd added. A missing id is generated;
// a given one must not be in use. When the date is taken the outcome
// depends on res; the input list is never modified.
func AddSpecialDay(list []model.SpecialDay, sd model.SpecialDay, res Resolution) ([]model.SpecialDay, error) {
	if sd.ID == "" {
		sd.ID = newID()
	} else if indexSpecialDay(list, sd.ID) >= 0 {
		return list, fmt.Errorf("%w: %s", ErrDuplicateSpecialDayID, sd.ID)
	}
	return placeSpecialDay(cloneSpecialDays(list), sd, "", res)
}

// UpdateSpecialDay replaces the special day with sd.ID. Moving it onto a date
// held by another special day is a conflict resolved by res.
func UpdateSpecialDay(list []model.SpecialDay, sd model.SpecialDay, res Resolution) ([]model.SpecialDay, error) {
	idx := indexSpecialDay(list, sd.ID)
	if idx < 0 {
		return list, fmt.Errorf("%w: %s", ErrSpecialDayNotFound, sd.ID)
	}
	out := cloneSpecialDays(list)
	return placeSpecialDay(out, sd, sd.ID, res)
}

// RemoveSpecialDay returns a new list without the special day with id.
func RemoveSpecialDay(list []model.SpecialDay, id string) []model.SpecialDay {
	out := make([]model.SpecialDay, 0, len(list))
	for _, sd := range list {
		if sd.ID != id {
			out = append(out, sd.Clone())
		}
	}
	return out
}

// placeSpecialDay inserts sd into list (which it owns), replacing selfID.
func placeSpecialDay(list []model.SpecialDay, sd model.SpecialDay, selfID string, res Resolution) ([]model.SpecialDay, error) {
	for _, existing := range list {
		if existing.Date != sd.Date || existing.ID == selfID {
			continue
		}
		switch res {
		case ResolutionReplace:
			list = RemoveSpecialDay(list, existing.ID)
		case ResolutionAbort:
			return list, nil
		default:
			return list, &DateConflictError{Existing: existing.Clone()}
		}
		break
	}

	if selfID != "" {
		list = RemoveSpecialDay(list, selfID)
	}
	list = append(list, sd.Clone())
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})
	return list, nil
}

func indexSpecialDay(list []model.SpecialDay, id string) int {
	for i, sd := range list {
		if sd.ID == id {
			return i
		}
	}
	return -1
}

func cloneSpecialDays(list []model.SpecialDay) []model.SpecialDay {
	out := make([]model.SpecialDay, len(list))
	for i, sd := range list {
		out[i] = sd.Clone()
	}
	return out
}
