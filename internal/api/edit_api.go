package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"horario/internal/document"
	"horario/internal/editor"
	"horario/internal/metrics"
	"horario/internal/model"
	"horario/internal/schedule"
)

// SpecialDayRequest creates or updates a special day. ID is generated when
// empty on create and taken from the path on update.
type SpecialDayRequest struct {
	ID     string              `json:"id,omitempty"`
	Date   string              `json:"date" validate:"required,datetime=2006-01-02"`
	Name   string              `json:"name"`
	Type   string              `json:"type" validate:"required,oneof=closed special_hours event"`
	Hours  string              `json:"hours,omitempty" validate:"omitempty,hhmmrange"`
	Shifts []document.ShiftDoc `json:"shifts,omitempty" validate:"omitempty,dive"`
}

func (req SpecialDayRequest) check() error {
	switch {
	case req.Type == string(model.SpecialEvent) && req.Hours == "":
		return errors.New("hours are required for an event")
	case req.Type == string(model.SpecialHours) && req.Hours == "" && len(req.Shifts) == 0:
		return errors.New("hours or shifts are required for special hours")
	}
	return nil
}

func (req SpecialDayRequest) toSpecialDay() (model.SpecialDay, error) {
	return document.SpecialDayDoc{
		ID:     req.ID,
		Date:   req.Date,
		Name:   req.Name,
		Type:   req.Type,
		Hours:  req.Hours,
		Shifts: req.Shifts,
	}.ToSpecialDay()
}

// DateConflictResponse is returned with 409 when a special day already
// occupies the requested date and no resolution was given.
type DateConflictResponse struct {
	Error    string                 `json:"error"`
	Existing document.SpecialDayDoc `json:"existing"`
}

// ApplyDayRequest copies one weekday over the whole week.
type ApplyDayRequest struct {
	Source  string `json:"source" validate:"required"`
	Confirm bool   `json:"confirm"`
}

// VenueHoursRequest sets the venue hours of every open day.
type VenueHoursRequest struct {
	Open  string `json:"open" validate:"required,hhmm"`
	Close string `json:"close" validate:"required,hhmm"`
}

// ShiftRequest adds a shift: a built-in template by name, or a custom
// shift described by the remaining fields.
type ShiftRequest struct {
	Template string `json:"template,omitempty"`
	Name     string `json:"name,omitempty" validate:"required_without=Template"`
	Emoji    string `json:"emoji,omitempty"`
	Start    string `json:"start,omitempty" validate:"omitempty,hhmm"`
	End      string `json:"end,omitempty" validate:"omitempty,hhmm"`
	Color    string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// ShiftPatchRequest edits one shift. Template swaps a built-in shift for
// another built-in; the other fields patch in place.
type ShiftPatchRequest struct {
	Template string  `json:"template,omitempty"`
	Name     *string `json:"name,omitempty"`
	Emoji    *string `json:"emoji,omitempty"`
	Start    *string `json:"start,omitempty" validate:"omitempty,hhmm"`
	End      *string `json:"end,omitempty" validate:"omitempty,hhmm"`
	Color    *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func (req ShiftPatchRequest) check() error {
	return nonBlank("name", req.Name)
}

// TemplatePatchRequest renames or restyles a custom template everywhere.
type TemplatePatchRequest struct {
	Name  *string `json:"name,omitempty"`
	Emoji *string `json:"emoji,omitempty"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func (req TemplatePatchRequest) check() error {
	return nonBlank("name", req.Name)
}

// nonBlank rejects a field that is present but empty.
func nonBlank(field string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	return nil
}

// checker is implemented by requests with rules beyond their validate tags.
type checker interface {
	check() error
}

// apply runs op on the restaurant's session and answers with the new
// snapshot.
func (s *HTTPServer) apply(w http.ResponseWriter, r *http.Request, op editor.Op, warning string) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.Apply(op)
	if err != nil {
		writeOpError(w, err)
		return
	}
	resp := newScheduleResponse(sess, snap)
	resp.Warning = warning
	writeJSON(w, http.StatusOK, resp)
}

func writeOpError(w http.ResponseWriter, err error) {
	var conflict *schedule.DateConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, DateConflictResponse{
			Error:    err.Error(),
			Existing: document.FromSpecialDay(conflict.Existing),
		})
	case errors.Is(err, schedule.ErrDuplicateSpecialDayID):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, schedule.ErrUnknownTemplate), errors.Is(err, editor.ErrNotConfirmed):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, schedule.ErrSpecialDayNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

// readRequest decodes and validates a JSON body, answering 400 on failure.
func readRequest(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := decodeBody(r, out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := document.ValidateStruct(out); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if c, ok := out.(checker); ok {
		if err := c.check(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return false
		}
	}
	return true
}

func weekdayParam(w http.ResponseWriter, r *http.Request) (model.Weekday, bool) {
	day, err := model.ParseWeekday(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return day, true
}

// handleAddSpecialDay adds a date exception.
// POST /api/v1/restaurants/{id}/special-days?on_conflict=replace|abort
func (s *HTTPServer) handleAddSpecialDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("add_special_day")
	var req SpecialDayRequest
	if !readRequest(w, r, &req) {
		return
	}
	sd, err := req.toSpecialDay()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := schedule.ParseResolution(r.URL.Query().Get("on_conflict"))
	s.apply(w, r, editor.AddSpecialDay(sd, res), "")
}

// handleUpdateSpecialDay replaces a date exception, possibly moving it.
// PUT /api/v1/restaurants/{id}/special-days/{sdID}?on_conflict=replace|abort
func (s *HTTPServer) handleUpdateSpecialDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("update_special_day")
	var req SpecialDayRequest
	if !readRequest(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "sdID")
	sd, err := req.toSpecialDay()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := schedule.ParseResolution(r.URL.Query().Get("on_conflict"))
	s.apply(w, r, editor.UpdateSpecialDay(sd, res), "")
}

// DELETE /api/v1/restaurants/{id}/special-days/{sdID}
func (s *HTTPServer) handleRemoveSpecialDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("remove_special_day")
	s.apply(w, r, editor.RemoveSpecialDay(chi.URLParam(r, "sdID")), "")
}

// handleApplyDay overwrites every weekday with the source day.
// POST /api/v1/restaurants/{id}/week/apply-day
func (s *HTTPServer) handleApplyDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("apply_day")
	var req ApplyDayRequest
	if !readRequest(w, r, &req) {
		return
	}
	source, err := model.ParseWeekday(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.apply(w, r, editor.ApplyDayToAll(source, req.Confirm), "")
}

// POST /api/v1/restaurants/{id}/week/venue-hours
func (s *HTTPServer) handleVenueHours(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("venue_hours")
	var req VenueHoursRequest
	if !readRequest(w, r, &req) {
		return
	}
	openTime, _ := model.ParseTimeOfDay(req.Open)
	closeTime, _ := model.ParseTimeOfDay(req.Close)
	s.apply(w, r, editor.ApplyVenueHours(openTime, closeTime), "")
}

// POST /api/v1/restaurants/{id}/week/{day}/toggle
func (s *HTTPServer) handleToggleDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("toggle_day")
	day, ok := weekdayParam(w, r)
	if !ok {
		return
	}
	s.apply(w, r, editor.ToggleDay(day), "")
}

// POST /api/v1/restaurants/{id}/week/{day}/shifts
func (s *HTTPServer) handleAddShift(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("add_shift")
	day, ok := weekdayParam(w, r)
	if !ok {
		return
	}
	var req ShiftRequest
	if !readRequest(w, r, &req) {
		return
	}
	if req.Template != "" {
		s.apply(w, r, editor.AddTemplateShift(day, req.Template), "")
		return
	}
	if req.Start == "" || req.End == "" {
		writeError(w, http.StatusBadRequest, "start and end are required for a custom shift")
		return
	}
	start, _ := model.ParseTimeOfDay(req.Start)
	end, _ := model.ParseTimeOfDay(req.End)
	shift := model.Shift{
		Name:     req.Name,
		Label:    req.Emoji,
		Range:    model.NewTimeRange(start, end),
		Color:    req.Color,
		IsCustom: true,
	}
	s.apply(w, r, editor.AddShift(day, shift), "")
}

// PATCH /api/v1/restaurants/{id}/week/{day}/shifts/{shiftID}
func (s *HTTPServer) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("update_shift")
	day, ok := weekdayParam(w, r)
	if !ok {
		return
	}
	var req ShiftPatchRequest
	if !readRequest(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "shiftID")
	if req.Template != "" {
		s.apply(w, r, editor.SwapBuiltin(day, id, req.Template), "")
		return
	}
	patch := schedule.ShiftPatch{Name: req.Name, Label: req.Emoji, Color: req.Color}
	if req.Start != nil {
		t, _ := model.ParseTimeOfDay(*req.Start)
		patch.Start = &t
	}
	if req.End != nil {
		t, _ := model.ParseTimeOfDay(*req.End)
		patch.End = &t
	}
	s.apply(w, r, editor.UpdateShift(day, id, patch), "")
}

// DELETE /api/v1/restaurants/{id}/week/{day}/shifts/{shiftID}
func (s *HTTPServer) handleRemoveShift(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("remove_shift")
	day, ok := weekdayParam(w, r)
	if !ok {
		return
	}
	s.apply(w, r, editor.RemoveShift(day, chi.URLParam(r, "shiftID")), "")
}

// handleRenameTemplate restyles or renames a custom template on every day.
// Renaming onto an existing custom name merges the two; the response
// carries a warning when that happens.
// PATCH /api/v1/restaurants/{id}/templates/{name}
func (s *HTTPServer) handleRenameTemplate(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("rename_template")
	var req TemplatePatchRequest
	if !readRequest(w, r, &req) {
		return
	}
	name := chi.URLParam(r, "name")

	warning := ""
	if req.Name != nil {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		if schedule.TemplateNameCollides(sess.Snapshot().Week, name, *req.Name) {
			warning = "template " + strconv.Quote(*req.Name) + " already exists; shifts were merged"
		}
	}
	patch := schedule.TemplatePatch{Name: req.Name, Label: req.Emoji, Color: req.Color}
	s.apply(w, r, editor.RenameTemplate(name, patch), warning)
}

// handleDeleteTemplate removes a custom template from every day. Days left
// empty are closed unless keep_empty_days=true.
// DELETE /api/v1/restaurants/{id}/templates/{name}
func (s *HTTPServer) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("delete_template")
	opts := schedule.DefaultDeleteOptions()
	if keep, _ := strconv.ParseBool(r.URL.Query().Get("keep_empty_days")); keep {
		opts.DisableEmptyDays = false
	}
	s.apply(w, r, editor.DeleteTemplate(chi.URLParam(r, "name"), opts), "")
}
