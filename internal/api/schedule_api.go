package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"horario/internal/conflicts"
	"horario/internal/document"
	"horario/internal/editor"
	"horario/internal/export"
	"horario/internal/metrics"
	"horario/internal/model"
	"horario/internal/schedule"
)

const (
	// MaxCalendarDaysRange is the widest calendar or export range served.
	MaxCalendarDaysRange = 90
	// defaultExportDays is the export range when no dates are given.
	defaultExportDays = 30

	maxDocumentBytes = 1 << 20
)

// ScheduleResponse is returned by reads and by every editing operation.
type ScheduleResponse struct {
	RestaurantID    string            `json:"restaurant_id"`
	Schedule        document.Document `json:"schedule"`
	Summary         string            `json:"summary"`
	Dirty           bool              `json:"dirty"`
	PendingAutosave bool              `json:"pending_autosave"`
	LastSaveError   string            `json:"last_save_error,omitempty"`
	Warning         string            `json:"warning,omitempty"`
}

func newScheduleResponse(sess *editor.Session, snap model.Schedule) ScheduleResponse {
	resp := ScheduleResponse{
		RestaurantID:    sess.RestaurantID(),
		Schedule:        document.FromSchedule(snap),
		Summary:         schedule.Summarize(snap.Week),
		Dirty:           sess.Dirty(),
		PendingAutosave: sess.PendingAutosave(),
	}
	if err := sess.LastError(); err != nil {
		resp.LastSaveError = err.Error()
	}
	return resp
}

// SaveResponse is the outcome of an explicit save.
type SaveResponse struct {
	Saved     bool             `json:"saved"`
	Conflicts conflicts.Report `json:"conflicts"`
}

// CalendarResponse lists resolved days for a period.
type CalendarResponse struct {
	Days   []document.EffectiveDayDoc `json:"days"`
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleGetSchedule returns the session's current snapshot.
// GET /api/v1/restaurants/{id}/schedule
func (s *HTTPServer) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("get_schedule")
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newScheduleResponse(sess, sess.Snapshot()))
}

// handlePutSchedule replaces the whole schedule with the posted document
// and saves it explicitly.
// PUT /api/v1/restaurants/{id}/schedule?force=true
func (s *HTTPServer) handlePutSchedule(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("put_schedule")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	next, err := document.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if _, err := sess.Apply(editor.Replace(next)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.save(w, r, sess)
}

// handleSave persists the current snapshot now.
// POST /api/v1/restaurants/{id}/save?force=true
func (s *HTTPServer) handleSave(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("save")
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.save(w, r, sess)
}

func (s *HTTPServer) save(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	result, err := sess.Save(r.Context(), force)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save failed: "+err.Error())
		return
	}
	status := http.StatusOK
	if !result.Saved {
		status = http.StatusConflict
	}
	writeJSON(w, status, SaveResponse{Saved: result.Saved, Conflicts: result.Conflicts})
}

// handleEffective resolves one date, today when none is given.
// GET /api/v1/restaurants/{id}/effective?date=YYYY-MM-DD
func (s *HTTPServer) handleEffective(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("effective")
	date := model.DateOf(s.now())
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		date = d
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	day := schedule.ResolveSchedule(sess.Snapshot(), date)
	countResolution(day)
	writeJSON(w, http.StatusOK, document.FromEffectiveDay(day))
}

// handleCalendar resolves every date of a period.
// GET /api/v1/restaurants/{id}/calendar?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar")
	q := r.URL.Query()
	if q.Get("start_date") == "" || q.Get("end_date") == "" {
		writeError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}
	from, to, err := parsePeriod(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	days := schedule.ResolveRange(sess.Snapshot(), from, to)
	var resp CalendarResponse
	resp.Days = make([]document.EffectiveDayDoc, len(days))
	for i, d := range days {
		countResolution(d)
		resp.Days[i] = document.FromEffectiveDay(d)
	}
	resp.Period.Start = from.String()
	resp.Period.End = to.String()
	writeJSON(w, http.StatusOK, resp)
}

// handlePreview returns the one-line description of the week.
// GET /api/v1/restaurants/{id}/preview
func (s *HTTPServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("preview")
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": schedule.Summarize(sess.Snapshot().Week)})
}

// handleExport downloads the schedule as a workbook. The calendar sheet
// covers start_date..end_date, or the next 30 days.
// GET /api/v1/restaurants/{id}/export.xlsx
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	from := model.DateOf(s.now())
	to := from.AddDays(defaultExportDays - 1)
	q := r.URL.Query()
	if q.Get("start_date") != "" || q.Get("end_date") != "" {
		var err error
		if from, to, err = parsePeriod(q.Get("start_date"), q.Get("end_date")); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, sess.Snapshot(), from, to); err != nil {
		s.logger.Error().Err(err).Str("restaurant_id", sess.RestaurantID()).Msg("export schedule")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.RestaurantID()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func parsePeriod(start, end string) (from, to model.Date, err error) {
	if from, err = model.ParseDate(start); err != nil {
		return from, to, fmt.Errorf("invalid start_date format; expected YYYY-MM-DD")
	}
	if to, err = model.ParseDate(end); err != nil {
		return from, to, fmt.Errorf("invalid end_date format; expected YYYY-MM-DD")
	}
	if from.After(to) {
		return from, to, fmt.Errorf("start_date must be before or equal to end_date")
	}
	if from.DaysUntil(to) > MaxCalendarDaysRange {
		return from, to, fmt.Errorf("date range exceeds maximum of %d days", MaxCalendarDaysRange)
	}
	return from, to, nil
}

func countResolution(day model.EffectiveDay) {
	reason := "regular"
	if day.Reason != nil {
		reason = string(day.Reason.Type)
	}
	metrics.IncResolution(reason)
}
