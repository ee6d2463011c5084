package api

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"horario/internal/db"
	"horario/internal/document"
)

func TestGetSchedule(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/schedule", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ScheduleResponse](t, rec)
	assert.Equal(t, testRestaurant, resp.RestaurantID)
	assert.Equal(t, "Open every day: Lunch 13:00-16:00, Dinner 20:00-23:30.", resp.Summary)
	assert.Len(t, resp.Schedule.OpeningHours, 7)
	assert.False(t, resp.Dirty)
}

func TestEffective(t *testing.T) {
	ts := newTestServer(t)

	t.Run("defaults to today", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/effective", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		day := decode[document.EffectiveDayDoc](t, rec)
		assert.Equal(t, "2026-10-19", day.Date)
		assert.Equal(t, "monday", day.Weekday)
		assert.True(t, day.IsOpen)
		assert.Len(t, day.Shifts, 2)
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/effective?date=19-10-2026", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCalendar_Validation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantError  string
	}{
		{"missing dates", "", http.StatusBadRequest, "start_date and end_date are required"},
		{"missing end", "?start_date=2026-10-19", http.StatusBadRequest, "start_date and end_date are required"},
		{"bad start", "?start_date=19-10-2026&end_date=2026-10-20", http.StatusBadRequest, "invalid start_date format; expected YYYY-MM-DD"},
		{"bad end", "?start_date=2026-10-19&end_date=20-10-2026", http.StatusBadRequest, "invalid end_date format; expected YYYY-MM-DD"},
		{"reversed", "?start_date=2026-10-20&end_date=2026-10-19", http.StatusBadRequest, "start_date must be before or equal to end_date"},
		{"too long", "?start_date=2026-01-01&end_date=2026-06-01", http.StatusBadRequest, "date range exceeds maximum of 90 days"},
		{"valid", "?start_date=2026-10-19&end_date=2026-10-25", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/calendar"+tt.query, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode[errorResponse](t, rec).Error)
			}
		})
	}
}

func TestCalendarAppliesSpecialDays(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/special-days", SpecialDayRequest{Date: "2026-10-21", Name: "Staff day", Type: "closed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/calendar?start_date=2026-10-19&end_date=2026-10-25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[CalendarResponse](t, rec)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, "2026-10-19", resp.Period.Start)
	assert.Equal(t, "2026-10-25", resp.Period.End)

	closed := resp.Days[2]
	assert.Equal(t, "2026-10-21", closed.Date)
	assert.False(t, closed.IsOpen)
	assert.Empty(t, closed.Shifts)
	require.NotNil(t, closed.Reason)
	assert.Equal(t, "Staff day", closed.Reason.Name)
	assert.True(t, resp.Days[3].IsOpen)
}

func TestPreview(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/week/sunday/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Open Monday, Tuesday, Wednesday, Thursday, Friday and Saturday. Closed Sunday.",
		decode[map[string]string](t, rec)["summary"])
}

func TestSave(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	rec := ts.do(t, http.MethodPost, "/week/monday/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ScheduleResponse](t, rec).Dirty)

	t.Run("conflicts hold the save back", func(t *testing.T) {
		ts.conflicts.Store(true)
		rec := ts.do(t, http.MethodPost, "/save", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		resp := decode[SaveResponse](t, rec)
		assert.False(t, resp.Saved)
		assert.True(t, resp.Conflicts.HasConflicts)

		_, err := ts.db.GetSchedule(ctx, testRestaurant)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("force saves anyway", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/save?force=true", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[SaveResponse](t, rec)
		assert.True(t, resp.Saved)
		assert.Equal(t, "3 bookings fall outside the new hours", resp.Conflicts.Message)

		stored, err := ts.db.GetSchedule(ctx, testRestaurant)
		require.NoError(t, err)
		assert.False(t, stored.Week[0].Enabled)
	})
}

func TestPutSchedule(t *testing.T) {
	ts := newTestServer(t)

	t.Run("invalid document", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/schedule", []byte(`{"openingHours":{"funday":"Cerrado"}}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing weekday", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/schedule", []byte(`{"openingHours":{"monday":"Cerrado"},"specialDays":[]}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("legacy document is upgraded and saved", func(t *testing.T) {
		body := []byte(`{"openingHours":{"monday":"Cerrado","tuesday":"13:00-16:00,20:00-23:30",
			"wednesday":"13:00-16:00","thursday":"13:00-16:00","friday":"13:00-16:00",
			"saturday":"13:00-16:00","sunday":"Cerrado"},"specialDays":[]}`)
		rec := ts.do(t, http.MethodPut, "/schedule", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, decode[SaveResponse](t, rec).Saved)

		stored, err := ts.db.GetSchedule(context.Background(), testRestaurant)
		require.NoError(t, err)
		assert.False(t, stored.Week[0].Enabled)
		require.Len(t, stored.Week[1].Shifts, 2)
		assert.Equal(t, "Lunch", stored.Week[1].Shifts[0].Name)
	})
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/export.xlsx?start_date=2026-10-19&end_date=2026-10-25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), testRestaurant+".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Calendar")
	require.NoError(t, err)
	assert.Len(t, rows, 8)
}
