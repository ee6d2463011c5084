package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horario/internal/conflicts"
	"horario/internal/db"
	"horario/internal/editor"
	"horario/internal/model"
)

const (
	testAPIKey     = "valid-key"
	testRestaurant = "la-marina"
)

type testServer struct {
	*HTTPServer
	db        *db.DB
	conflicts atomic.Bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database, err := db.NewDB(filepath.Join(t.TempDir(), "horario.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	ts := &testServer{db: database}
	checker := conflicts.CheckerFunc(func(context.Context, string, model.Schedule) (conflicts.Report, error) {
		if ts.conflicts.Load() {
			return conflicts.Report{HasConflicts: true, Message: "3 bookings fall outside the new hours"}, nil
		}
		return conflicts.Report{}, nil
	})
	registry := editor.NewRegistry(database, nil, editor.Options{
		Delay:   time.Hour,
		Checker: conflicts.NewAdvisory(checker, nil),
	})
	ts.HTTPServer = NewHTTPServer(registry, Options{APIKey: testAPIKey})
	ts.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, "/api/v1/restaurants/"+testRestaurant+path, reader)
	req.Header.Set("x-api-key", testAPIKey)
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRequireAPIKey(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusUnauthorized},
		{"valid key", testAPIKey, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/x/preview", http.NoBody)
			if tt.key != "" {
				req.Header.Set("x-api-key", tt.key)
			}
			rec := httptest.NewRecorder()
			ts.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	database, err := db.NewDB(filepath.Join(t.TempDir(), "horario.db"))
	require.NoError(t, err)
	defer database.Close()

	srv := NewHTTPServer(editor.NewRegistry(database, nil, editor.Options{Delay: time.Hour}), Options{RateLimitPerMinute: 2})
	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/x/preview", http.NoBody)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		codes[i] = rec.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
