package reservations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horario/internal/conflicts"
	"horario/internal/model"
	"horario/internal/schedule"
)

func newConflictServer(t *testing.T, calls *int32, report conflicts.Report) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/restaurants/r1/schedule-conflicts", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		var body ConflictRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r1", body.RestaurantID)
		assert.Len(t, body.Schedule.OpeningHours, 7)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(report)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckConflicts(t *testing.T) {
	var calls int32
	srv := newConflictServer(t, &calls, conflicts.Report{HasConflicts: true, Message: "2 bookings affected"})

	c := NewClient(srv.URL, "secret", time.Second)
	got, err := c.CheckConflicts(context.Background(), "r1", schedule.DefaultSchedule())
	require.NoError(t, err)
	assert.True(t, got.HasConflicts)
	assert.Equal(t, "2 bookings affected", got.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCheckConflictsUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var calls int32
	srv := newConflictServer(t, &calls, conflicts.Report{HasConflicts: false})

	c := NewClient(srv.URL, "secret", time.Second)
	c.UseRedisCache(rdb, time.Minute)

	proposed := schedule.DefaultSchedule()
	for i := 0; i < 3; i++ {
		_, err := c.CheckConflicts(context.Background(), "r1", proposed)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	changed := proposed.Clone()
	changed.Week[model.Monday].Enabled = false
	_, err := c.CheckConflicts(context.Background(), "r1", changed)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	for _, key := range mr.Keys() {
		assert.Equal(t, MaxCacheTTL, mr.TTL(key), key)
	}

	mr.FastForward(MaxCacheTTL + time.Second)
	_, err = c.CheckConflicts(context.Background(), "r1", proposed)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCheckConflictsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.CheckConflicts(context.Background(), "r1", model.Schedule{})
	assert.Error(t, err)

	report := conflicts.NewAdvisory(c, nil).Check(context.Background(), "r1", model.Schedule{})
	assert.False(t, report.HasConflicts)
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL, "", time.Second).HealthCheck(context.Background()))
	assert.Error(t, NewClient(srv.URL+"/down", "", time.Second).HealthCheck(context.Background()))
}
