// Package api exposes schedules over HTTP to the reservation bot and the
// dashboard: resolved days and calendars for readers, editing operations
// and explicit saves for the operator UI.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"horario/internal/editor"
)

// HTTPServer serves the schedule API.
type HTTPServer struct {
	registry *editor.Registry
	apiKey   string
	logger   zerolog.Logger
	server   *http.Server
	now      func() time.Time
}

// Options configures NewHTTPServer.
type Options struct {
	Address            string
	APIKey             string // empty disables the x-api-key check
	RateLimitPerMinute int
	Logger             *zerolog.Logger
}

// NewHTTPServer builds the server and its routes. Call Start to listen.
func NewHTTPServer(registry *editor.Registry, opts Options) *HTTPServer {
	s := &HTTPServer{
		registry: registry,
		apiKey:   opts.APIKey,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	if opts.Logger != nil {
		s.logger = opts.Logger.With().Str("component", "api").Logger()
	}
	s.server = &http.Server{
		Addr:              opts.Address,
		Handler:           s.routes(opts.RateLimitPerMinute),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) routes(perMinute int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if perMinute > 0 {
		r.Use(httprate.LimitByIP(perMinute, time.Minute))
	}

	r.Route("/api/v1/restaurants/{id}", func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Get("/schedule", s.handleGetSchedule)
		r.Put("/schedule", s.handlePutSchedule)
		r.Post("/save", s.handleSave)

		r.Get("/effective", s.handleEffective)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/preview", s.handlePreview)
		r.Get("/export.xlsx", s.handleExport)

		r.Post("/special-days", s.handleAddSpecialDay)
		r.Put("/special-days/{sdID}", s.handleUpdateSpecialDay)
		r.Delete("/special-days/{sdID}", s.handleRemoveSpecialDay)

		r.Post("/week/apply-day", s.handleApplyDay)
		r.Post("/week/venue-hours", s.handleVenueHours)
		r.Post("/week/{day}/toggle", s.handleToggleDay)
		r.Post("/week/{day}/shifts", s.handleAddShift)
		r.Patch("/week/{day}/shifts/{shiftID}", s.handleUpdateShift)
		r.Delete("/week/{day}/shifts/{shiftID}", s.handleRemoveShift)

		r.Patch("/templates/{name}", s.handleRenameTemplate)
		r.Delete("/templates/{name}", s.handleDeleteTemplate)
	})
	return r
}

// Start listens until Shutdown is called.
func (s *HTTPServer) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("api server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("x-api-key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// session resolves the {id} route parameter. It writes the error response
// itself and reports false when the session cannot be opened.
func (s *HTTPServer) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.registry.Session(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("restaurant_id", id).Msg("open schedule session")
		writeError(w, http.StatusInternalServerError, "schedule unavailable")
		return nil, false
	}
	return sess, true
}

func decodeBody(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
