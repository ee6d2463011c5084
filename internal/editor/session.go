// Package editor holds the editing session for one restaurant's schedule:
// the current snapshot, debounced autosave and explicit save with an
// advisory conflict check.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"horario/internal/autosave"
	"horario/internal/conflicts"
	"horario/internal/document"
	"horario/internal/events"
	"horario/internal/metrics"
	"horario/internal/model"
)

// Store persists whole schedule documents.
type Store interface {
	GetSchedule(ctx context.Context, restaurantID string) (model.Schedule, error)
	SaveSchedule(ctx context.Context, restaurantID string, s model.Schedule) error
}

// ErrInvalidSchedule is returned by Apply when an edit would leave a
// schedule that could not be loaded again once saved.
var ErrInvalidSchedule = errors.New("edit leaves an invalid schedule")

// Options configures sessions. Zero values are usable.
type Options struct {
	Delay       time.Duration // debounce window, autosave.DefaultDelay when zero
	SaveTimeout time.Duration
	Checker     *conflicts.Advisory
	Bus         *events.EventBus
	Logger      *zerolog.Logger
}

// SaveResult is the outcome of an explicit save.
type SaveResult struct {
	Saved     bool
	Conflicts conflicts.Report
}

// Session owns one restaurant's schedule while it is being edited. Only one
// session exists per restaurant; concurrent editors elsewhere are not
// detected and the last save wins.
type Session struct {
	restaurantID string
	store        Store
	checker      *conflicts.Advisory
	bus          *events.EventBus
	logger       zerolog.Logger
	debouncer    *autosave.Debouncer
	saveTimeout  time.Duration

	// saveMu serializes writes to the store.
	saveMu sync.Mutex

	mu           sync.Mutex
	current      model.Schedule
	version      uint64
	savedVersion uint64
	lastErr      error
}

// NewSession starts a session from initial, which is treated as saved.
func NewSession(restaurantID string, initial model.Schedule, store Store, opts Options) *Session {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("restaurant_id", restaurantID).Logger()
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 5 * time.Second
	}
	return &Session{
		restaurantID: restaurantID,
		store:        store,
		checker:      opts.Checker,
		bus:          opts.Bus,
		logger:       logger,
		debouncer:    autosave.New(opts.Delay),
		saveTimeout:  opts.SaveTimeout,
		current:      initial.Clone(),
	}
}

func (s *Session) RestaurantID() string {
	return s.restaurantID
}

// Snapshot returns a copy of the current schedule.
func (s *Session) Snapshot() model.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Apply runs op on the current snapshot and, on success, replaces it and
// restarts the autosave timer. The new snapshot is returned. A result that
// would not survive a save and reload is rejected with ErrInvalidSchedule.
func (s *Session) Apply(op Op) (model.Schedule, error) {
	s.mu.Lock()
	next, err := op(s.current.Clone())
	if err != nil {
		s.mu.Unlock()
		return model.Schedule{}, err
	}
	if err := document.CheckSchedule(next); err != nil {
		s.mu.Unlock()
		return model.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	s.current = next
	s.version++
	out := next.Clone()
	s.mu.Unlock()

	s.debouncer.Schedule(s.autosave)
	return out, nil
}

// Dirty reports whether the latest snapshot has not been persisted.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version != s.savedVersion
}

// PendingAutosave reports whether a debounced save is waiting to fire.
func (s *Session) PendingAutosave() bool {
	return s.debouncer.Pending()
}

// LastError returns the error of the most recent failed save, cleared by
// the next successful one.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Save persists the current snapshot now. The pending autosave is
// cancelled. When the reservation system reports conflicts nothing is
// saved unless force is set; a failed conflict check counts as no
// conflicts.
func (s *Session) Save(ctx context.Context, force bool) (SaveResult, error) {
	s.debouncer.Cancel()

	s.mu.Lock()
	snap := s.current.Clone()
	version := s.version
	s.mu.Unlock()

	result := SaveResult{Conflicts: s.checker.Check(ctx, s.restaurantID, snap)}
	if result.Conflicts.HasConflicts {
		s.publish(events.ConflictsDetected, events.SavePayload{Trigger: "explicit", Message: result.Conflicts.Message})
		if !force {
			metrics.IncScheduleSave("conflict")
			s.logger.Info().Str("message", result.Conflicts.Message).Msg("save held back by booking conflicts")
			return result, nil
		}
		s.logger.Warn().Str("message", result.Conflicts.Message).Msg("force-saving over booking conflicts")
	}

	if err := s.persist(ctx, snap, version, "explicit"); err != nil {
		return result, err
	}
	result.Saved = true
	return result, nil
}

// Flush runs a pending autosave immediately. Used on shutdown.
func (s *Session) Flush() bool {
	return s.debouncer.Flush()
}

// autosave persists the latest snapshot. Failures are reported but neither
// retried nor rolled back; the next edit schedules another attempt.
func (s *Session) autosave() {
	s.mu.Lock()
	snap := s.current.Clone()
	version := s.version
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	_ = s.persist(ctx, snap, version, "autosave")
}

// persist writes snap unless a newer version has already been stored, in
// which case it succeeds without writing.
func (s *Session) persist(ctx context.Context, snap model.Schedule, version uint64, trigger string) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	stale := version < s.savedVersion
	s.mu.Unlock()
	if stale {
		s.logger.Debug().Str("trigger", trigger).Uint64("version", version).Msg("skipping superseded save")
		return nil
	}

	if err := s.store.SaveSchedule(ctx, s.restaurantID, snap); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()

		metrics.IncScheduleSave("error")
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("schedule save failed")
		s.publish(events.ScheduleSaveFailed, events.SavePayload{Trigger: trigger, Error: err.Error()})
		return err
	}

	s.mu.Lock()
	// A save that finishes after a newer edit leaves the session dirty.
	s.savedVersion = version
	s.lastErr = nil
	s.mu.Unlock()

	metrics.IncScheduleSave("ok")
	s.logger.Debug().Str("trigger", trigger).Uint64("version", version).Msg("schedule saved")
	s.publish(events.ScheduleSaved, events.SavePayload{Trigger: trigger})
	return nil
}

func (s *Session) publish(eventType string, payload events.SavePayload) {
	if err := s.bus.PublishJSON(eventType, s.restaurantID, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("event handler failed")
	}
}
