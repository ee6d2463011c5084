package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"horario/internal/db"
	"horario/internal/model"
	"horario/internal/schedule"
)

// Seeder builds the first schedule of a restaurant that has none stored.
type Seeder func(restaurantID string) (model.Schedule, error)

// Registry hands out one Session per restaurant.
type Registry struct {
	store Store
	opts  Options

	mu       sync.Mutex
	seed     Seeder
	sessions map[string]*Session
}

// NewRegistry returns a registry over store. A nil seed starts new
// restaurants from schedule.DefaultSchedule.
func NewRegistry(store Store, seed Seeder, opts Options) *Registry {
	return &Registry{
		store:    store,
		opts:     opts,
		seed:     seed,
		sessions: make(map[string]*Session),
	}
}

// SetSeeder replaces the seeder, e.g. after the venues file is reloaded.
// Existing sessions are unaffected.
func (r *Registry) SetSeeder(seed Seeder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seed = seed
}

// Session returns the restaurant's session, loading its stored schedule or
// seeding a new one. A stored document that cannot be decoded is an error.
func (r *Registry) Session(ctx context.Context, restaurantID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[restaurantID]; ok {
		return s, nil
	}

	initial, err := r.store.GetSchedule(ctx, restaurantID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		if initial, err = r.seedLocked(restaurantID); err != nil {
			return nil, fmt.Errorf("seed schedule %s: %w", restaurantID, err)
		}
	case err != nil:
		return nil, err
	}

	s := NewSession(restaurantID, initial, r.store, r.opts)
	r.sessions[restaurantID] = s
	return s, nil
}

func (r *Registry) seedLocked(restaurantID string) (model.Schedule, error) {
	if r.seed == nil {
		return schedule.DefaultSchedule(), nil
	}
	return r.seed(restaurantID)
}

// RestaurantIDs lists the restaurants with an open session.
func (r *Registry) RestaurantIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Flush runs every pending autosave and returns how many ran.
func (r *Registry) Flush() int {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	n := 0
	for _, s := range sessions {
		if s.Flush() {
			n++
		}
	}
	return n
}
