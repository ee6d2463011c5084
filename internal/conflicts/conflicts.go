// Package conflicts asks the reservation system whether a proposed schedule
// would invalidate existing bookings.
package conflicts

import (
	"context"

	"github.com/rs/zerolog"

	"horario/internal/metrics"
	"horario/internal/model"
)

// Report is the reservation system's answer for a proposed schedule.
type Report struct {
	HasConflicts bool   `json:"hasConflicts"`
	Message      string `json:"message,omitempty"`
}

// Checker reports booking conflicts for a proposed schedule.
type Checker interface {
	CheckConflicts(ctx context.Context, restaurantID string, proposed model.Schedule) (Report, error)
}

// Advisory wraps a Checker so that it never blocks a save: a failed check
// is logged and reported as no conflicts.
type Advisory struct {
	checker Checker
	logger  zerolog.Logger
}

// NewAdvisory wraps checker. A nil checker always reports no conflicts.
func NewAdvisory(checker Checker, logger *zerolog.Logger) *Advisory {
	a := &Advisory{checker: checker, logger: zerolog.Nop()}
	if logger != nil {
		a.logger = logger.With().Str("component", "conflicts").Logger()
	}
	return a
}

// Check returns the checker's report, or an empty report when the check
// fails or no checker is configured.
func (a *Advisory) Check(ctx context.Context, restaurantID string, proposed model.Schedule) Report {
	if a == nil || a.checker == nil {
		return Report{}
	}
	report, err := a.checker.CheckConflicts(ctx, restaurantID, proposed)
	if err != nil {
		metrics.IncConflictCheck("failed")
		a.logger.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("conflict check failed, assuming no conflicts")
		return Report{}
	}
	if report.HasConflicts {
		metrics.IncConflictCheck("conflicts")
	} else {
		metrics.IncConflictCheck("clear")
	}
	return report
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, restaurantID string, proposed model.Schedule) (Report, error)

func (f CheckerFunc) CheckConflicts(ctx context.Context, restaurantID string, proposed model.Schedule) (Report, error) {
	return f(ctx, restaurantID, proposed)
}
