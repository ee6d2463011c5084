package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	scheduleSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horario",
			Name:      "schedule_saves_total",
			Help:      "Count of schedule saves by result.",
		},
		[]string{"result"},
	)

	conflictChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horario",
			Name:      "conflict_checks_total",
			Help:      "Count of reservation conflict checks by outcome.",
		},
		[]string{"outcome"},
	)

	resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horario",
			Name:      "resolutions_total",
			Help:      "Count of resolved dates by exception type.",
		},
		[]string{"reason"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horario",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	backups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horario",
			Name:      "backups_total",
			Help:      "Count of database backups by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(scheduleSaves, conflictChecks, resolutions, httpRequests, backups)
	})
}

// IncScheduleSave counts a save attempt: "ok", "error" or "conflict".
func IncScheduleSave(result string) {
	scheduleSaves.WithLabelValues(result).Inc()
}

// IncConflictCheck counts a conflict check: "clear", "conflicts" or "failed".
func IncConflictCheck(outcome string) {
	conflictChecks.WithLabelValues(outcome).Inc()
}

// IncResolution counts a resolved date. reason is the special day type or
// "regular".
func IncResolution(reason string) {
	resolutions.WithLabelValues(reason).Inc()
}

func IncBackup(result string) {
	backups.WithLabelValues(result).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
