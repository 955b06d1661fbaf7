package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcomes used as the "outcome" label.
const (
	OutcomeLinked     = "linked"
	OutcomeIdempotent = "idempotent"
	OutcomeNotFound   = "not_found"
	OutcomeConflict   = "conflict"
	OutcomeError      = "error"
)

// Metrics provides observability for the directory module.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registrations    *prometheus.CounterVec
	UsersCreated     prometheus.Counter
	UsersDeleted     prometheus.Counter
	DirectoryEntries prometheus.Gauge
	RefreshDuration  prometheus.Histogram
	RegisterDuration prometheus.Histogram
}

// New creates the directory metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkbot_registrations_total",
			Help: "Registration attempts partitioned by outcome",
		}, []string{"outcome"}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkbot_users_created_total",
			Help: "Total number of users created",
		}),
		UsersDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkbot_users_deleted_total",
			Help: "Total number of users deleted",
		}),
		DirectoryEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "linkbot_directory_entries",
			Help: "Number of linked identities held in the directory cache",
		}),
		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "linkbot_directory_refresh_duration_seconds",
			Help:    "Duration of full directory rebuilds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RegisterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "linkbot_register_duration_seconds",
			Help:    "Duration of Register operations",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRegistration records a registration attempt with its outcome.
func (m *Metrics) IncrementRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

func (m *Metrics) IncrementUsersDeleted() {
	if m == nil {
		return
	}
	m.UsersDeleted.Inc()
}

// SetDirectoryEntries records the current directory size.
func (m *Metrics) SetDirectoryEntries(n int) {
	if m == nil {
		return
	}
	m.DirectoryEntries.Set(float64(n))
}

// ObserveRefresh records the duration of a directory rebuild.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRefresh(start time.Time) {
	if m == nil {
		return
	}
	m.RefreshDuration.Observe(time.Since(start).Seconds())
}

// ObserveRegister records the duration of a Register call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	if m == nil {
		return
	}
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
