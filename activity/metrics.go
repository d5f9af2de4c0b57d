package activity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the activity recorder.
type Metrics struct {
	Recorded        prometheus.Counter
	Dropped         prometheus.Counter
	PersistFailures prometheus.Counter
}

// NewMetrics creates the recorder metrics and registers them with reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Recorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "court_audit_recorded_total",
			Help: "Total number of activity entries persisted",
		}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "court_audit_dropped_total",
			Help: "Total number of activity entries dropped because the queue was full or closed",
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "court_audit_persist_failures_total",
			Help: "Total number of activity entries lost to persistence failures",
		}),
	}
}
