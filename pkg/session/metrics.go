package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the operation counters the Manager maintains.
type Metrics struct {
	Created    prometheus.Counter
	ReadHits   prometheus.Counter
	ReadMisses prometheus.Counter
	Expired    prometheus.Counter
	Destroyed  prometheus.Counter
	Swept      prometheus.Counter
}

// NewMetrics creates the counter set, registered against reg.
// A nil reg yields working but unregistered counters, which is what a
// Manager without metrics wiring uses.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Created: factory.NewCounter(prometheus.CounterOpts{
			Name: "satchel_sessions_created_total",
			Help: "Sessions created.",
		}),
		ReadHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "satchel_session_read_hits_total",
			Help: "Reads that returned a live session.",
		}),
		ReadMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "satchel_session_read_misses_total",
			Help: "Reads that found no live session (absent, destroyed, or expired).",
		}),
		Expired: factory.NewCounter(prometheus.CounterOpts{
			Name: "satchel_sessions_expired_total",
			Help: "Sessions reaped lazily by the manager on access.",
		}),
		Destroyed: factory.NewCounter(prometheus.CounterOpts{
			Name: "satchel_sessions_destroyed_total",
			Help: "Explicit destroy operations.",
		}),
		Swept: factory.NewCounter(prometheus.CounterOpts{
			Name: "satchel_sessions_swept_total",
			Help: "Expired sessions removed by sweep passes.",
		}),
	}
}
