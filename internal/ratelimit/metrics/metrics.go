package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejected prometheus.Counter
	Degraded prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veria_ratelimit_rejected_total",
			Help: "Total number of proxy requests rejected by the rate limiter",
		}),
		Degraded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veria_ratelimit_degraded_checks_total",
			Help: "Total number of rate limit checks served by the in-memory fallback",
		}),
	}
}

func (m *Metrics) IncrementRejected() {
	if m != nil {
		m.Rejected.Inc()
	}
}

func (m *Metrics) IncrementDegraded() {
	if m != nil {
		m.Degraded.Inc()
	}
}
