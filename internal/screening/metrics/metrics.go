package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"veria/internal/screening"
)

// UnknownRisk is the risk label for levels outside the known set, so upstream
// values cannot grow the label space.
const UnknownRisk = "unknown"

// Metrics provides observability for screening calls.
type Metrics struct {
	// Screening outcomes by decision and risk level
	Outcomes *prometheus.CounterVec

	// Upstream failures by kind: request_failed, malformed_response, transport
	UpstreamErrors *prometheus.CounterVec

	// Round trip to the screening API
	UpstreamLatency prometheus.Histogram
}

// New creates a new Metrics instance with all screening metrics registered.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the screening metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veria_screen_outcomes_total",
			Help: "Total screening outcomes by decision and risk level",
		}, []string{"decision", "risk"}),

		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veria_screen_upstream_errors_total",
			Help: "Total screening API failures by kind",
		}, []string{"kind"}),

		UpstreamLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "veria_screen_upstream_duration_seconds",
			Help:    "Duration of screening API calls",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementOutcome records a screening outcome. Unknown risk levels are
// counted under UnknownRisk.
func (m *Metrics) IncrementOutcome(decision screening.Decision, risk screening.RiskLevel) {
	if m == nil {
		return
	}
	label := UnknownRisk
	if risk.IsValid() {
		label = risk.String()
	}
	m.Outcomes.WithLabelValues(decision.String(), label).Inc()
}

// IncrementUpstreamError records a failed screening call.
func (m *Metrics) IncrementUpstreamError(kind string) {
	if m != nil {
		m.UpstreamErrors.WithLabelValues(kind).Inc()
	}
}

// ObserveUpstreamLatency records the duration of one screening call.
func (m *Metrics) ObserveUpstreamLatency(d time.Duration) {
	if m != nil {
		m.UpstreamLatency.Observe(d.Seconds())
	}
}
