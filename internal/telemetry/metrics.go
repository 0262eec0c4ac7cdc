package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the prometheus collectors the coordinator and lifecycle
// manager feed. A nil *Metrics is valid everywhere it's accepted: every
// method is a nil-safe no-op, so callers that don't care about metrics
// (most tests) can pass nil instead of wiring a registry.
type Metrics struct {
	lifecycle          *prometheus.CounterVec
	adapterErrors      *prometheus.CounterVec
	validationRejected *prometheus.CounterVec
	callLatency        *prometheus.HistogramVec
}

// NewMetrics registers and returns a Metrics bundle on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lifecycle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexpricer",
			Name:      "lifecycle_total",
			Help:      "Adapter lifecycle operation outcomes.",
		}, []string{"dex_key", "op", "outcome"}),
		adapterErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexpricer",
			Name:      "adapter_errors_total",
			Help:      "Per-adapter errors by operation and error kind.",
		}, []string{"dex_key", "op", "kind"}),
		validationRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexpricer",
			Name:      "validation_rejected_total",
			Help:      "Quote envelopes dropped by the validation pass.",
		}, []string{"exchange", "reason"}),
		callLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dexpricer",
			Name:      "adapter_call_seconds",
			Help:      "Per-adapter call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"dex_key", "op"}),
	}

	reg.MustRegister(m.lifecycle, m.adapterErrors, m.validationRejected, m.callLatency)

	return m
}

// ObserveLifecycle records an init/release outcome.
func (m *Metrics) ObserveLifecycle(dexKey, op string, ok bool) {
	if m == nil {
		return
	}

	outcome := "error"
	if ok {
		outcome = "ok"
	}

	m.lifecycle.WithLabelValues(dexKey, op, outcome).Inc()
}

// ObserveAdapterError records a per-adapter error by op and kind.
func (m *Metrics) ObserveAdapterError(dexKey, op string, kind Kind) {
	if m == nil {
		return
	}

	m.adapterErrors.WithLabelValues(dexKey, op, string(kind)).Inc()
}

// ObserveValidationRejection records a dropped envelope.
func (m *Metrics) ObserveValidationRejection(exchange, reason string) {
	if m == nil {
		return
	}

	m.validationRejected.WithLabelValues(exchange, reason).Inc()
}

// ObserveCallLatency records how long a per-adapter call took.
func (m *Metrics) ObserveCallLatency(dexKey, op string, d time.Duration) {
	if m == nil {
		return
	}

	m.callLatency.WithLabelValues(dexKey, op).Observe(d.Seconds())
}
