package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records outbound backend calls.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the gateway collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fleet",
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Backend calls by resource, operation and outcome",
			},
			[]string{"resource", "operation", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fleet",
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Backend call latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"resource", "operation"},
		),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}

func (m *Metrics) record(resource, operation string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.RequestsTotal.WithLabelValues(resource, operation, outcome).Inc()
	m.RequestDuration.WithLabelValues(resource, operation).Observe(d.Seconds())
}
