// Package prom exposes syncbox processor telemetry as Prometheus metrics.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/medcrm/syncbox"
)

// Metrics implements syncbox.Metrics on a Prometheus registry.
type Metrics struct {
	drainDuration prometheus.Histogram
	delivered     prometheus.Counter
	retries       prometheus.Counter
	exhausted     prometheus.Counter
	cleared       prometheus.Counter
	pending       prometheus.Gauge
}

var _ syncbox.Metrics = (*Metrics)(nil)

// NewMetrics registers the syncbox collectors with the given registerer.
// Pass prometheus.DefaultRegisterer for the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		drainDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "syncbox_drain_duration_seconds",
			Help:    "Time taken by a full outbox drain pass.",
			Buckets: prometheus.DefBuckets,
		}),
		delivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncbox_operations_delivered_total",
			Help: "Operations accepted by the server and removed from the queue.",
		}),
		retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncbox_operation_retries_total",
			Help: "Failed delivery attempts that remain retryable.",
		}),
		exhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncbox_operations_exhausted_total",
			Help: "Operations that ran out of retries.",
		}),
		cleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncbox_operations_cleared_total",
			Help: "Operations removed by an explicit clear.",
		}),
		pending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "syncbox_operations_pending",
			Help: "Operations currently awaiting delivery.",
		}),
	}
}

// ObserveDrainDuration implements syncbox.Metrics.
func (m *Metrics) ObserveDrainDuration(duration time.Duration) {
	m.drainDuration.Observe(duration.Seconds())
}

// AddDelivered implements syncbox.Metrics.
func (m *Metrics) AddDelivered(count int) {
	m.delivered.Add(float64(count))
}

// AddRetries implements syncbox.Metrics.
func (m *Metrics) AddRetries(count int) {
	m.retries.Add(float64(count))
}

// AddExhausted implements syncbox.Metrics.
func (m *Metrics) AddExhausted(count int) {
	m.exhausted.Add(float64(count))
}

// AddCleared implements syncbox.Metrics.
func (m *Metrics) AddCleared(count int) {
	m.cleared.Add(float64(count))
}

// SetPending implements syncbox.Metrics.
func (m *Metrics) SetPending(count int) {
	m.pending.Set(float64(count))
}
