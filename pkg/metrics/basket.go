package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BasketMetrics records duration and outcome of basket manager operations.
type BasketMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewBasketMetrics registers the basket metrics on the provided registerer.
func NewBasketMetrics(reg prometheus.Registerer) *BasketMetrics {
	if reg == nil {
		return &BasketMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "basket_operation_duration_seconds",
		Help:    "Duration of basket manager operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "basket_operation_success",
		Help: "Successful basket manager operations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "basket_operation_failure",
		Help: "Failed basket manager operations.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &BasketMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *BasketMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *BasketMetrics) IncSuccess(operation string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *BasketMetrics) IncFailure(operation string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// Observe is a convenience that stamps duration plus outcome in one call.
func (m *BasketMetrics) Observe(operation string, started time.Time, err error) {
	m.ObserveDuration(operation, time.Since(started))
	if err != nil {
		m.IncFailure(operation)
		return
	}
	m.IncSuccess(operation)
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
