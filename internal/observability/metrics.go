// Package observability provides the operation metrics contract used by all
// module services, with a prometheus-backed implementation and a noop for tests.
package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records attempt/success/failure counts and durations for
// service operations.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operationName, serviceName string)
	RecordOperationSuccess(ctx context.Context, operationName, serviceName string)
	RecordOperationFailure(ctx context.Context, operationName, serviceName string)
	RecordOperationDuration(ctx context.Context, operationName, serviceName string, duration time.Duration)
}

// PrometheusMetrics implements OperationMetrics with prometheus collectors.
type PrometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the operation collectors on the given
// registerer and returns the metrics recorder.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	labels := []string{"operation", "service"}

	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fstb",
			Name:      "operation_attempts_total",
			Help:      "Number of service operations triggered.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fstb",
			Name:      "operation_successes_total",
			Help:      "Number of service operations that completed successfully.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fstb",
			Name:      "operation_failures_total",
			Help:      "Number of service operations that failed.",
		}, labels),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fstb",
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}

	reg.MustRegister(m.attempts, m.successes, m.failures, m.durations)
	return m
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operationName, serviceName string) {
	m.attempts.WithLabelValues(operationName, serviceName).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operationName, serviceName string) {
	m.successes.WithLabelValues(operationName, serviceName).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operationName, serviceName string) {
	m.failures.WithLabelValues(operationName, serviceName).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operationName, serviceName string, duration time.Duration) {
	m.durations.WithLabelValues(operationName, serviceName).Observe(duration.Seconds())
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

func NewNoop() *NoopMetrics { return &NoopMetrics{} }

func (*NoopMetrics) RecordOperationAttempt(context.Context, string, string)                {}
func (*NoopMetrics) RecordOperationSuccess(context.Context, string, string)                {}
func (*NoopMetrics) RecordOperationFailure(context.Context, string, string)                {}
func (*NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}

var (
	_ OperationMetrics = (*PrometheusMetrics)(nil)
	_ OperationMetrics = (*NoopMetrics)(nil)
)
