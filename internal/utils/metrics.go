package utils

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector tracks operation counts and latencies on a private registry,
// so several collectors (one per test) never collide on registration.
type MetricsCollector struct {
	registry *prometheus.Registry

	operations   *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec

	systemStartTime time.Time
}

func NewMetricsCollector(namespace string) *MetricsCollector {
	mc := &MetricsCollector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of store operations by outcome",
			},
			[]string{"operation", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Store operation latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		systemStartTime: time.Now(),
	}
	mc.registry.MustRegister(mc.operations, mc.latency, mc.httpRequests)
	return mc
}

// Registry exposes the collector's registry for the /metrics handler.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// ObserveOperation records one finished operation. A nil err counts as "ok",
// otherwise the AppError code (or "error") is used as the status label.
func (mc *MetricsCollector) ObserveOperation(operationName string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		var appErr *AppError
		if errors.As(err, &appErr) {
			status = appErr.Code
		}
	}
	mc.operations.WithLabelValues(operationName, status).Inc()
	mc.latency.WithLabelValues(operationName).Observe(time.Since(started).Seconds())
}

func (mc *MetricsCollector) IncrementRequests(method, route string, status int) {
	mc.httpRequests.WithLabelValues(method, route, httpStatusLabel(status)).Inc()
}

func (mc *MetricsCollector) Uptime() time.Duration {
	return time.Since(mc.systemStartTime)
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
