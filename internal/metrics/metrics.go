// Package metrics owns the Prometheus collectors for the server.
//
// Collectors are registered on a registry created per Metrics value instead
// of the global default one, so several servers (e.g. in tests) can coexist
// without duplicate-registration panics.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/snippet-library/internal/apperror"
)

type Metrics struct {
	registry *prometheus.Registry

	// RequestDuration is labelled by method, chi route pattern and status.
	RequestDuration *prometheus.HistogramVec

	// SnippetOps counts snippet operations by op and result.
	SnippetOps *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		SnippetOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snippet_operations_total",
				Help: "Snippet operations by operation and result.",
			},
			[]string{"op", "result"},
		),
	}

	m.registry.MustRegister(
		m.RequestDuration,
		m.SnippetOps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSnippetOp records the outcome of one snippet operation.
// A nil *Metrics is a no-op so callers don't need to guard it.
func (m *Metrics) ObserveSnippetOp(op string, err error) {
	if m == nil {
		return
	}
	m.SnippetOps.WithLabelValues(op, result(err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperror.ErrValidation):
		return "invalid"
	case errors.Is(err, apperror.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
