package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	displays     prometheus.Gauge
	broadcasts   *prometheus.CounterVec
	replacements *prometheus.CounterVec
}

// NewMetrics registers the process, Go and papan collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "papan",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "papan",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		displays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "papan",
			Name:      "displays_connected",
			Help:      "Browser displays currently connected over WebSocket.",
		}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "papan",
			Name:      "display_broadcasts_total",
			Help:      "Change notifications pushed to displays, by type.",
		}, []string{"type"}),
		replacements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "papan",
			Name:      "replacements_total",
			Help:      "Wholesale replacements of persisted values, by value.",
		}, []string{"value"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.latency,
		m.displays,
		m.broadcasts,
		m.replacements,
	)
	return m
}

// Registry returns the registry served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
