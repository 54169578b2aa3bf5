// Package telemetry exposes prometheus metrics for the conversation
// pipeline. Each instance carries its own registry so tests can construct
// metrics without colliding on the global one.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoldenRodger5/isaac-mineo-sub001/config"
)

// Metrics holds the pipeline's instruments.
type Metrics struct {
	enabled  bool
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	cacheHits         prometheus.Counter
	fallbacks         prometheus.Counter
	completionSeconds prometheus.Histogram
}

// NewMetrics builds and registers the pipeline instruments.
func NewMetrics(cfg config.TelemetryConfig) *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		enabled:  cfg.Enabled,
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat requests by terminal outcome",
		}, []string{"outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_response_cache_hits_total",
			Help: "Responses served from the response cache",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_retrieval_fallbacks_total",
			Help: "Requests answered with fallback knowledge after retrieval failure",
		}),
		completionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chat_completion_seconds",
			Help:    "Latency of completion model calls",
			Buckets: prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(m.requests, m.cacheHits, m.fallbacks, m.completionSeconds)
	return m
}

// Handler serves the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records a request's terminal outcome.
func (m *Metrics) ObserveRequest(outcome string) {
	if !m.enabled {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

// ObserveCacheHit records a response served from cache.
func (m *Metrics) ObserveCacheHit() {
	if !m.enabled {
		return
	}
	m.cacheHits.Inc()
}

// ObserveFallback records a retrieval failure answered with fallback text.
func (m *Metrics) ObserveFallback() {
	if !m.enabled {
		return
	}
	m.fallbacks.Inc()
}

// ObserveCompletion records the latency of a completion call.
func (m *Metrics) ObserveCompletion(d time.Duration) {
	if !m.enabled {
		return
	}
	m.completionSeconds.Observe(d.Seconds())
}
