package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records gateway traffic and poller activity.
type ClientMetrics struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	backendUp  prometheus.Gauge
	pollerRuns *prometheus.CounterVec
}

// NewClientMetrics registers the client metrics on the provided registerer.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_requests_total",
		Help: "Backend API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "Backend API request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	backendUp := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "backend_up",
		Help: "Whether the last backend health probe succeeded.",
	})
	pollerRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poller_runs_total",
		Help: "Poller executions by name and outcome.",
	}, []string{"poller", "outcome"})
	reg.MustRegister(requests, duration, backendUp, pollerRuns)
	return &ClientMetrics{
		requests:   requests,
		duration:   duration,
		backendUp:  backendUp,
		pollerRuns: pollerRuns,
	}
}

// ObserveRequest records one backend call.
func (c *ClientMetrics) ObserveRequest(endpoint, outcome string, elapsed time.Duration) {
	if c == nil || c.requests == nil {
		return
	}
	c.requests.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(outcome)).Inc()
	c.duration.WithLabelValues(normalizeLabel(endpoint)).Observe(elapsed.Seconds())
}

// SetBackendUp publishes the reachability flag.
func (c *ClientMetrics) SetBackendUp(up bool) {
	if c == nil || c.backendUp == nil {
		return
	}
	if up {
		c.backendUp.Set(1)
		return
	}
	c.backendUp.Set(0)
}

// IncPollerRun counts one poller execution.
func (c *ClientMetrics) IncPollerRun(poller string, success bool) {
	if c == nil || c.pollerRuns == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	c.pollerRuns.WithLabelValues(normalizeLabel(poller), outcome).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
