package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the console's Prometheus metrics on a private registry.
type Collector struct {
	registry        *prometheus.Registry
	payoutsCreated  prometheus.Counter
	payoutsExecuted prometheus.Counter
	payoutFailures  prometheus.Counter
	upstreamLatency *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
}

// NewCollector creates a collector with all console metrics registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		payoutsCreated: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "payout_requests_created_total",
			Help: "Total number of payout requests created",
		}),
		payoutsExecuted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "payout_requests_executed_total",
			Help: "Total number of payout requests executed",
		}),
		payoutFailures: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "payout_failures_total",
			Help: "Total number of failed payout creations and executions",
		}),
		upstreamLatency: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mural_api_request_duration_seconds",
			Help:    "Duration of requests to the Mural Pay API",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
		activeSessions: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "console_active_sessions",
			Help: "Number of live console sessions",
		}),
	}
}

// RecordPayoutCreated counts a successful payout creation.
func (c *Collector) RecordPayoutCreated() {
	c.payoutsCreated.Inc()
}

// RecordPayoutExecuted counts a successful payout execution.
func (c *Collector) RecordPayoutExecuted() {
	c.payoutsExecuted.Inc()
}

// RecordPayoutFailure counts a failed payout creation or execution.
func (c *Collector) RecordPayoutFailure() {
	c.payoutFailures.Inc()
}

// ObserveUpstreamRequest records the duration of one Mural Pay API call.
// Status 0 means the request never completed.
func (c *Collector) ObserveUpstreamRequest(method, path string, status int, duration time.Duration) {
	c.upstreamLatency.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// SetActiveSessions updates the live-session gauge.
func (c *Collector) SetActiveSessions(n int) {
	c.activeSessions.Set(float64(n))
}

// Handler exposes the registry for the /metrics route.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
