// Package metrics implements the observability hooks with Prometheus.
//
// A [Metrics] value registers its collectors on the registerer it is created
// with and satisfies [observability.MiningHooks], [observability.CacheHooks]
// and [observability.HTTPHooks]. The API server exposes the collected values
// on /metrics.
//
// All metric operations are safe for concurrent use.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/fpminer/pkg/observability"
)

const namespace = "fpminer"

// Metrics holds the Prometheus collectors for mining, caching and the API.
type Metrics struct {
	// RunsTotal counts mining runs. Labels: status (success, error)
	RunsTotal *prometheus.CounterVec

	// RunDurationSeconds measures whole runs, from loading to the final attempt.
	RunDurationSeconds prometheus.Histogram

	// AttemptsTotal counts passes of the adaptive loop.
	AttemptsTotal prometheus.Counter

	// ItemSets observes the number of itemsets of successful runs.
	ItemSets prometheus.Histogram

	// CacheOpsTotal counts cache operations. Labels: key_type, op (hit, miss, set)
	CacheOpsTotal *prometheus.CounterVec

	// RequestsTotal counts API responses. Labels: method, route, status
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures API latency. Labels: method, route
	RequestDurationSeconds *prometheus.HistogramVec

	// InFlight tracks requests being served.
	InFlight prometheus.Gauge
}

// New creates the collectors and registers them on reg.
// It panics if they are already registered there.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "runs_total",
			Help:      "Total number of mining runs by status",
		}, []string{"status"}),
		RunDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "run_duration_seconds",
			Help:      "Duration of mining runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 120},
		}),
		AttemptsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "attempts_total",
			Help:      "Total number of adaptive loop attempts",
		}),
		ItemSets: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "itemsets",
			Help:      "Number of itemsets returned per run",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		CacheOpsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Total cache operations by key type and outcome",
		}, []string{"key_type", "op"}),
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total API requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		RequestDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of API requests being served",
		}),
	}
}

// Register installs m as the global mining, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetMiningHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// OnMineStart implements observability.MiningHooks.
func (m *Metrics) OnMineStart(context.Context, string) {}

// OnAttempt implements observability.MiningHooks.
func (m *Metrics) OnAttempt(context.Context, int, float64, int, time.Duration) {
	m.AttemptsTotal.Inc()
}

// OnMineComplete implements observability.MiningHooks.
func (m *Metrics) OnMineComplete(_ context.Context, _ string, itemsets int, d time.Duration, err error) {
	m.RunDurationSeconds.Observe(d.Seconds())
	if err != nil {
		m.RunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.RunsTotal.WithLabelValues("success").Inc()
	m.ItemSets.Observe(float64(itemsets))
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {
	m.InFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.InFlight.Dec()
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDurationSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.MiningHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
