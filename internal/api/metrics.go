package api

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/matzehuels/swisspair/pkg/observability"
)

// Metrics exports pairing, cache and HTTP events to Prometheus. Register it
// with the observability package to receive events from the engines.
type Metrics struct {
	registry *prometheus.Registry

	pairings        *prometheus.CounterVec
	pairingDuration *prometheus.HistogramVec
	bracketSize     *prometheus.HistogramVec
	candidates      *prometheus.HistogramVec
	cacheEvents     *prometheus.CounterVec
	cacheBytes      prometheus.Counter
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pairings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swisspair",
			Name:      "pairings_total",
			Help:      "Rounds generated, by system and outcome.",
		}, []string{"system", "outcome"}),
		pairingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swisspair",
			Name:      "pairing_duration_seconds",
			Help:      "Time to generate a round.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"system"}),
		bracketSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swisspair",
			Name:      "bracket_size",
			Help:      "Players per Swiss bracket.",
			Buckets:   prometheus.LinearBuckets(2, 4, 10),
		}, []string{"kind"}),
		candidates: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swisspair",
			Name:      "bracket_candidates",
			Help:      "Arrangements examined per Swiss bracket.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"kind"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swisspair",
			Name:      "cache_events_total",
			Help:      "Cache lookups and stores, by key type and event.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swisspair",
			Name:      "cache_stored_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swisspair",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swisspair",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swisspair",
			Name:      "http_requests_in_flight",
			Help:      "Requests being served.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.pairings, m.pairingDuration, m.bracketSize, m.candidates,
		m.cacheEvents, m.cacheBytes,
		m.requests, m.requestDuration, m.inFlight,
	)
	return m
}

// Registry returns the registry served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Install registers m as the process-wide pairing, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetPairingHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnPairStart(context.Context, string, int) {}

func (m *Metrics) OnPairComplete(_ context.Context, system string, _ int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.pairings.WithLabelValues(system, outcome).Inc()
	m.pairingDuration.WithLabelValues(system).Observe(d.Seconds())
}

func (m *Metrics) OnBracket(_ context.Context, kind string, size, candidates int) {
	m.bracketSize.WithLabelValues(kind).Observe(float64(size))
	m.candidates.WithLabelValues(kind).Observe(float64(candidates))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PairingHooks = (*Metrics)(nil)
	_ observability.CacheHooks   = (*Metrics)(nil)
	_ observability.HTTPHooks    = (*Metrics)(nil)
)
