// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
// for the zone service.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lon_tz"

// Resolution sources
const (
	SourceLongitude = "longitude"
	SourceName      = "name"
)

// Resolution results
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// UnmatchedRoute labels requests that matched no registered route
const UnmatchedRoute = "other"

// RouteFunc names the route a request is served by. Its result is used as a
// label value, so it must come from a fixed set.
type RouteFunc func(r *http.Request) string

// PatternRoute labels a request by the mux pattern that matched it
func PatternRoute(r *http.Request) string {
	if r.Pattern == "" {
		return UnmatchedRoute
	}
	return r.Pattern
}

// Metrics collects service metrics in its own registry
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Zone metrics
	resolutionsTotal    *prometheus.CounterVec
	polarOverridesTotal *prometheus.CounterVec
	errorsTotal         *prometheus.CounterVec

	// Cache metrics
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	// Rate limiting metrics
	rateLimitBlocks *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them with registry.
// A nil registry gets a fresh one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{registry: registry}
	m.initHTTPMetrics()
	m.initZoneMetrics()
	m.initCacheMetrics()
	m.initRateLimitMetrics()

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpRequestsInFlight,
		m.resolutionsTotal,
		m.polarOverridesTotal,
		m.errorsTotal,
		m.cacheHitsTotal,
		m.cacheMissesTotal,
		m.rateLimitBlocks,
	)

	return m
}

func (m *Metrics) initHTTPMetrics() {
	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	m.httpRequestsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
		[]string{"endpoint"},
	)
}

func (m *Metrics) initZoneMetrics() {
	m.resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_resolutions_total",
			Help:      "Total number of zone resolutions",
		},
		[]string{"scheme", "source", "result"},
	)

	m.polarOverridesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_polar_overrides_total",
			Help:      "Resolutions forced to UTC by the polar latitude band",
		},
		[]string{"scheme"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of errors returned, by error code",
		},
		[]string{"code"},
	)
}

func (m *Metrics) initCacheMetrics() {
	m.cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache"},
	)

	m.cacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache"},
	)
}

func (m *Metrics) initRateLimitMetrics() {
	m.rateLimitBlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_blocks_total",
			Help:      "Total number of requests blocked by rate limiting",
		},
		[]string{"endpoint"},
	)
}

// RecordHTTPRequest records a completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordResolution records one zone resolution. source is SourceLongitude
// or SourceName, result is ResultOK or ResultError.
func (m *Metrics) RecordResolution(scheme, source, result string) {
	m.resolutionsTotal.WithLabelValues(scheme, source, result).Inc()
}

// RecordPolarOverride records a resolution inside the polar band
func (m *Metrics) RecordPolarOverride(scheme string) {
	m.polarOverridesTotal.WithLabelValues(scheme).Inc()
}

// RecordError records an error response by code
func (m *Metrics) RecordError(code string) {
	m.errorsTotal.WithLabelValues(code).Inc()
}

// RecordCacheHit records a cache hit
func (m *Metrics) RecordCacheHit(cache string) {
	m.cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss
func (m *Metrics) RecordCacheMiss(cache string) {
	m.cacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordRateLimitBlock records a request rejected by the rate limiter
func (m *Metrics) RecordRateLimitBlock(endpoint string) {
	m.rateLimitBlocks.WithLabelValues(endpoint).Inc()
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, duration and in-flight requests labeled
// by route. A nil route uses PatternRoute.
func (m *Metrics) Middleware(route RouteFunc) func(http.Handler) http.Handler {
	if route == nil {
		route = PatternRoute
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			endpoint := route(r)

			inFlight := m.httpRequestsInFlight.WithLabelValues(endpoint)
			inFlight.Inc()
			defer inFlight.Dec()

			rw := NewResponseWriter(w)
			next.ServeHTTP(rw, r)

			m.RecordHTTPRequest(r.Method, endpoint, rw.StatusCode, time.Since(start))
		})
	}
}
