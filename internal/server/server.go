// Package server exposes the solar zone resolver over HTTP.
// It handles the zone API, the tzfile table, health checks and metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/atlet99/lon-tz/internal/cache"
	"github.com/atlet99/lon-tz/internal/config"
	apperrors "github.com/atlet99/lon-tz/internal/errors"
	"github.com/atlet99/lon-tz/internal/monitoring"
	"github.com/atlet99/lon-tz/internal/version"
)

const (
	// only the rendered tzfile is cached
	responseCacheSize = 8

	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 30 * time.Second
)

// Server represents the main application server
type Server struct {
	*http.Server
	config      *config.Config
	logger      *slog.Logger
	metrics     *monitoring.Metrics
	tracer      *monitoring.Tracer
	rateLimiter *HTTPRateLimiter
	cache       *cache.MemoryCache[[]byte]
	errors      *apperrors.Handler
	now         func() time.Time
}

// New creates a server with its own Prometheus registry
func New(cfg *config.Config, logger *slog.Logger) *Server {
	return NewWithRegistry(cfg, logger, prometheus.NewRegistry())
}

// NewWithRegistry creates a server registering its metrics with registry
func NewWithRegistry(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) *Server {
	metrics := monitoring.NewMetrics(registry)

	tracer, err := monitoring.NewTracer(monitoring.TracingConfig{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		EnableConsole:  cfg.TracingConsole,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
		tracer, _ = monitoring.NewTracer(monitoring.TracingConfig{ServiceName: cfg.ServiceName}, logger)
	}

	s := &Server{
		config:  cfg,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		rateLimiter: NewHTTPRateLimiter(RateLimiterConfig{
			Rate:           float64(cfg.RateLimit),
			Burst:          cfg.RateBurst,
			TrustedProxies: cfg.TrustedProxies,
		}),
		cache:  cache.NewMemoryCache[[]byte](responseCacheSize),
		errors: apperrors.NewHandler(logger, metrics, cfg.LogLevel == "debug").WithRenderer(render),
		now:    time.Now,
	}

	s.Server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	return s
}

// routes builds the handler tree. API routes are rate limited, health and
// metrics are not.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	api := func(h http.HandlerFunc) http.Handler {
		return s.rateLimitMiddleware(s.onlyGet(h))
	}
	mux.Handle("/api/v1/zone", api(s.handleZone))
	mux.Handle("/api/v1/zone/parse", api(s.handleParse))
	mux.Handle("/api/v1/tzfile", api(s.handleTZFile))

	mux.Handle("/health", s.onlyGet(s.handleHealth))
	if s.config.MetricsEnabled {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	mux.HandleFunc("/", s.handleNotFound)

	route := func(r *http.Request) string {
		if _, pattern := mux.Handler(r); pattern != "" && pattern != "/" {
			return pattern
		}
		return monitoring.UnmatchedRoute
	}

	return chain(mux,
		requestIDMiddleware,
		s.errors.RecoveryMiddleware,
		s.tracer.Middleware(route),
		s.metrics.Middleware(route),
	)
}

// Start listens on the configured port until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "port", s.config.Port)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, then flushes traces and stops the cache
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Server.Shutdown(ctx)

	if tracerErr := s.tracer.Shutdown(ctx); tracerErr != nil {
		s.logger.Error("Failed to shut down tracer", "error", tracerErr)
	}
	s.cache.Close()

	return err
}
