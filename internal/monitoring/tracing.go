package monitoring

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const httpErrorThreshold = 400

// TracingConfig holds configuration for tracing
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	EnableConsole  bool
	SampleRate     float64

	// ConsoleWriter receives console spans, os.Stdout when nil
	ConsoleWriter io.Writer
}

// Tracer provides distributed tracing. A disabled Tracer hands out no-op spans.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	logger   *slog.Logger
}

// NewTracer creates a tracer. When config.Enabled is false no exporter is
// created and every span is a no-op.
func NewTracer(config TracingConfig, logger *slog.Logger) (*Tracer, error) {
	if !config.Enabled {
		return &Tracer{
			tracer: noop.NewTracerProvider().Tracer(config.ServiceName),
			logger: logger,
		}, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			semconv.DeploymentEnvironment(config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporters []sdktrace.SpanExporter

	if config.OTLPEndpoint != "" {
		otlpExporter, err := otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpoint(config.OTLPEndpoint),
		)
		if err != nil {
			logger.Warn("Failed to create OTLP exporter", "error", err)
		} else {
			exporters = append(exporters, otlpExporter)
		}
	}

	if config.EnableConsole || len(exporters) == 0 {
		writer := config.ConsoleWriter
		if writer == nil {
			writer = os.Stdout
		}
		consoleExporter, err := stdouttrace.New(stdouttrace.WithWriter(writer))
		if err != nil {
			return nil, fmt.Errorf("failed to create console exporter: %w", err)
		}
		exporters = append(exporters, consoleExporter)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRate))),
	}
	for _, exporter := range exporters {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	provider := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.Info("Tracing enabled",
		"service", config.ServiceName,
		"exporters", len(exporters),
		"sample_rate", config.SampleRate)

	return &Tracer{
		tracer:   provider.Tracer(config.ServiceName),
		provider: provider,
		logger:   logger,
	}, nil
}

// StartSpan starts a new span
func (t *Tracer) StartSpan(ctx context.Context, name string,
	attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan sets the span status from err and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Shutdown flushes pending spans and stops the exporters
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider != nil {
		return t.provider.Shutdown(ctx)
	}
	return nil
}

// Middleware wraps every request in a server span named after its route,
// continuing any trace context found in the request headers. A nil route
// uses PatternRoute.
func (t *Tracer) Middleware(route RouteFunc) func(http.Handler) http.Handler {
	if route == nil {
		route = PatternRoute
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(),
				propagation.HeaderCarrier(r.Header))

			endpoint := route(r)
			ctx, span := t.tracer.Start(ctx, r.Method+" "+endpoint,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.route", endpoint),
					attribute.String("http.url", r.URL.String()),
					attribute.String("http.user_agent", r.UserAgent()),
				))
			defer span.End()

			rw := NewResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.status_code", rw.StatusCode))
			if rw.StatusCode >= httpErrorThreshold {
				span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", rw.StatusCode))
			}
		})
	}
}
