package monitoring

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewTracer_Disabled(t *testing.T) {
	tracer, err := NewTracer(TracingConfig{ServiceName: "lon-tz"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, span := tracer.StartSpan(context.Background(), "zone.resolve")
	assert.False(t, span.SpanContext().IsValid())
	EndSpan(span, nil)

	assert.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNewTracer_Console(t *testing.T) {
	var buf bytes.Buffer
	tracer, err := NewTracer(TracingConfig{
		Enabled:       true,
		ServiceName:   "lon-tz",
		Environment:   "test",
		EnableConsole: true,
		SampleRate:    1.0,
		ConsoleWriter: &buf,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, span := tracer.StartSpan(context.Background(), "zone.resolve",
		attribute.String("zone.short_name", "East05"))
	assert.True(t, span.SpanContext().IsValid())
	EndSpan(span, assert.AnError)

	require.NoError(t, tracer.Shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "zone.resolve")
	assert.Contains(t, out, "East05")
}

func TestTracer_Middleware(t *testing.T) {
	tracer, err := NewTracer(TracingConfig{ServiceName: "lon-tz"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	var sawContext bool
	handler := tracer.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawContext = r.Context() != nil
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("x", 3)))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/zone", nil))
	assert.True(t, sawContext)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "xxx", w.Body.String())
}
