package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"time"
)

// RequestIDHeader carries the request ID set by the server middleware
const RequestIDHeader = "X-Request-ID"

// Recorder counts error responses by code
type Recorder interface {
	RecordError(code string)
}

// RenderFunc writes body with the given status, choosing an encoding from the request
type RenderFunc func(w http.ResponseWriter, r *http.Request, status int, body interface{}) error

// Handler provides centralized error handling and response formatting
type Handler struct {
	logger   *slog.Logger
	recorder Recorder
	render   RenderFunc
	debug    bool
}

// NewHandler creates a new error handler. recorder may be nil.
func NewHandler(logger *slog.Logger, recorder Recorder, debug bool) *Handler {
	return &Handler{
		logger:   logger,
		recorder: recorder,
		render:   renderJSON,
		debug:    debug,
	}
}

// WithRenderer replaces the default JSON encoding of error bodies
func (h *Handler) WithRenderer(render RenderFunc) *Handler {
	h.render = render
	return h
}

// HandleError responds to err with the matching HTTP status and error body
func (h *Handler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := h.enhanceWithRequestContext(FromError(err), r)

	h.logError(r.Context(), serviceErr, r)

	if h.recorder != nil {
		h.recorder.RecordError(string(serviceErr.Code))
	}

	if serviceErr.RetryAfter != nil {
		w.Header().Set("Retry-After", formatRetryAfter(*serviceErr.RetryAfter))
	}

	if err := h.render(w, r, serviceErr.HTTPStatusCode(), serviceErr.ToErrorResponse()); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}

// enhanceWithRequestContext adds request-specific context to ServiceError
func (h *Handler) enhanceWithRequestContext(serviceErr *ServiceError, r *http.Request) *ServiceError {
	if serviceErr.Context == nil {
		serviceErr.Context = make(map[string]interface{})
	}

	serviceErr.Context["request_method"] = r.Method
	serviceErr.Context["request_path"] = r.URL.Path
	if r.URL.RawQuery != "" {
		serviceErr.Context["request_query"] = r.URL.RawQuery
	}

	if requestID := r.Header.Get(RequestIDHeader); requestID != "" {
		serviceErr.RequestID = requestID
	}

	if h.debug && serviceErr.Code == ErrCodeInternalError {
		serviceErr.Context["stack_trace"] = getStackTrace()
	}

	return serviceErr
}

// logError logs the error at a level matching its severity
func (h *Handler) logError(ctx context.Context, serviceErr *ServiceError, r *http.Request) {
	attrs := []slog.Attr{
		slog.String("error_code", string(serviceErr.Code)),
		slog.String("error_category", string(serviceErr.Category)),
		slog.String("error_severity", string(serviceErr.Severity)),
		slog.String("error_message", serviceErr.Message),
		slog.String("request_method", r.Method),
		slog.String("request_path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
		slog.Int("http_status", serviceErr.HTTPStatusCode()),
		slog.Bool("client_error", serviceErr.IsClientError()),
		slog.Bool("retryable", serviceErr.IsRetryable()),
	}

	if serviceErr.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", serviceErr.RequestID))
	}
	if serviceErr.Details != "" {
		attrs = append(attrs, slog.String("error_details", serviceErr.Details))
	}
	if serviceErr.Cause != nil {
		attrs = append(attrs, slog.String("underlying_error", serviceErr.Cause.Error()))
	}

	switch serviceErr.Severity {
	case SeverityHigh:
		h.logger.LogAttrs(ctx, slog.LevelError, "Request failed", attrs...)
	case SeverityMedium:
		h.logger.LogAttrs(ctx, slog.LevelWarn, "Request rejected", attrs...)
	default:
		h.logger.LogAttrs(ctx, slog.LevelInfo, "Request rejected", attrs...)
	}
}

// RecoveryMiddleware turns panics in next into INTERNAL_ERROR responses
func (h *Handler) RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.HandleError(w, r, NewError(ErrCodeInternalError).
					WithMessage("Panic occurred during request processing").
					WithDetails(formatPanic(rec)).
					Build())
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func renderJSON(w http.ResponseWriter, _ *http.Request, status int, body interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// getStackTrace captures stack trace for debugging
func getStackTrace() string {
	const stackTraceBufferSize = 4096
	buf := make([]byte, stackTraceBufferSize)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// formatPanic formats panic information for logging
func formatPanic(rec interface{}) string {
	switch v := rec.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatRetryAfter formats a duration as whole seconds, minimum 1
func formatRetryAfter(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
