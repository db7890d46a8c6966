// Package errors provides structured error types and handling utilities
// for the lon-tz service.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/atlet99/lon-tz/internal/solar"
	"github.com/atlet99/lon-tz/internal/timezone"
)

// ErrorCode represents a specific error condition
type ErrorCode string

// Error codes for different types of failures
const (
	// Client errors (4xx)
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"

	// Zone resolution errors (4xx)
	ErrCodeOutOfRange   ErrorCode = "OUT_OF_RANGE"
	ErrCodeInvalidName  ErrorCode = "INVALID_NAME"
	ErrCodeMissingInput ErrorCode = "MISSING_INPUT"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorCategory represents the type of error for handling strategy
type ErrorCategory string

const (
	// CategoryClientError represents user/client mistakes (4xx HTTP errors)
	CategoryClientError ErrorCategory = "CLIENT_ERROR"
	// CategoryValidationError represents rejected coordinates or zone names
	CategoryValidationError ErrorCategory = "VALIDATION_ERROR"
	// CategoryRateLimitError represents rate limiting errors
	CategoryRateLimitError ErrorCategory = "RATE_LIMIT_ERROR"
	// CategoryServerError represents our system errors (5xx HTTP errors)
	CategoryServerError ErrorCategory = "SERVER_ERROR"
)

// Severity levels for error classification
type Severity string

const (
	// SeverityLow represents rejected input, nothing wrong with the service
	SeverityLow Severity = "LOW"
	// SeverityMedium represents throttled or misused requests
	SeverityMedium Severity = "MEDIUM"
	// SeverityHigh represents failures of the service itself
	SeverityHigh Severity = "HIGH"
)

// ServiceError represents a structured error with context
type ServiceError struct {
	Code        ErrorCode              `json:"code"`
	Category    ErrorCategory          `json:"category"`
	Severity    Severity               `json:"severity"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Cause       error                  `json:"-"`
	Timestamp   time.Time              `json:"timestamp"`
	RequestID   string                 `json:"request_id,omitempty"`
	UserMessage string                 `json:"user_message,omitempty"`
	RetryAfter  *time.Duration         `json:"retry_after,omitempty"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with wrapped errors
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the same request may succeed later.
// Rejected coordinates and names never do.
func (e *ServiceError) IsRetryable() bool {
	return e.Category == CategoryRateLimitError || e.Category == CategoryServerError
}

// IsClientError returns true if the error is caused by client
func (e *ServiceError) IsClientError() bool {
	return e.Category == CategoryClientError || e.Category == CategoryValidationError
}

// HTTPStatusCode returns the appropriate HTTP status code for the error
func (e *ServiceError) HTTPStatusCode() int {
	switch e.Code {
	case ErrCodeInvalidRequest, ErrCodeOutOfRange, ErrCodeInvalidName, ErrCodeMissingInput:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBuilder helps construct ServiceError instances
type ErrorBuilder struct {
	error *ServiceError
}

// NewError creates a new ErrorBuilder
func NewError(code ErrorCode) *ErrorBuilder {
	return &ErrorBuilder{
		error: &ServiceError{
			Code:      code,
			Timestamp: time.Now(),
			Context:   make(map[string]interface{}),
		},
	}
}

// WithCategory sets the error category
func (b *ErrorBuilder) WithCategory(category ErrorCategory) *ErrorBuilder {
	b.error.Category = category
	return b
}

// WithSeverity sets the error severity
func (b *ErrorBuilder) WithSeverity(severity Severity) *ErrorBuilder {
	b.error.Severity = severity
	return b
}

// WithMessage sets the error message
func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	b.error.Message = message
	return b
}

// WithDetails sets additional error details
func (b *ErrorBuilder) WithDetails(details string) *ErrorBuilder {
	b.error.Details = details
	return b
}

// WithCause sets the underlying cause
func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	b.error.Cause = cause
	return b
}

// WithContext adds context information
func (b *ErrorBuilder) WithContext(key string, value interface{}) *ErrorBuilder {
	if b.error.Context == nil {
		b.error.Context = make(map[string]interface{})
	}
	b.error.Context[key] = value
	return b
}

// WithRequestID sets the request ID for tracing
func (b *ErrorBuilder) WithRequestID(requestID string) *ErrorBuilder {
	b.error.RequestID = requestID
	return b
}

// WithUserMessage sets a user-friendly message
func (b *ErrorBuilder) WithUserMessage(message string) *ErrorBuilder {
	b.error.UserMessage = message
	return b
}

// WithRetryAfter sets retry-after duration for rate limiting
func (b *ErrorBuilder) WithRetryAfter(duration time.Duration) *ErrorBuilder {
	b.error.RetryAfter = &duration
	return b
}

// Build returns the constructed ServiceError
func (b *ErrorBuilder) Build() *ServiceError {
	if b.error.Category == "" {
		b.error.Category = getDefaultCategory(b.error.Code)
	}
	if b.error.Severity == "" {
		b.error.Severity = getDefaultSeverity(b.error.Code)
	}
	return b.error
}

// FromError converts any error to a ServiceError. Zone resolution errors keep
// their meaning; anything unrecognized becomes an internal error.
func FromError(err error) *ServiceError {
	var serviceErr *ServiceError
	if stderrors.As(err, &serviceErr) {
		return serviceErr
	}

	var code ErrorCode
	switch {
	case stderrors.Is(err, solar.ErrOutOfRange):
		code = ErrCodeOutOfRange
	case stderrors.Is(err, solar.ErrInvalidName):
		code = ErrCodeInvalidName
	case stderrors.Is(err, solar.ErrMissingInput):
		code = ErrCodeMissingInput
	case stderrors.Is(err, solar.ErrInvalidScheme), stderrors.Is(err, solar.ErrUnknownField),
		stderrors.Is(err, timezone.ErrInvalidTime):
		code = ErrCodeInvalidRequest
	default:
		return NewError(ErrCodeInternalError).
			WithMessage("Internal server error").
			WithCause(err).
			Build()
	}

	return NewError(code).
		WithMessage(err.Error()).
		WithCause(err).
		Build()
}

// ErrorResponse is the body of API error responses
type ErrorResponse struct {
	Error       ErrorCode              `json:"error" yaml:"error"`
	Message     string                 `json:"message" yaml:"message"`
	Details     string                 `json:"details,omitempty" yaml:"details,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty" yaml:"context,omitempty"`
	Timestamp   time.Time              `json:"timestamp" yaml:"timestamp"`
	RequestID   string                 `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	RetryAfter  *int                   `json:"retry_after_seconds,omitempty" yaml:"retry_after_seconds,omitempty"`
	UserMessage string                 `json:"user_message,omitempty" yaml:"user_message,omitempty"`
}

// ToErrorResponse converts ServiceError to ErrorResponse for API responses
func (e *ServiceError) ToErrorResponse() *ErrorResponse {
	resp := &ErrorResponse{
		Error:     e.Code,
		Message:   e.Message,
		Details:   e.Details,
		Context:   e.Context,
		Timestamp: e.Timestamp,
		RequestID: e.RequestID,
	}

	if e.UserMessage != "" {
		resp.UserMessage = e.UserMessage
	} else {
		resp.UserMessage = getUserFriendlyMessage(e.Code)
	}

	if e.RetryAfter != nil {
		seconds := int(e.RetryAfter.Seconds())
		resp.RetryAfter = &seconds
	}

	return resp
}

// MarshalJSON implements json.Marshaler for structured logging
func (e *ServiceError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToErrorResponse())
}

// getDefaultCategory returns default category for error code
func getDefaultCategory(code ErrorCode) ErrorCategory {
	switch code {
	case ErrCodeOutOfRange, ErrCodeInvalidName, ErrCodeMissingInput:
		return CategoryValidationError
	case ErrCodeInvalidRequest, ErrCodeNotFound, ErrCodeMethodNotAllowed:
		return CategoryClientError
	case ErrCodeRateLimited:
		return CategoryRateLimitError
	default:
		return CategoryServerError
	}
}

// getDefaultSeverity returns default severity for error code
func getDefaultSeverity(code ErrorCode) Severity {
	switch code {
	case ErrCodeOutOfRange, ErrCodeInvalidName, ErrCodeMissingInput,
		ErrCodeInvalidRequest, ErrCodeNotFound:
		return SeverityLow
	case ErrCodeRateLimited, ErrCodeMethodNotAllowed:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// getUserFriendlyMessage returns user-friendly error messages
func getUserFriendlyMessage(code ErrorCode) string {
	switch code {
	case ErrCodeOutOfRange:
		return "Longitude must be within -180 to +180 and latitude within -90 to +90."
	case ErrCodeInvalidName:
		return "Time zone names look like East05, West12 or Lon123W."
	case ErrCodeMissingInput:
		return "Provide either a longitude or a time zone name."
	case ErrCodeInvalidRequest:
		return "The request contains invalid data. Please check your input and try again."
	case ErrCodeNotFound:
		return "The requested resource was not found."
	case ErrCodeMethodNotAllowed:
		return "This endpoint does not support the request method."
	case ErrCodeRateLimited:
		return "Too many requests. Please wait and try again later."
	default:
		return "An unexpected error occurred. Please try again or contact support."
	}
}
