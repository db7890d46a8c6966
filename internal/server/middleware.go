package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/atlet99/lon-tz/internal/errors"
)

type requestIDKey struct{}

// maxRequestIDLength bounds client supplied request IDs
const maxRequestIDLength = 128

// requestIDMiddleware keeps a sane client supplied X-Request-ID or assigns a
// new UUID, echoes it in the response and stores it in the request context
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(apperrors.RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
			r.Header.Set(apperrors.RequestIDHeader, requestID)
		}

		w.Header().Set(apperrors.RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request ID assigned by the server
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}

// chain applies middlewares so the first one listed runs first
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
