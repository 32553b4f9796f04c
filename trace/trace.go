// Package trace provides request-ID propagation for outbound HTTP calls.
// Every logical request gets a single X-Request-ID that is reused across all
// of its retry attempts, so server-side logs can be correlated with ours.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	requestIDKey contextKey = "request_id"

	// HeaderXRequestID is the header name used for request correlation
	HeaderXRequestID = "X-Request-ID"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns a request ID from context if present
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// EnsureRequestID returns an existing request ID from context or generates a new one
func EnsureRequestID(ctx context.Context) string {
	if id, ok := RequestIDFromContext(ctx); ok {
		return id
	}
	return uuid.New().String()
}
