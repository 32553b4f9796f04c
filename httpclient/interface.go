// Package httpclient implements the resilient request executor: outbound
// HTTP calls with outcome classification, exponential backoff with full
// jitter, Retry-After handling, and a bounded retry budget.
package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/trace"
)

// HeaderXRequestID is the header name used for request correlation
const HeaderXRequestID = trace.HeaderXRequestID

// HeaderRetryAfter carries the server's wait hint on 429/503 responses
const HeaderRetryAfter = "Retry-After"

// Client defines the REST client interface for making HTTP requests
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Request represents a single logical HTTP request. The executor may issue
// it several times; headers and body are reused verbatim per attempt.
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response represents a successful (2xx) HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics
type Stats struct {
	// ElapsedTime covers the whole logical request including backoff sleeps
	ElapsedTime time.Duration
	// Attempts is the total number of HTTP calls issued, 1 when no retry occurred
	Attempts int
}

// JitterFunc draws the actual sleep duration from [0, max]
type JitterFunc func(max time.Duration) time.Duration

// Config holds the executor configuration
type Config struct {
	// Timeout bounds each individual attempt, not the logical request
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt; 0 means
	// a single attempt with no retry
	MaxRetries int
	// BaseBackoff is the starting exponential backoff delay
	BaseBackoff time.Duration
	// MaxBackoff caps the computed backoff. Retry-After hints are NOT capped;
	// the server knows its own recovery time better than our configuration.
	MaxBackoff time.Duration
	// DefaultHeaders are merged into every request (static credentials)
	DefaultHeaders map[string]string
	// Limiter, when set, paces individual attempts; nil disables pacing
	Limiter *rate.Limiter
	// Jitter defaults to full jitter over [0, wait]
	Jitter JitterFunc
	// LogPayloads enables debug-level logging of headers and body payloads
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when LogPayloads is enabled
	MaxPayloadLogBytes int
}

// WithRequestID adds a request ID to the context for header propagation
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return trace.WithRequestID(ctx, requestID)
}

// RequestIDFromContext returns a request ID from context if present
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return trace.RequestIDFromContext(ctx)
}
