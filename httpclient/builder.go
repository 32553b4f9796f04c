package httpclient

import (
	nethttp "net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/logger"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 8
	defaultBaseBackoff = 1 * time.Second
	defaultMaxBackoff  = 60 * time.Second
)

// Builder assembles a Client from configuration options
type Builder struct {
	config *Config
	logger logger.Logger
}

// NewBuilder creates a Builder with the default retry policy
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		logger: log,
		config: &Config{
			Timeout:            defaultTimeout,
			MaxRetries:         defaultMaxRetries,
			BaseBackoff:        defaultBaseBackoff,
			MaxBackoff:         defaultMaxBackoff,
			MaxPayloadLogBytes: defaultMaxPayloadLogBytes,
		},
	}
}

// WithTimeout sets the per-attempt timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetryPolicy sets the retry budget and backoff bounds
func (b *Builder) WithRetryPolicy(maxRetries int, baseBackoff, maxBackoff time.Duration) *Builder {
	b.config.MaxRetries = maxRetries
	b.config.BaseBackoff = baseBackoff
	b.config.MaxBackoff = maxBackoff
	return b
}

// WithDefaultHeaders sets headers attached to every request
func (b *Builder) WithDefaultHeaders(headers map[string]string) *Builder {
	b.config.DefaultHeaders = headers
	return b
}

// WithRateLimit paces attempts at rps requests per second with the given
// burst. rps <= 0 disables pacing.
func (b *Builder) WithRateLimit(rps float64, burst int) *Builder {
	if rps <= 0 {
		b.config.Limiter = nil
		return b
	}
	if burst < 1 {
		burst = 1
	}
	b.config.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return b
}

// WithPayloadLogging enables debug-level payload previews capped at maxBytes
func (b *Builder) WithPayloadLogging(enabled bool, maxBytes int) *Builder {
	b.config.LogPayloads = enabled
	if maxBytes > 0 {
		b.config.MaxPayloadLogBytes = maxBytes
	}
	return b
}

// WithJitter overrides the jitter source; tests use this to pin determinism
func (b *Builder) WithJitter(jitter JitterFunc) *Builder {
	b.config.Jitter = jitter
	return b
}

// Build creates the Client
func (b *Builder) Build() Client {
	jitter := b.config.Jitter
	if jitter == nil {
		jitter = fullJitter
	}
	return &client{
		config:     b.config,
		httpClient: &nethttp.Client{Timeout: b.config.Timeout},
		logger:     b.logger,
		jitter:     jitter,
		sleep:      sleepContext,
	}
}
