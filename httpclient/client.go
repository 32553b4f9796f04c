package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/logger"
	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/trace"
)

// client implements Client with a bounded retry loop. One logical request
// either returns a 2xx Response or a ClientError; no outcome is lost.
type client struct {
	config     *Config
	httpClient *nethttp.Client
	logger     logger.Logger
	jitter     JitterFunc
	// sleep is swapped out in tests to observe backoff decisions
	sleep func(ctx context.Context, d time.Duration) error
}

// Get performs a GET request with retry
func (c *client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, req)
}

// Post performs a POST request with retry
func (c *client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

// Put performs a PUT request with retry
func (c *client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, req)
}

// Delete performs a DELETE request with retry
func (c *client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Do executes one logical request. It issues attempts until one returns a
// 2xx status, a fatal status arrives, or the retry budget runs out. The
// zero-based attempt counter feeds the exponential backoff.
func (c *client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if req == nil {
		return nil, NewValidationError("request is nil", "request")
	}
	if req.URL == "" {
		return nil, NewValidationError("URL is empty", "url")
	}

	requestID := trace.EnsureRequestID(ctx)
	start := time.Now()

	attempt := 0
	for {
		resp, err := c.attempt(ctx, method, req, requestID)
		if err != nil {
			// Transport failure: connection refused, timeout, broken read.
			if attempt >= c.config.MaxRetries {
				return nil, NewTransportExhaustedError("request failed", err, attempt+1)
			}
			wait := computeBackoff(attempt, c.config.BaseBackoff, c.config.MaxBackoff)
			c.logRetry("network error", 0, attempt, wait, requestID)
			if serr := c.sleep(ctx, c.jitter(wait)); serr != nil {
				return nil, NewTransportExhaustedError("backoff interrupted", serr, attempt+1)
			}
			attempt++
			continue
		}

		if IsSuccessStatus(resp.StatusCode) {
			resp.Stats = Stats{ElapsedTime: time.Since(start), Attempts: attempt + 1}
			c.logResponse(resp, requestID)
			return resp, nil
		}

		if resp.StatusCode == nethttp.StatusTooManyRequests || resp.StatusCode == nethttp.StatusServiceUnavailable {
			// Prefer the server-provided hint over the computed backoff.
			wait := computeBackoff(attempt, c.config.BaseBackoff, c.config.MaxBackoff)
			if hint, ok := parseRetryAfter(resp.Headers.Get(HeaderRetryAfter)); ok {
				wait = hint
			}
			if attempt >= c.config.MaxRetries {
				return nil, NewStatusExhaustedError("rate limited or unavailable", resp.StatusCode, resp.Body, attempt+1)
			}
			c.logRetry("rate limited or unavailable", resp.StatusCode, attempt, wait, requestID)
			if serr := c.sleep(ctx, c.jitter(wait)); serr != nil {
				return nil, NewTransportExhaustedError("backoff interrupted", serr, attempt+1)
			}
			attempt++
			continue
		}

		if resp.StatusCode >= 500 {
			if attempt >= c.config.MaxRetries {
				return nil, NewStatusExhaustedError("server error", resp.StatusCode, resp.Body, attempt+1)
			}
			wait := computeBackoff(attempt, c.config.BaseBackoff, c.config.MaxBackoff)
			c.logRetry("server error", resp.StatusCode, attempt, wait, requestID)
			if serr := c.sleep(ctx, c.jitter(wait)); serr != nil {
				return nil, NewTransportExhaustedError("backoff interrupted", serr, attempt+1)
			}
			attempt++
			continue
		}

		// Anything else (4xx other than 429, unfollowed redirects): fail now.
		return nil, NewFatalStatusError("unexpected status", resp.StatusCode, resp.Body)
	}
}

// attempt issues a single HTTP call and reads the full response body.
// A non-nil error means a transport failure; any received status, success
// or not, comes back as a *Response for classification by the caller.
func (c *client) attempt(ctx context.Context, method string, req *Request, requestID string) (*Response, error) {
	if c.config.Limiter != nil {
		if err := c.config.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var bodyReader io.Reader = nethttp.NoBody
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	httpReq.Header.Set(HeaderXRequestID, requestID)

	c.logRequest(httpReq, req.Body, requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
