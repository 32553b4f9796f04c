package httpclient

import (
	nethttp "net/http"
	"strconv"
	"time"
)

const defaultMaxPayloadLogBytes = 1024

// logRequest writes the outbound request summary at info level, plus a
// debug-level payload preview when payload logging is enabled.
func (c *client) logRequest(req *nethttp.Request, body []byte, requestID string) {
	event := c.logger.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID)

	if len(req.Header) > 0 {
		event = event.Int("header_count", len(req.Header))
	}
	if len(body) > 0 {
		event = event.Int("body_size", len(body))
	}
	event.Msg("REST client request")

	if !c.config.LogPayloads {
		return
	}

	preview, truncated := c.payloadPreview(body)
	c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Interface("headers", headerMap(req.Header)).
		Int("body_size", len(body)).
		Str("body_truncated", strconv.FormatBool(truncated)).
		Bytes("body_preview", preview).
		Msg("REST client request")
}

// logResponse writes the inbound response summary for a completed logical request.
func (c *client) logResponse(resp *Response, requestID string) {
	event := c.logger.Info().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int("attempts", resp.Stats.Attempts).
		Str("request_id", requestID)

	if len(resp.Body) > 0 {
		event = event.Int("body_size", len(resp.Body))
	}
	event.Msg("REST client response")

	if !c.config.LogPayloads {
		return
	}

	preview, truncated := c.payloadPreview(resp.Body)
	c.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Interface("headers", headerMap(resp.Headers)).
		Int("body_size", len(resp.Body)).
		Str("body_truncated", strconv.FormatBool(truncated)).
		Bytes("body_preview", preview).
		Msg("REST client response")
}

// logRetry emits the single human-readable progress line per retry attempt.
// status is 0 for transport failures.
func (c *client) logRetry(reason string, status, attempt int, wait time.Duration, requestID string) {
	event := c.logger.Warn().
		Str("reason", reason).
		Int("attempt", attempt+1).
		Int("max_retries", c.config.MaxRetries).
		Dur("wait", wait).
		Str("request_id", requestID)

	if status > 0 {
		event = event.Int("status", status)
	}
	event.Msg("REST client retry")
}

// payloadPreview returns at most MaxPayloadLogBytes of body and whether it was cut.
func (c *client) payloadPreview(body []byte) (preview []byte, truncated bool) {
	limit := c.config.MaxPayloadLogBytes
	if limit <= 0 {
		limit = defaultMaxPayloadLogBytes
	}
	if len(body) > limit {
		return body[:limit], true
	}
	return body, false
}

// headerMap flattens headers for structured logging; the logger's sensitive
// data filter masks credential values by key.
func headerMap(h nethttp.Header) map[string]string {
	m := make(map[string]string, len(h))
	for key := range h {
		m[key] = h.Get(key)
	}
	return m
}
