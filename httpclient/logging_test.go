package httpclient

import (
	"context"
	"maps"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/logger"
)

const (
	testRestClientRequest  = "REST client request"
	testRestClientResponse = "REST client response"
	testRestClientRetry    = "REST client retry"
)

// fakeLogEvent implements logger.LogEvent for testing
type fakeLogEvent struct {
	logger  *fakeLogger
	level   string
	fields  map[string]any
	message string
}

func (e *fakeLogEvent) Msg(msg string) {
	e.message = msg
	e.logger.events = append(e.logger.events, loggedEvent{
		level:   e.level,
		fields:  maps.Clone(e.fields),
		message: msg,
	})
}

func (e *fakeLogEvent) Msgf(format string, _ ...any) {
	e.Msg(format)
}

func (e *fakeLogEvent) Err(err error) logger.LogEvent {
	e.fields["error"] = err
	return e
}

func (e *fakeLogEvent) Str(key, value string) logger.LogEvent {
	e.fields[key] = value
	return e
}

func (e *fakeLogEvent) Int(key string, value int) logger.LogEvent {
	e.fields[key] = value
	return e
}

func (e *fakeLogEvent) Int64(key string, value int64) logger.LogEvent {
	e.fields[key] = value
	return e
}

func (e *fakeLogEvent) Float64(key string, value float64) logger.LogEvent {
	e.fields[key] = value
	return e
}

func (e *fakeLogEvent) Dur(key string, d time.Duration) logger.LogEvent {
	e.fields[key] = d
	return e
}

func (e *fakeLogEvent) Interface(key string, i any) logger.LogEvent {
	e.fields[key] = i
	return e
}

func (e *fakeLogEvent) Bytes(key string, val []byte) logger.LogEvent {
	e.fields[key] = val
	return e
}

// fakeLogger implements logger.Logger for testing
type fakeLogger struct {
	events []loggedEvent
}

type loggedEvent struct {
	level   string
	fields  map[string]any
	message string
}

func (l *fakeLogger) newEvent(level string) logger.LogEvent {
	return &fakeLogEvent{logger: l, level: level, fields: make(map[string]any)}
}

func (l *fakeLogger) Info() logger.LogEvent  { return l.newEvent("info") }
func (l *fakeLogger) Error() logger.LogEvent { return l.newEvent("error") }
func (l *fakeLogger) Debug() logger.LogEvent { return l.newEvent("debug") }
func (l *fakeLogger) Warn() logger.LogEvent  { return l.newEvent("warn") }
func (l *fakeLogger) Fatal() logger.LogEvent { return l.newEvent("fatal") }

func (l *fakeLogger) WithFields(_ map[string]any) logger.Logger {
	return l
}

func (l *fakeLogger) eventsByLevel(level string) []loggedEvent {
	var events []loggedEvent
	for _, event := range l.events {
		if event.level == level {
			events = append(events, event)
		}
	}
	return events
}

func TestClientLogRequest(t *testing.T) {
	t.Run("basic request logging", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{
				LogPayloads:        false,
				MaxPayloadLogBytes: 1024,
			},
		}

		req, err := http.NewRequestWithContext(context.Background(), "PUT", "https://forum.example.com/admin/users/42/deactivate.json", http.NoBody)
		assert.NoError(t, err)
		req.Header.Set("Api-Key", "secret")
		req.Header.Set("Accept", "application/json")

		body := []byte(`{}`)
		c.logRequest(req, body, "req-123")

		infoEvents := fakeLog.eventsByLevel("info")
		assert.Len(t, infoEvents, 1)

		infoEvent := infoEvents[0]
		assert.Equal(t, testRestClientRequest, infoEvent.message)
		assert.Equal(t, "outbound", infoEvent.fields["direction"])
		assert.Equal(t, "PUT", infoEvent.fields["method"])
		assert.Equal(t, "https://forum.example.com/admin/users/42/deactivate.json", infoEvent.fields["url"])
		assert.Equal(t, "req-123", infoEvent.fields["request_id"])
		assert.Equal(t, 2, infoEvent.fields["header_count"])
		assert.Equal(t, len(body), infoEvent.fields["body_size"])

		assert.Len(t, fakeLog.eventsByLevel("debug"), 0)
	})

	t.Run("request with empty body", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{LogPayloads: false},
		}

		req, err := http.NewRequestWithContext(context.Background(), "GET", "https://forum.example.com/admin/users/list/active.json?page=0", http.NoBody)
		assert.NoError(t, err)

		c.logRequest(req, nil, "req-456")

		infoEvents := fakeLog.eventsByLevel("info")
		assert.Len(t, infoEvents, 1)

		infoEvent := infoEvents[0]
		assert.Equal(t, "GET", infoEvent.fields["method"])
		_, hasBodySize := infoEvent.fields["body_size"]
		assert.False(t, hasBodySize)
		_, hasHeaderCount := infoEvent.fields["header_count"]
		assert.False(t, hasHeaderCount)
	})

	t.Run("request with payload logging enabled", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{
				LogPayloads:        true,
				MaxPayloadLogBytes: 50,
			},
		}

		req, err := http.NewRequestWithContext(context.Background(), "PUT", "https://forum.example.com/admin/users/7/deactivate.json", http.NoBody)
		assert.NoError(t, err)

		body := []byte(`{"context": "retention sweep"}`)
		c.logRequest(req, body, "req-789")

		assert.Len(t, fakeLog.eventsByLevel("info"), 1)

		debugEvents := fakeLog.eventsByLevel("debug")
		assert.Len(t, debugEvents, 1)

		debugEvent := debugEvents[0]
		assert.Equal(t, testRestClientRequest, debugEvent.message)
		assert.NotNil(t, debugEvent.fields["headers"])
		assert.Equal(t, len(body), debugEvent.fields["body_size"])
		assert.Equal(t, "false", debugEvent.fields["body_truncated"])
		assert.Equal(t, body, debugEvent.fields["body_preview"])
	})

	t.Run("request with large body truncation", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{
				LogPayloads:        true,
				MaxPayloadLogBytes: 10,
			},
		}

		req, err := http.NewRequestWithContext(context.Background(), "POST", "https://forum.example.com/admin/users.json", http.NoBody)
		assert.NoError(t, err)

		largeBody := []byte("this body is longer than the configured preview limit")
		c.logRequest(req, largeBody, "req-truncate")

		debugEvents := fakeLog.eventsByLevel("debug")
		assert.Len(t, debugEvents, 1)

		debugEvent := debugEvents[0]
		assert.Equal(t, len(largeBody), debugEvent.fields["body_size"])
		assert.Equal(t, "true", debugEvent.fields["body_truncated"])
		assert.Equal(t, largeBody[:10], debugEvent.fields["body_preview"])
	})

	t.Run("zero MaxPayloadLogBytes uses default", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{
				LogPayloads:        true,
				MaxPayloadLogBytes: 0,
			},
		}

		req, err := http.NewRequestWithContext(context.Background(), "POST", "https://forum.example.com/admin/users.json", http.NoBody)
		assert.NoError(t, err)

		largeBody := make([]byte, 1500)
		for i := range largeBody {
			largeBody[i] = byte('A' + (i % 26))
		}

		c.logRequest(req, largeBody, "req-default")

		debugEvents := fakeLog.eventsByLevel("debug")
		assert.Len(t, debugEvents, 1)

		debugEvent := debugEvents[0]
		assert.Equal(t, "true", debugEvent.fields["body_truncated"])
		assert.Equal(t, largeBody[:1024], debugEvent.fields["body_preview"])
	})
}

func TestClientLogResponse(t *testing.T) {
	t.Run("basic response logging", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{LogPayloads: false},
		}

		response := &Response{
			StatusCode: 200,
			Body:       []byte(`[{"id": 1}]`),
			Headers:    http.Header{"Content-Type": []string{"application/json"}},
			Stats: Stats{
				ElapsedTime: 250 * time.Millisecond,
				Attempts:    3,
			},
		}

		c.logResponse(response, "req-resp-123")

		infoEvents := fakeLog.eventsByLevel("info")
		assert.Len(t, infoEvents, 1)

		infoEvent := infoEvents[0]
		assert.Equal(t, testRestClientResponse, infoEvent.message)
		assert.Equal(t, "inbound", infoEvent.fields["direction"])
		assert.Equal(t, 200, infoEvent.fields["status"])
		assert.Equal(t, 250*time.Millisecond, infoEvent.fields["elapsed"])
		assert.Equal(t, 3, infoEvent.fields["attempts"])
		assert.Equal(t, "req-resp-123", infoEvent.fields["request_id"])
		assert.Equal(t, len(response.Body), infoEvent.fields["body_size"])

		assert.Len(t, fakeLog.eventsByLevel("debug"), 0)
	})

	t.Run("response with empty body", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{LogPayloads: false},
		}

		response := &Response{
			StatusCode: 204,
			Headers:    http.Header{},
			Stats:      Stats{ElapsedTime: 100 * time.Millisecond, Attempts: 1},
		}

		c.logResponse(response, "req-empty")

		infoEvents := fakeLog.eventsByLevel("info")
		assert.Len(t, infoEvents, 1)

		_, hasBodySize := infoEvents[0].fields["body_size"]
		assert.False(t, hasBodySize)
	})

	t.Run("response with payload logging enabled", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{
				LogPayloads:        true,
				MaxPayloadLogBytes: 100,
			},
		}

		response := &Response{
			StatusCode: 200,
			Body:       []byte(`{"success": "OK"}`),
			Headers:    http.Header{"X-Rate-Limit": []string{"100"}},
			Stats:      Stats{ElapsedTime: 300 * time.Millisecond, Attempts: 1},
		}

		c.logResponse(response, "req-debug")

		assert.Len(t, fakeLog.eventsByLevel("info"), 1)

		debugEvents := fakeLog.eventsByLevel("debug")
		assert.Len(t, debugEvents, 1)

		debugEvent := debugEvents[0]
		assert.Equal(t, testRestClientResponse, debugEvent.message)
		assert.NotNil(t, debugEvent.fields["headers"])
		assert.Equal(t, "false", debugEvent.fields["body_truncated"])
		assert.Equal(t, response.Body, debugEvent.fields["body_preview"])
	})
}

func TestClientLogRetry(t *testing.T) {
	t.Run("status retry includes code", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{MaxRetries: 8},
		}

		c.logRetry("rate limited or unavailable", 429, 2, 4*time.Second, "req-retry")

		warnEvents := fakeLog.eventsByLevel("warn")
		assert.Len(t, warnEvents, 1)

		warnEvent := warnEvents[0]
		assert.Equal(t, testRestClientRetry, warnEvent.message)
		assert.Equal(t, "rate limited or unavailable", warnEvent.fields["reason"])
		assert.Equal(t, 3, warnEvent.fields["attempt"])
		assert.Equal(t, 8, warnEvent.fields["max_retries"])
		assert.Equal(t, 4*time.Second, warnEvent.fields["wait"])
		assert.Equal(t, 429, warnEvent.fields["status"])
		assert.Equal(t, "req-retry", warnEvent.fields["request_id"])
	})

	t.Run("transport retry omits status", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		c := &client{
			logger: fakeLog,
			config: &Config{MaxRetries: 8},
		}

		c.logRetry("network error", 0, 0, time.Second, "req-net")

		warnEvents := fakeLog.eventsByLevel("warn")
		assert.Len(t, warnEvents, 1)

		warnEvent := warnEvents[0]
		assert.Equal(t, 1, warnEvent.fields["attempt"])
		_, hasStatus := warnEvent.fields["status"]
		assert.False(t, hasStatus)
	})
}
