package httpclient

import (
	"errors"
	"fmt"
)

// ErrorType identifies the terminal classification of a failed logical request
type ErrorType int

const (
	// TransportExhausted: a transport failure (dial, timeout, read) on the
	// final allowed attempt
	TransportExhausted ErrorType = iota
	// StatusExhausted: a retryable status (429/503/5xx) on the final allowed attempt
	StatusExhausted
	// FatalStatus: any other non-2xx status; never retried
	FatalStatus
	// ValidationError: the request could not be issued at all
	ValidationError
)

// String returns the human-readable name of the error type
func (t ErrorType) String() string {
	switch t {
	case TransportExhausted:
		return "transport_exhausted"
	case StatusExhausted:
		return "status_exhausted"
	case FatalStatus:
		return "fatal_status"
	case ValidationError:
		return "validation"
	default:
		return "unknown"
	}
}

// ClientError is the error contract surfaced by the executor. Callers
// pattern-match on Type() (or errors.As) instead of string inspection;
// nothing above this layer retries.
type ClientError interface {
	error
	Type() ErrorType
}

// transportError is a transport failure surfaced after the retry budget ran out
type transportError struct {
	message  string
	err      error
	attempts int
}

func (e *transportError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("transport error after %d attempts: %s: %v", e.attempts, e.message, e.err)
	}
	return fmt.Sprintf("transport error after %d attempts: %s", e.attempts, e.message)
}

func (e *transportError) Type() ErrorType { return TransportExhausted }

func (e *transportError) Unwrap() error { return e.err }

// Attempts returns the total number of HTTP calls issued
func (e *transportError) Attempts() int { return e.attempts }

// statusError is a non-2xx terminal outcome, either a retryable status that
// exhausted the budget or a status that is fatal on first sight
type statusError struct {
	kind       ErrorType
	message    string
	statusCode int
	body       []byte
	attempts   int
}

func (e *statusError) Error() string {
	if e.kind == StatusExhausted {
		return fmt.Sprintf("HTTP error %d after %d attempts: %s", e.statusCode, e.attempts, e.message)
	}
	return fmt.Sprintf("HTTP error %d: %s", e.statusCode, e.message)
}

func (e *statusError) Type() ErrorType { return e.kind }

// StatusCode returns the HTTP status of the final attempt
func (e *statusError) StatusCode() int { return e.statusCode }

// Body returns the response body of the final attempt
func (e *statusError) Body() []byte { return e.body }

// Attempts returns the total number of HTTP calls issued
func (e *statusError) Attempts() int { return e.attempts }

// validationError reports a request the executor refused to issue
type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error on %s: %s", e.field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType { return ValidationError }

// NewTransportExhaustedError creates a TransportExhausted error wrapping the
// underlying transport failure
func NewTransportExhaustedError(message string, err error, attempts int) ClientError {
	return &transportError{message: message, err: err, attempts: attempts}
}

// NewStatusExhaustedError creates a StatusExhausted error carrying the final
// status code and body
func NewStatusExhaustedError(message string, statusCode int, body []byte, attempts int) ClientError {
	return &statusError{kind: StatusExhausted, message: message, statusCode: statusCode, body: body, attempts: attempts}
}

// NewFatalStatusError creates a FatalStatus error carrying the status code and body
func NewFatalStatusError(message string, statusCode int, body []byte) ClientError {
	return &statusError{kind: FatalStatus, message: message, statusCode: statusCode, body: body, attempts: 1}
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(message, field string) ClientError {
	return &validationError{message: message, field: field}
}

// IsErrorType reports whether err is a ClientError of the given type
func IsErrorType(err error, errorType ErrorType) bool {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsHTTPStatusError reports whether err carries the given HTTP status code
func IsHTTPStatusError(err error, statusCode int) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.statusCode == statusCode
	}
	return false
}

// ErrorStatusCode returns the HTTP status carried by err, if any
func ErrorStatusCode(err error) (int, bool) {
	var se *statusError
	if errors.As(err, &se) {
		return se.statusCode, true
	}
	return 0, false
}

// IsSuccessStatus reports whether statusCode is in the 2xx range
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
