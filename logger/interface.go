// Package logger defines the structured logging contract used throughout the
// tool and provides a zerolog-backed implementation of it.
package logger

import "time"

// Logger is the leveled, structured logging contract. Every component takes a
// Logger rather than a concrete zerolog instance so tests can capture events.
type Logger interface {
	Info() LogEvent
	Error() LogEvent
	Debug() LogEvent
	Warn() LogEvent
	Fatal() LogEvent
	WithFields(fields map[string]any) Logger
}

// LogEvent is a single log entry under construction. Field methods return the
// event for chaining; Msg/Msgf send it.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Float64(key string, value float64) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Interface(key string, i any) LogEvent
	Bytes(key string, val []byte) LogEvent
}
