package logger

import (
	"time"

	"github.com/rs/zerolog"
)

// logEventAdapter adapts zerolog events to the LogEvent interface, running
// string and interface fields through the sensitive-data filter.
type logEventAdapter struct {
	event  *zerolog.Event
	filter *SensitiveDataFilter
}

func (a *logEventAdapter) Msg(msg string) {
	a.event.Msg(msg)
}

func (a *logEventAdapter) Msgf(format string, args ...any) {
	a.event.Msgf(format, args...)
}

func (a *logEventAdapter) Err(err error) LogEvent {
	return &logEventAdapter{event: a.event.Err(err), filter: a.filter}
}

func (a *logEventAdapter) Str(key, value string) LogEvent {
	if a.filter != nil {
		value = a.filter.FilterString(key, value)
	}
	return &logEventAdapter{event: a.event.Str(key, value), filter: a.filter}
}

func (a *logEventAdapter) Int(key string, value int) LogEvent {
	return &logEventAdapter{event: a.event.Int(key, value), filter: a.filter}
}

func (a *logEventAdapter) Int64(key string, value int64) LogEvent {
	return &logEventAdapter{event: a.event.Int64(key, value), filter: a.filter}
}

func (a *logEventAdapter) Float64(key string, value float64) LogEvent {
	return &logEventAdapter{event: a.event.Float64(key, value), filter: a.filter}
}

func (a *logEventAdapter) Dur(key string, d time.Duration) LogEvent {
	return &logEventAdapter{event: a.event.Dur(key, d), filter: a.filter}
}

func (a *logEventAdapter) Interface(key string, i any) LogEvent {
	if a.filter != nil {
		i = a.filter.FilterValue(key, i)
	}
	return &logEventAdapter{event: a.event.Interface(key, i), filter: a.filter}
}

func (a *logEventAdapter) Bytes(key string, val []byte) LogEvent {
	return &logEventAdapter{event: a.event.Bytes(key, val), filter: a.filter}
}
