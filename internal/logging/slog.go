package logging

import (
	"log/slog"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyService   = "service"
	KeyCalendar  = "calendar"
	KeyTimeZone  = "time_zone"
	KeyCacheKey  = "cache_key"
	KeyStatus    = "status"
	KeyError     = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithService returns a logger with the service attribute set.
func WithService(logger *slog.Logger, service string) *slog.Logger {
	return logger.With(slog.String(KeyService, service))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Calendar returns a slog attribute for the calendar id.
func Calendar(id string) slog.Attr {
	return slog.String(KeyCalendar, id)
}

// TimeZone returns a slog attribute for an IANA time zone name.
func TimeZone(tz string) slog.Attr {
	return slog.String(KeyTimeZone, tz)
}

// CacheKey returns a slog attribute for a cache key.
func CacheKey(key string) slog.Attr {
	return slog.String(KeyCacheKey, key)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that slog omits from
// output, so Err(maybeNilErr) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}
