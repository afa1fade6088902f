package logging

import (
	"io"
	"log/slog"
)

// Logger is the canonical interface for structured logging throughout
// the application. It provides a simple, level-based logging API
// compatible with slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter adapts an slog.Logger to the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter wrapping the given
// slog.Logger. If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug logs a debug message with alternating key-value pairs.
func (a *SlogAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

// Info logs an info message with alternating key-value pairs.
func (a *SlogAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

// Warn logs a warning message with alternating key-value pairs.
func (a *SlogAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

// Error logs an error message with alternating key-value pairs.
func (a *SlogAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}

// Logger returns the underlying slog.Logger for direct access.
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}

// DefaultLogger returns a Logger using the default slog.Logger.
func DefaultLogger() *SlogAdapter {
	return NewSlogAdapter(slog.Default())
}

// Discard returns a Logger that drops everything. Useful as a default
// for components whose caller did not inject a logger, and in tests.
func Discard() *SlogAdapter {
	return NewSlogAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
