// Package logging provides structured logging helpers built on log/slog.
//
// It defines the Logger interface used throughout the application, an
// adapter for slog, and attribute helpers that keep log field names
// consistent across packages. Components log only at defined observation
// points (query issued, cache hit or miss, slots produced); the
// scheduling algorithm itself stays free of logging concerns.
package logging
