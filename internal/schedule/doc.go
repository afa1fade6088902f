// Package schedule implements the free/busy scheduling engine.
//
// Given busy intervals from a calendar's free/busy API, the Scheduler
// merges overlapping and abutting intervals, subtracts them from
// configurable workday windows across the requested date range, and
// expands the remaining free time into fixed-duration candidate slots
// aligned to the half-hour grid, with a buffer kept around adjacent
// busy time and a per-day distribution quota under a global cap.
//
// A TTL cache sits in front of both the raw busy-window queries and the
// derived slot lists; slot lists expire faster because their validity
// is more sensitive to recent bookings. Failures always propagate:
// availability data is never fabricated.
package schedule
