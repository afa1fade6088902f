// Package cache provides an in-memory TTL cache used to avoid redundant
// upstream calendar queries.
//
// The cache is a plain process-scoped map with lazy expiry. It holds two
// classes of derived data with different lifetimes: raw busy-window query
// results, which change slowly, and synthesized free-slot lists, which
// must refresh quickly to reflect new bookings. The TTLs themselves are
// owned by the callers; this package only stores and expires entries.
//
// Keys are derived with Key from a request kind and its parameters, so
// repeated calls with equivalent parameters reuse the same entry.
package cache
