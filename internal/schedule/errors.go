package schedule

import "errors"

// Error taxonomy for the scheduling engine. Every failure is surfaced to
// the caller; there are no retries and no fallback data, because a
// fabricated "free" slot could double-book a real calendar.
var (
	// ErrUpstreamFetch marks a failed busy-window query (network, auth,
	// malformed response).
	ErrUpstreamFetch = errors.New("upstream free/busy fetch failed")

	// ErrComputation marks invalid input to the slot synthesis itself,
	// such as an unknown time zone or an inverted time range.
	ErrComputation = errors.New("slot computation failed")
)
