package schedule

import (
	"fmt"
	"time"
)

// Defaults for SlotRequest fields left at their zero value.
const (
	DefaultMinBufferMinutes = 5
	DefaultDayStartHour     = 9
	DefaultDayEndHour       = 18
	DefaultMaxCandidates    = 30
	DefaultTimeZone         = "UTC"
)

// BusyRequest describes a busy-window query.
type BusyRequest struct {
	// TimeMin and TimeMax bound the query window. The window is clamped
	// to at most 30 days from TimeMin before hitting the upstream API.
	TimeMin time.Time
	TimeMax time.Time

	// TimeZone is the IANA zone name the results are interpreted in.
	// Defaults to UTC.
	TimeZone string
}

// SlotRequest describes a free-slot synthesis. Zero values for the
// option fields select the documented defaults.
type SlotRequest struct {
	// TimeMin and TimeMax bound the overall search window.
	TimeMin time.Time
	TimeMax time.Time

	// TimeZone is the IANA zone the workday hours are evaluated in.
	// Defaults to UTC.
	TimeZone string

	// DurationMinutes is the exact length of every emitted slot.
	// Required.
	DurationMinutes int

	// MinBufferMinutes is the required gap between a slot and adjacent
	// busy time. Defaults to 5.
	MinBufferMinutes int

	// DayStartHour and DayEndHour bound the workday in the requested
	// zone. Default to 9 and 18.
	DayStartHour int
	DayEndHour   int

	// MaxCandidates caps the total number of slots across all days.
	// Defaults to 30.
	MaxCandidates int
}

// withDefaults fills zero-valued option fields.
func (r SlotRequest) withDefaults() SlotRequest {
	if r.TimeZone == "" {
		r.TimeZone = DefaultTimeZone
	}
	if r.MinBufferMinutes == 0 {
		r.MinBufferMinutes = DefaultMinBufferMinutes
	}
	if r.DayStartHour == 0 {
		r.DayStartHour = DefaultDayStartHour
	}
	if r.DayEndHour == 0 {
		r.DayEndHour = DefaultDayEndHour
	}
	if r.MaxCandidates == 0 {
		r.MaxCandidates = DefaultMaxCandidates
	}
	return r
}

// validate rejects requests no slot set can be computed for. Called
// after withDefaults.
func (r SlotRequest) validate() error {
	if r.TimeMin.IsZero() || r.TimeMax.IsZero() {
		return fmt.Errorf("time window is required")
	}
	if r.TimeMax.Before(r.TimeMin) {
		return fmt.Errorf("timeMax %s precedes timeMin %s", r.TimeMax.Format(time.RFC3339), r.TimeMin.Format(time.RFC3339))
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("durationMinutes must be positive, got %d", r.DurationMinutes)
	}
	if r.MinBufferMinutes < 0 {
		return fmt.Errorf("minBufferMinutes must not be negative, got %d", r.MinBufferMinutes)
	}
	if r.DayStartHour < 0 || r.DayEndHour > 24 || r.DayStartHour >= r.DayEndHour {
		return fmt.Errorf("invalid workday bounds [%d, %d]", r.DayStartHour, r.DayEndHour)
	}
	if r.MaxCandidates < 0 {
		return fmt.Errorf("maxCandidates must not be negative, got %d", r.MaxCandidates)
	}
	return nil
}

// Slot is a candidate meeting slot. Its duration equals the requested
// meeting duration exactly, and it is immutable once returned.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
