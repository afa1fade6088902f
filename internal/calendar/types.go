package calendar

import (
	"os"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// DefaultSendUpdates is applied when MeetEventInput.SendUpdates is
// empty: all attendees are notified.
const DefaultSendUpdates = "all"

// TimeRange represents a half-open time range reported by the calendar
// as occupied.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MeetEventInput is the input for creating a calendar event with an
// attached Google Meet conference.
type MeetEventInput struct {
	Start       time.Time
	End         time.Time
	TimeZone    string
	Summary     string
	Description string

	AttendeeEmail string
	AttendeeName  string

	// SendUpdates controls attendee notifications: "all", "externalOnly"
	// or "none". Defaults to DefaultSendUpdates.
	SendUpdates string
}

// MeetEvent describes a created event. It is returned once and not
// tracked further.
type MeetEvent struct {
	EventID  string `json:"eventId"`
	HTMLLink string `json:"htmlLink"`
	MeetURL  string `json:"meetUrl"`
}

// DefaultCalendarID returns the target calendar id from the
// BOOKABLE_CALENDAR_ID environment variable, falling back to the
// "primary" calendar alias.
func DefaultCalendarID() string {
	if id := os.Getenv("BOOKABLE_CALENDAR_ID"); id != "" {
		return id
	}
	return "primary"
}

// meetURL extracts the Meet link from a created event: the structured
// "video" entry point when present, otherwise the legacy hangout link.
func meetURL(event *calendar.Event) string {
	if event == nil {
		return ""
	}
	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				return ep.Uri
			}
		}
	}
	return event.HangoutLink
}
