package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/bookable/internal/google"
	"github.com/teemow/bookable/internal/instrumentation"
)

// ErrEventCreation marks failures of the event-insert call. The caller
// must not assume an event was partially created.
var ErrEventCreation = errors.New("event creation failed")

// Free/busy expansion caps bound the upstream response size.
const (
	freeBusyGroupExpansionMax    = 100
	freeBusyCalendarExpansionMax = 50
)

// Config configures a calendar Client.
type Config struct {
	// Account selects the stored OAuth token. Defaults to "default".
	Account string

	// CalendarID is the target calendar. Defaults to DefaultCalendarID().
	CalendarID string

	// TokenProvider supplies OAuth tokens. Defaults to the file-based
	// provider.
	TokenProvider google.TokenProvider

	// Metrics records event creation outcomes. No-op when nil.
	Metrics *instrumentation.Metrics
}

// Client wraps the Google Calendar service for a single target calendar.
type Client struct {
	svc           *calendar.Service
	account       string
	calendarID    string
	tokenProvider google.TokenProvider
	metrics       *instrumentation.Metrics
}

// NewClient creates a new Calendar client with OAuth2 authentication.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Account == "" {
		cfg.Account = "default"
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = DefaultCalendarID()
	}
	if cfg.TokenProvider == nil {
		cfg.TokenProvider = google.NewFileTokenProvider()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &instrumentation.Metrics{}
	}

	token, err := cfg.TokenProvider.GetTokenForAccount(ctx, cfg.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", cfg.Account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)
	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:           svc,
		account:       cfg.Account,
		calendarID:    cfg.CalendarID,
		tokenProvider: cfg.TokenProvider,
		metrics:       cfg.Metrics,
	}, nil
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// CalendarID returns the target calendar id.
func (c *Client) CalendarID() string {
	return c.calendarID
}

// QueryBusy queries the free/busy API for the target calendar and
// returns the busy ranges within [timeMin, timeMax]. Failures surface
// as errors; no synthetic availability is ever substituted, since a
// fabricated "free" answer could double-book a real calendar.
func (c *Client) QueryBusy(ctx context.Context, timeMin, timeMax time.Time, timeZone string) ([]TimeRange, error) {
	query := &calendar.FreeBusyRequest{
		TimeMin:              timeMin.Format(time.RFC3339),
		TimeMax:              timeMax.Format(time.RFC3339),
		TimeZone:             timeZone,
		Items:                []*calendar.FreeBusyRequestItem{{Id: c.calendarID}},
		GroupExpansionMax:    freeBusyGroupExpansionMax,
		CalendarExpansionMax: freeBusyCalendarExpansionMax,
	}

	result, err := c.svc.Freebusy.Query(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	cal, ok := result.Calendars[c.calendarID]
	if !ok {
		return nil, fmt.Errorf("freebusy response is missing calendar %s", c.calendarID)
	}
	for _, calErr := range cal.Errors {
		return nil, fmt.Errorf("freebusy query reported %s for calendar %s", calErr.Reason, c.calendarID)
	}

	busy := make([]TimeRange, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("malformed busy period start %q: %w", period.Start, err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("malformed busy period end %q: %w", period.End, err)
		}
		busy = append(busy, TimeRange{Start: start, End: end})
	}

	return busy, nil
}

// CreateEventWithMeet creates an event on the target calendar with a
// Google Meet conference attached and the given attendee invited.
// Creation is not idempotent and is never cached or deduplicated.
func (c *Client) CreateEventWithMeet(ctx context.Context, input MeetEventInput) (*MeetEvent, error) {
	// Make sure a fresh token exists before issuing the insert, so the
	// call does not fail halfway through an expired-credential retry.
	if _, err := c.tokenProvider.GetTokenForAccount(ctx, c.account); err != nil {
		return nil, fmt.Errorf("%w: refreshing credentials: %v", ErrEventCreation, err)
	}

	if input.TimeZone == "" {
		input.TimeZone = "UTC"
	}
	sendUpdates := input.SendUpdates
	if sendUpdates == "" {
		sendUpdates = DefaultSendUpdates
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
		Attendees: []*calendar.EventAttendee{
			{
				Email:       input.AttendeeEmail,
				DisplayName: input.AttendeeName,
			},
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: "meet-" + uuid.NewString(),
			},
		},
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).
		ConferenceDataVersion(1).
		SendUpdates(sendUpdates).
		Context(ctx).
		Do()
	c.metrics.RecordEventCreation(ctx, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventCreation, err)
	}

	return &MeetEvent{
		EventID:  created.Id,
		HTMLLink: created.HtmlLink,
		MeetURL:  meetURL(created),
	}, nil
}
