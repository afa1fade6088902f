package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/teemow/bookable/internal/calendar"
	"github.com/teemow/bookable/internal/logging"
	"github.com/teemow/bookable/internal/schedule"
)

// newCalendarClient builds a calendar client for the given account and
// calendar, using the stored OAuth token.
func newCalendarClient(ctx context.Context, account, calendarID string) (*calendar.Client, error) {
	client, err := calendar.NewClient(ctx, calendar.Config{
		Account:    account,
		CalendarID: calendarID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client for account %s: %w", account, err)
	}
	return client, nil
}

// newScheduler wraps a calendar client in a scheduler with stderr
// logging, keeping stdout clean for command output.
func newScheduler(client *calendar.Client) (*schedule.Scheduler, error) {
	logger := logging.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))
	return schedule.New(schedule.Config{
		Source: client,
		Logger: logger,
	})
}

func parseRFC3339(name, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s value %q: expected RFC3339 format, e.g. 2025-03-10T00:00:00Z", name, value)
	}
	return t, nil
}
