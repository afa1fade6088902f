// Package calendar provides a client for the Google Calendar API,
// scoped to a single target calendar.
//
// It covers the two upstream operations the application needs: querying
// free/busy data over a time range, and inserting an event with an
// attached Google Meet conference. Anything the upstream call fails on
// is surfaced as an error; this package never falls back to fabricated
// availability or a mock event.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx, calendar.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	busy, err := client.QueryBusy(ctx, time.Now(), time.Now().AddDate(0, 0, 7), "UTC")
package calendar
