package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/bookable/internal/calendar"
)

func newBookCmd() *cobra.Command {
	var (
		account       string
		calendarID    string
		start         string
		end           string
		timeZone      string
		summary       string
		description   string
		attendeeEmail string
		attendeeName  string
		sendUpdates   string
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a meeting with a Google Meet link",
		Long: `Create a calendar event for the given slot, attach a Google Meet
conference and invite the attendee. Google emails the invitation
according to --send-updates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			startT, err := parseRFC3339("start", start)
			if err != nil {
				return err
			}
			endT, err := parseRFC3339("end", end)
			if err != nil {
				return err
			}

			ctx := context.Background()
			client, err := newCalendarClient(ctx, account, calendarID)
			if err != nil {
				return err
			}

			event, err := client.CreateEventWithMeet(ctx, calendar.MeetEventInput{
				Start:         startT,
				End:           endT,
				TimeZone:      timeZone,
				Summary:       summary,
				Description:   description,
				AttendeeEmail: attendeeEmail,
				AttendeeName:  attendeeName,
				SendUpdates:   sendUpdates,
			})
			if err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}

			fmt.Printf("Event created: %s\n", event.EventID)
			fmt.Printf("Calendar link: %s\n", event.HTMLLink)
			if event.MeetURL != "" {
				fmt.Printf("Meet link: %s\n", event.MeetURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&calendarID, "calendar", "", "Calendar ID to create the event on (default: BOOKABLE_CALENDAR_ID or 'primary')")
	cmd.Flags().StringVar(&start, "start", "", "Event start (RFC3339, required)")
	cmd.Flags().StringVar(&end, "end", "", "Event end (RFC3339, required)")
	cmd.Flags().StringVar(&timeZone, "time-zone", "", "IANA time zone of the event (default: UTC)")
	cmd.Flags().StringVar(&summary, "summary", "", "Event title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	cmd.Flags().StringVar(&attendeeEmail, "attendee-email", "", "Email address of the attendee to invite (required)")
	cmd.Flags().StringVar(&attendeeName, "attendee-name", "", "Display name of the attendee")
	cmd.Flags().StringVar(&sendUpdates, "send-updates", "", "Attendee notification policy: all, externalOnly or none (default: all)")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("attendee-email")
	return cmd
}
