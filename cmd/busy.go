package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/bookable/internal/schedule"
)

func newBusyCmd() *cobra.Command {
	var (
		account    string
		calendarID string
		timeMin    string
		timeMax    string
		timeZone   string
	)

	cmd := &cobra.Command{
		Use:   "busy",
		Short: "List busy windows on the calendar",
		Long: `Query the calendar's free/busy data and print the merged busy windows
between --time-min and --time-max. Ranges longer than 30 days are
clamped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			timeMinT, err := parseRFC3339("time-min", timeMin)
			if err != nil {
				return err
			}
			timeMaxT, err := parseRFC3339("time-max", timeMax)
			if err != nil {
				return err
			}

			ctx := context.Background()
			client, err := newCalendarClient(ctx, account, calendarID)
			if err != nil {
				return err
			}
			scheduler, err := newScheduler(client)
			if err != nil {
				return err
			}

			busy, err := scheduler.BusyWindows(ctx, schedule.BusyRequest{
				TimeMin:  timeMinT,
				TimeMax:  timeMaxT,
				TimeZone: timeZone,
			})
			if err != nil {
				return fmt.Errorf("failed to query busy windows: %w", err)
			}

			if len(busy) == 0 {
				fmt.Println("No busy windows in the requested range.")
				return nil
			}
			for _, window := range busy {
				fmt.Printf("%s - %s\n", window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&calendarID, "calendar", "", "Calendar ID to query (default: BOOKABLE_CALENDAR_ID or 'primary')")
	cmd.Flags().StringVar(&timeMin, "time-min", "", "Start of the range (RFC3339, required)")
	cmd.Flags().StringVar(&timeMax, "time-max", "", "End of the range (RFC3339, required)")
	cmd.Flags().StringVar(&timeZone, "time-zone", "", "IANA time zone (default: UTC)")

	_ = cmd.MarkFlagRequired("time-min")
	_ = cmd.MarkFlagRequired("time-max")
	return cmd
}
