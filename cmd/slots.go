package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/bookable/internal/schedule"
)

func newSlotsCmd() *cobra.Command {
	var (
		account       string
		calendarID    string
		timeMin       string
		timeMax       string
		timeZone      string
		duration      int
		buffer        int
		dayStart      int
		dayEnd        int
		maxCandidates int
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Find bookable meeting slots",
		Long: `Compute free meeting slots on the calendar between --time-min and
--time-max. Busy events and a buffer around them are avoided, slots are
aligned to the half-hour grid and spread across the workdays in the
range.`,
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

			slots, err := scheduler.FreeSlots(ctx, schedule.SlotRequest{
				TimeMin:          timeMinT,
				TimeMax:          timeMaxT,
				TimeZone:         timeZone,
				DurationMinutes:  duration,
				MinBufferMinutes: buffer,
				DayStartHour:     dayStart,
				DayEndHour:       dayEnd,
				MaxCandidates:    maxCandidates,
			})
			if err != nil {
				return fmt.Errorf("failed to compute free slots: %w", err)
			}

			if len(slots) == 0 {
				fmt.Println("No free slots found in the requested window.")
				return nil
			}
			for _, slot := range slots {
				fmt.Printf("%s - %s\n", slot.Start.Format(time.RFC3339), slot.End.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&calendarID, "calendar", "", "Calendar ID to query (default: BOOKABLE_CALENDAR_ID or 'primary')")
	cmd.Flags().StringVar(&timeMin, "time-min", "", "Start of the search window (RFC3339, required)")
	cmd.Flags().StringVar(&timeMax, "time-max", "", "End of the search window (RFC3339, required)")
	cmd.Flags().StringVar(&timeZone, "time-zone", "", "IANA time zone for workday hours (default: UTC)")
	cmd.Flags().IntVar(&duration, "duration", 30, "Meeting duration in minutes")
	cmd.Flags().IntVar(&buffer, "buffer", 0, "Minimum gap around busy time in minutes (default: 5)")
	cmd.Flags().IntVar(&dayStart, "day-start", 0, "Workday start hour 0-23 (default: 9)")
	cmd.Flags().IntVar(&dayEnd, "day-end", 0, "Workday end hour 1-24 (default: 18)")
	cmd.Flags().IntVar(&maxCandidates, "max-candidates", 0, "Maximum number of slots across all days (default: 30)")

	_ = cmd.MarkFlagRequired("time-min")
	_ = cmd.MarkFlagRequired("time-max")
	return cmd
}
