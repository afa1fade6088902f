package schedule_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/bookable/internal/calendar"
	"github.com/teemow/bookable/internal/schedule"
)

// Deps bundles the collaborators the scheduling tools operate on.
type Deps struct {
	Scheduler *schedule.Scheduler
	Calendar  *calendar.Client
}

// RegisterScheduleTools registers the scheduling and booking tools with
// the MCP server.
func RegisterScheduleTools(s *mcpserver.MCPServer, deps *Deps) error {
	if deps == nil || deps.Scheduler == nil || deps.Calendar == nil {
		return fmt.Errorf("schedule tools require a scheduler and a calendar client")
	}

	freeSlotsTool := mcp.NewTool("schedule_find_free_slots",
		mcp.WithDescription("Find bookable meeting slots on the configured calendar, avoiding busy time and respecting workday hours"),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the search window (RFC3339 format, e.g., '2025-03-10T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the search window (RFC3339 format)"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Required(),
			mcp.Description("Meeting duration in minutes"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for workday hours (default: UTC)"),
		),
		mcp.WithNumber("minBufferMinutes",
			mcp.Description("Minimum gap around busy time in minutes (default: 5)"),
		),
		mcp.WithNumber("dayStartHour",
			mcp.Description("Workday start hour 0-23 (default: 9)"),
		),
		mcp.WithNumber("dayEndHour",
			mcp.Description("Workday end hour 1-24 (default: 18)"),
		),
		mcp.WithNumber("maxCandidates",
			mcp.Description("Maximum number of slots across all days (default: 30)"),
		),
	)
	s.AddTool(freeSlotsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleFindFreeSlots(ctx, request, deps)
	})

	busyTool := mcp.NewTool("schedule_query_busy",
		mcp.WithDescription("List busy windows on the configured calendar for a time range (clamped to 30 days)"),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the range (RFC3339 format)"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the range (RFC3339 format)"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone (default: UTC)"),
		),
	)
	s.AddTool(busyTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleQueryBusy(ctx, request, deps)
	})

	bookTool := mcp.NewTool("schedule_book_meeting",
		mcp.WithDescription("Create a calendar event with a Google Meet link for a chosen slot and invite one attendee"),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Event start (RFC3339 format)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Event end (RFC3339 format)"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("attendeeEmail",
			mcp.Required(),
			mcp.Description("Email address of the attendee to invite"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone of the event (default: UTC)"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("attendeeName",
			mcp.Description("Display name of the attendee"),
		),
		mcp.WithString("sendUpdates",
			mcp.Description("Attendee notification policy: all, externalOnly or none (default: all)"),
		),
	)
	s.AddTool(bookTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleBookMeeting(ctx, request, deps)
	})

	statsTool := mcp.NewTool("schedule_cache_stats",
		mcp.WithDescription("Show the scheduling cache contents (entry count and keys)"),
	)
	s.AddTool(statsTool, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := deps.Scheduler.CacheStats()
		var sb strings.Builder
		fmt.Fprintf(&sb, "Cache entries: %d\n", stats.Size)
		for _, key := range stats.Keys {
			fmt.Fprintf(&sb, "  %s\n", key)
		}
		return mcp.NewToolResultText(sb.String()), nil
	})

	clearTool := mcp.NewTool("schedule_cache_clear",
		mcp.WithDescription("Clear the scheduling cache, forcing fresh free/busy data on the next query"),
	)
	s.AddTool(clearTool, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps.Scheduler.ClearCache()
		return mcp.NewToolResultText("Scheduling cache cleared."), nil
	})

	return nil
}

func handleFindFreeSlots(ctx context.Context, request mcp.CallToolRequest, deps *Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	timeMin, err := requiredTimeArg(args, "timeMin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeMax, err := requiredTimeArg(args, "timeMax")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	duration, ok := intArg(args, "durationMinutes")
	if !ok || duration <= 0 {
		return mcp.NewToolResultError("durationMinutes is required and must be positive"), nil
	}

	req := schedule.SlotRequest{
		TimeMin:         timeMin,
		TimeMax:         timeMax,
		TimeZone:        stringArg(args, "timeZone"),
		DurationMinutes: duration,
	}
	if v, ok := intArg(args, "minBufferMinutes"); ok {
		req.MinBufferMinutes = v
	}
	if v, ok := intArg(args, "dayStartHour"); ok {
		req.DayStartHour = v
	}
	if v, ok := intArg(args, "dayEndHour"); ok {
		req.DayEndHour = v
	}
	if v, ok := intArg(args, "maxCandidates"); ok {
		req.MaxCandidates = v
	}

	slots, err := deps.Scheduler.FreeSlots(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to compute free slots: %v", err)), nil
	}

	if len(slots) == 0 {
		return mcp.NewToolResultText("No free slots found in the requested window."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d free slot(s):\n", len(slots))
	for _, slot := range slots {
		fmt.Fprintf(&sb, "  %s - %s\n", slot.Start.Format(time.RFC3339), slot.End.Format(time.RFC3339))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleQueryBusy(ctx context.Context, request mcp.CallToolRequest, deps *Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	timeMin, err := requiredTimeArg(args, "timeMin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeMax, err := requiredTimeArg(args, "timeMax")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	busy, err := deps.Scheduler.BusyWindows(ctx, schedule.BusyRequest{
		TimeMin:  timeMin,
		TimeMax:  timeMax,
		TimeZone: stringArg(args, "timeZone"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query busy windows: %v", err)), nil
	}

	if len(busy) == 0 {
		return mcp.NewToolResultText("No busy windows in the requested range."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Busy windows (%d):\n", len(busy))
	for _, window := range busy {
		fmt.Fprintf(&sb, "  %s - %s\n", window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleBookMeeting(ctx context.Context, request mcp.CallToolRequest, deps *Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	start, err := requiredTimeArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := requiredTimeArg(args, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary := stringArg(args, "summary")
	if summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	attendeeEmail := stringArg(args, "attendeeEmail")
	if attendeeEmail == "" {
		return mcp.NewToolResultError("attendeeEmail is required"), nil
	}

	event, err := deps.Calendar.CreateEventWithMeet(ctx, calendar.MeetEventInput{
		Start:         start,
		End:           end,
		TimeZone:      stringArg(args, "timeZone"),
		Summary:       summary,
		Description:   stringArg(args, "description"),
		AttendeeEmail: attendeeEmail,
		AttendeeName:  stringArg(args, "attendeeName"),
		SendUpdates:   stringArg(args, "sendUpdates"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Event created: %s\n", event.EventID)
	fmt.Fprintf(&sb, "Calendar link: %s\n", event.HTMLLink)
	if event.MeetURL != "" {
		fmt.Fprintf(&sb, "Meet link: %s\n", event.MeetURL)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// requiredTimeArg extracts a required RFC3339 time argument.
func requiredTimeArg(args map[string]interface{}, name string) (time.Time, error) {
	raw, ok := args[name].(string)
	if !ok || raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %v", name, err)
	}
	return t, nil
}

// stringArg extracts an optional string argument, empty when absent.
func stringArg(args map[string]interface{}, name string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return ""
}

// intArg extracts an optional numeric argument. JSON numbers arrive as
// float64.
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
