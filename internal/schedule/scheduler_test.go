package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/bookable/internal/calendar"
)

// fakeSource is a FreeBusySource returning canned data and recording
// what it was asked for.
type fakeSource struct {
	busy  []calendar.TimeRange
	err   error
	calls int

	lastTimeMin time.Time
	lastTimeMax time.Time
}

func (f *fakeSource) QueryBusy(_ context.Context, timeMin, timeMax time.Time, _ string) ([]calendar.TimeRange, error) {
	f.calls++
	f.lastTimeMin = timeMin
	f.lastTimeMax = timeMax
	if f.err != nil {
		return nil, f.err
	}
	return f.busy, nil
}

func newTestScheduler(t *testing.T, source *fakeSource) *Scheduler {
	t.Helper()
	s, err := New(Config{Source: source})
	require.NoError(t, err)
	return s
}

func TestNewRequiresSource(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestFreeSlotsEmptyDay(t *testing.T) {
	source := &fakeSource{}
	s := newTestScheduler(t, source)

	slots, err := s.FreeSlots(context.Background(), SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-10T12:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
		DayStartHour:    9,
		DayEndHour:      12,
	})
	require.NoError(t, err)

	// 9:00-12:00 workday with a 5 minute trailing buffer allows starts
	// at 9:00, 9:30, 10:00, 10:30 and 11:00; 11:30 would end at 12:00
	// leaving no room for the buffer.
	wantStarts := []string{
		"2025-03-10T09:00:00Z",
		"2025-03-10T09:30:00Z",
		"2025-03-10T10:00:00Z",
		"2025-03-10T10:30:00Z",
		"2025-03-10T11:00:00Z",
	}
	require.Len(t, slots, len(wantStarts))
	for i, want := range wantStarts {
		assert.True(t, slots[i].Start.Equal(at(t, want)), "slot %d start = %v, want %s", i, slots[i].Start, want)
		assert.Equal(t, 30*time.Minute, slots[i].End.Sub(slots[i].Start))
	}
}

func TestFreeSlotsAvoidBusyWindow(t *testing.T) {
	busyStart := at(t, "2025-03-10T10:00:00Z")
	busyEnd := at(t, "2025-03-10T10:30:00Z")
	source := &fakeSource{busy: []calendar.TimeRange{{Start: busyStart, End: busyEnd}}}
	s := newTestScheduler(t, source)

	slots, err := s.FreeSlots(context.Background(), SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-10T12:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
		DayStartHour:    9,
		DayEndHour:      12,
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		overlaps := slot.Start.Before(busyEnd) && slot.End.After(busyStart)
		assert.False(t, overlaps, "slot [%v, %v] overlaps busy window", slot.Start, slot.End)
	}

	// 9:30-10:00 would end flush against the busy block with no room
	// for the trailing buffer, so the only slot before the block starts
	// at 9:00. Free time resumes at 10:30.
	assert.True(t, slots[0].Start.Equal(at(t, "2025-03-10T09:00:00Z")))
	assert.True(t, slots[1].Start.Equal(at(t, "2025-03-10T10:30:00Z")))
}

func TestFreeSlotsMergesAbuttingBusyWindows(t *testing.T) {
	source := &fakeSource{busy: []calendar.TimeRange{
		{Start: at(t, "2025-03-10T09:00:00Z"), End: at(t, "2025-03-10T09:30:00Z")},
		{Start: at(t, "2025-03-10T09:30:00Z"), End: at(t, "2025-03-10T10:00:00Z")},
	}}
	s := newTestScheduler(t, source)

	slots, err := s.FreeSlots(context.Background(), SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-10T12:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
		DayStartHour:    9,
		DayEndHour:      12,
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	// The merged 9:00-10:00 block pushes the first slot to 10:00.
	assert.True(t, slots[0].Start.Equal(at(t, "2025-03-10T10:00:00Z")),
		"first slot should start after the merged busy block, got %v", slots[0].Start)
}

func TestFreeSlotsInvariants(t *testing.T) {
	source := &fakeSource{busy: []calendar.TimeRange{
		{Start: at(t, "2025-03-10T10:00:00Z"), End: at(t, "2025-03-10T11:15:00Z")},
		{Start: at(t, "2025-03-11T09:00:00Z"), End: at(t, "2025-03-11T14:00:00Z")},
	}}
	s := newTestScheduler(t, source)

	req := SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-12T18:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 45,
	}
	slots, err := s.FreeSlots(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.LessOrEqual(t, len(slots), DefaultMaxCandidates)

	for _, slot := range slots {
		// Exact duration.
		assert.Equal(t, 45*time.Minute, slot.End.Sub(slot.Start))

		// Grid alignment.
		minute := slot.Start.Minute()
		assert.True(t, minute == 0 || minute == 30, "slot start minute %d not on the half-hour grid", minute)

		// Overall window bounds.
		assert.False(t, slot.Start.Before(req.TimeMin))
		assert.False(t, slot.End.After(req.TimeMax))

		// Workday bounds in the requested zone.
		assert.GreaterOrEqual(t, slot.Start.Hour(), DefaultDayStartHour)
		assert.LessOrEqual(t, slot.End.Hour(), DefaultDayEndHour)

		// No overlap with any busy window.
		for _, busy := range source.busy {
			overlaps := slot.Start.Before(busy.End) && slot.End.After(busy.Start)
			assert.False(t, overlaps, "slot [%v, %v] overlaps busy [%v, %v]", slot.Start, slot.End, busy.Start, busy.End)
		}
	}
}

func TestFreeSlotsPerDayQuota(t *testing.T) {
	source := &fakeSource{}
	s := newTestScheduler(t, source)

	// Three full workdays with MaxCandidates 30 give a quota of 10 per
	// day, below the 17 slots a 9:00-18:00 day could hold.
	slots, err := s.FreeSlots(context.Background(), SlotRequest{
		TimeMin:         at(t, "2025-03-10T00:00:00Z"),
		TimeMax:         at(t, "2025-03-13T00:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, slots, 30)

	perDay := make(map[string]int)
	for _, slot := range slots {
		perDay[slot.Start.Format("2006-01-02")]++
	}
	require.Len(t, perDay, 3)
	for day, count := range perDay {
		assert.Equal(t, 10, count, "day %s", day)
	}
}

func TestFreeSlotsMaxCandidatesCap(t *testing.T) {
	source := &fakeSource{}
	s := newTestScheduler(t, source)

	// The per-day floor of 8 exceeds the cap of 5, so the first day
	// fills the whole budget and later days get nothing. Capping total
	// output takes priority over even distribution.
	slots, err := s.FreeSlots(context.Background(), SlotRequest{
		TimeMin:         at(t, "2025-03-10T00:00:00Z"),
		TimeMax:         at(t, "2025-03-13T00:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
		MaxCandidates:   5,
	})
	require.NoError(t, err)
	require.Len(t, slots, 5)
	for _, slot := range slots {
		assert.Equal(t, "2025-03-10", slot.Start.Format("2006-01-02"))
	}
}

func TestFreeSlotsTooShortFreeInterval(t *testing.T) {
	// The 10:00-10:30 gap cannot hold a 30 minute slot plus trailing
	// buffer.
	source := &fakeSource{busy: []calendar.TimeRange{
		{Start: at(t, "2025-03-10T09:00:00Z"), End: at(t, "2025-03-10T10:00:00Z")},
		{Start: at(t, "2025-03-10T10:30:00Z"), End: at(t, "2025-03-10T12:00:00Z")},
	}}
	s := newTestScheduler(t, source)

	slots, err := s.FreeSlots(context.Background(), SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-10T12:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
		DayStartHour:    9,
		DayEndHour:      12,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFreeSlotsCacheIdempotence(t *testing.T) {
	source := &fakeSource{}
	s := newTestScheduler(t, source)

	req := SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-10T12:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
	}

	first, err := s.FreeSlots(context.Background(), req)
	require.NoError(t, err)
	second, err := s.FreeSlots(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls, "second identical call must not hit the upstream API")
	assert.Equal(t, first, second)
}

func TestFreeSlotsDistinctOptionsMissCache(t *testing.T) {
	source := &fakeSource{}
	s := newTestScheduler(t, source)

	req := SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-10T12:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
	}
	_, err := s.FreeSlots(context.Background(), req)
	require.NoError(t, err)

	// A different duration is a different slot set, but the underlying
	// busy data for the same range is still served from cache.
	req.DurationMinutes = 60
	_, err = s.FreeSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestBusyWindowsRangeClamp(t *testing.T) {
	source := &fakeSource{}
	s := newTestScheduler(t, source)

	timeMin := at(t, "2025-03-01T00:00:00Z")
	_, err := s.BusyWindows(context.Background(), BusyRequest{
		TimeMin:  timeMin,
		TimeMax:  timeMin.AddDate(0, 0, 60),
		TimeZone: "UTC",
	})
	require.NoError(t, err)

	assert.True(t, source.lastTimeMin.Equal(timeMin))
	assert.True(t, source.lastTimeMax.Equal(timeMin.Add(30*24*time.Hour)),
		"a 60 day request must be clamped to 30 days, got %v", source.lastTimeMax)
}

func TestBusyWindowsInvalidRange(t *testing.T) {
	s := newTestScheduler(t, &fakeSource{})

	_, err := s.BusyWindows(context.Background(), BusyRequest{
		TimeMin: at(t, "2025-03-10T12:00:00Z"),
		TimeMax: at(t, "2025-03-10T09:00:00Z"),
	})
	assert.ErrorIs(t, err, ErrComputation)
}

func TestFreeSlotsUpstreamFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("rate limited")}
	s := newTestScheduler(t, source)

	slots, err := s.FreeSlots(context.Background(), SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-10T12:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
	})
	require.ErrorIs(t, err, ErrUpstreamFetch)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Nil(t, slots, "a failed fetch must never yield slots")
}

func TestFreeSlotsValidation(t *testing.T) {
	s := newTestScheduler(t, &fakeSource{})
	ctx := context.Background()
	base := SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-10T12:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
	}

	t.Run("missing duration", func(t *testing.T) {
		req := base
		req.DurationMinutes = 0
		_, err := s.FreeSlots(ctx, req)
		assert.ErrorIs(t, err, ErrComputation)
	})

	t.Run("inverted range", func(t *testing.T) {
		req := base
		req.TimeMin, req.TimeMax = req.TimeMax, req.TimeMin
		_, err := s.FreeSlots(ctx, req)
		assert.ErrorIs(t, err, ErrComputation)
	})

	t.Run("unknown time zone", func(t *testing.T) {
		req := base
		req.TimeZone = "Mars/Olympus_Mons"
		_, err := s.FreeSlots(ctx, req)
		assert.ErrorIs(t, err, ErrComputation)
	})

	t.Run("inverted workday bounds", func(t *testing.T) {
		req := base
		req.DayStartHour = 18
		req.DayEndHour = 9
		_, err := s.FreeSlots(ctx, req)
		assert.ErrorIs(t, err, ErrComputation)
	})
}

func TestClearCacheForcesRefetch(t *testing.T) {
	source := &fakeSource{}
	s := newTestScheduler(t, source)

	req := SlotRequest{
		TimeMin:         at(t, "2025-03-10T09:00:00Z"),
		TimeMax:         at(t, "2025-03-10T12:00:00Z"),
		TimeZone:        "UTC",
		DurationMinutes: 30,
	}

	_, err := s.FreeSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CacheStats().Size, "expected busy and slots entries")

	s.ClearCache()
	assert.Equal(t, 0, s.CacheStats().Size)

	_, err = s.FreeSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls, "cleared cache must force a refetch")
}
