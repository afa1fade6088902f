package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teemow/bookable/internal/cache"
	"github.com/teemow/bookable/internal/calendar"
	"github.com/teemow/bookable/internal/instrumentation"
	"github.com/teemow/bookable/internal/logging"
)

const (
	// maxQuerySpan bounds how much calendar data a single busy-window
	// query may cover. Longer requested ranges are truncated from
	// TimeMin forward; bounded upstream latency wins over completeness.
	maxQuerySpan = 30 * 24 * time.Hour

	// busyWindowTTL caches raw free/busy results. Busy data changes
	// less often than derived slot lists.
	busyWindowTTL = 5 * time.Minute

	// freeSlotsTTL caches synthesized slot lists. Kept short so new
	// bookings invalidate candidate slots quickly.
	freeSlotsTTL = time.Minute

	// slotGridStep aligns slot starts to the top and bottom of the hour.
	slotGridStep = 30 * time.Minute

	// minSlotsPerDay keeps each day well populated with options even
	// when MaxCandidates is small relative to the day count. The global
	// MaxCandidates cap still applies.
	minSlotsPerDay = 8
)

// FreeBusySource supplies busy ranges for the target calendar. The
// calendar API client implements it; tests inject fakes.
type FreeBusySource interface {
	QueryBusy(ctx context.Context, timeMin, timeMax time.Time, timeZone string) ([]calendar.TimeRange, error)
}

// Config configures a Scheduler.
type Config struct {
	// Source is the upstream free/busy provider. Required.
	Source FreeBusySource

	// Store caches busy windows and slot lists. A new private store is
	// created when nil.
	Store *cache.Store

	// Logger receives observation-point logs. Discarded when nil.
	Logger logging.Logger

	// Metrics records cache and upstream activity. No-op when nil.
	Metrics *instrumentation.Metrics
}

// Scheduler computes bookable meeting slots from calendar free/busy
// data. It is safe for concurrent use; concurrent calls with identical
// parameters are not coalesced and may both miss the cache, which is an
// accepted inefficiency for idempotent reads.
type Scheduler struct {
	source  FreeBusySource
	store   *cache.Store
	logger  logging.Logger
	metrics *instrumentation.Metrics
}

// New creates a Scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Source == nil {
		return nil, errors.New("free/busy source is required")
	}
	if cfg.Store == nil {
		cfg.Store = cache.NewStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &instrumentation.Metrics{}
	}
	return &Scheduler{
		source:  cfg.Source,
		store:   cfg.Store,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}, nil
}

// BusyWindows returns the busy ranges for the requested window,
// clamped to at most 30 days from TimeMin. Results are cached for five
// minutes per (clamped range, zone). Upstream failures surface as
// ErrUpstreamFetch; no synthetic data is ever returned.
func (s *Scheduler) BusyWindows(ctx context.Context, req BusyRequest) ([]calendar.TimeRange, error) {
	if req.TimeZone == "" {
		req.TimeZone = DefaultTimeZone
	}
	if req.TimeMin.IsZero() || req.TimeMax.IsZero() || req.TimeMax.Before(req.TimeMin) {
		return nil, fmt.Errorf("%w: invalid busy-window range [%s, %s]",
			ErrComputation, req.TimeMin.Format(time.RFC3339), req.TimeMax.Format(time.RFC3339))
	}

	timeMax := req.TimeMax
	if timeMax.Sub(req.TimeMin) > maxQuerySpan {
		timeMax = req.TimeMin.Add(maxQuerySpan)
	}

	key := cache.Key("busy", map[string]any{
		"timeMin":  req.TimeMin.UTC().Format(time.RFC3339),
		"timeMax":  timeMax.UTC().Format(time.RFC3339),
		"timeZone": req.TimeZone,
	})
	if v, ok := s.store.Get(key); ok {
		s.metrics.RecordCacheLookup(ctx, "busy", true)
		s.logger.Debug("busy windows served from cache", logging.KeyCacheKey, key)
		return v.([]calendar.TimeRange), nil
	}
	s.metrics.RecordCacheLookup(ctx, "busy", false)

	s.logger.Info("querying free/busy",
		"time_min", req.TimeMin.Format(time.RFC3339),
		"time_max", timeMax.Format(time.RFC3339),
		logging.KeyTimeZone, req.TimeZone)

	started := time.Now()
	busy, err := s.source.QueryBusy(ctx, req.TimeMin, timeMax, req.TimeZone)
	s.metrics.RecordUpstreamQuery(ctx, time.Since(started), err)
	if err != nil {
		s.logger.Error("free/busy query failed", logging.KeyError, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}

	s.store.Set(key, busy, busyWindowTTL)
	return busy, nil
}

// FreeSlots synthesizes candidate meeting slots for the requested
// window: busy ranges are merged, subtracted from each day's workday
// window, and the remaining free time is expanded into grid-aligned,
// buffer-respecting slots of exactly the requested duration, capped at
// MaxCandidates across all days. Results are cached for one minute per
// full parameter set.
func (s *Scheduler) FreeSlots(ctx context.Context, req SlotRequest) ([]Slot, error) {
	req = req.withDefaults()
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComputation, err)
	}
	loc, err := time.LoadLocation(req.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", ErrComputation, req.TimeZone)
	}

	// Every option is part of the key: different durations or buffers
	// yield different slot sets.
	key := cache.Key("slots", map[string]any{
		"timeMin":          req.TimeMin.UTC().Format(time.RFC3339),
		"timeMax":          req.TimeMax.UTC().Format(time.RFC3339),
		"timeZone":         req.TimeZone,
		"durationMinutes":  req.DurationMinutes,
		"minBufferMinutes": req.MinBufferMinutes,
		"dayStartHour":     req.DayStartHour,
		"dayEndHour":       req.DayEndHour,
		"maxCandidates":    req.MaxCandidates,
	})
	if v, ok := s.store.Get(key); ok {
		s.metrics.RecordCacheLookup(ctx, "slots", true)
		s.logger.Debug("free slots served from cache", logging.KeyCacheKey, key)
		return v.([]Slot), nil
	}
	s.metrics.RecordCacheLookup(ctx, "slots", false)

	busy, err := s.BusyWindows(ctx, BusyRequest{
		TimeMin:  req.TimeMin,
		TimeMax:  req.TimeMax,
		TimeZone: req.TimeZone,
	})
	if err != nil {
		return nil, err
	}

	merged := mergeIntervals(normalizeBusy(busy, loc))

	// Free intervals grouped by calendar day. Only days that still have
	// free time count toward the per-day quota split.
	var freeByDay [][]interval
	for _, window := range dayWindows(req.TimeMin, req.TimeMax, req.DayStartHour, req.DayEndHour, loc) {
		if free := subtractBusy(window, merged); len(free) > 0 {
			freeByDay = append(freeByDay, free)
		}
	}

	slots := s.expandSlots(req, freeByDay)

	s.metrics.RecordSlotsProduced(ctx, len(slots))
	s.logger.Info("free slots computed",
		"slots", len(slots),
		"days_with_free_time", len(freeByDay),
		"merged_busy_windows", len(merged))

	s.store.Set(key, slots, freeSlotsTTL)
	return slots, nil
}

// expandSlots turns per-day free intervals into concrete slots.
func (s *Scheduler) expandSlots(req SlotRequest, freeByDay [][]interval) []Slot {
	duration := time.Duration(req.DurationMinutes) * time.Minute
	buffer := time.Duration(req.MinBufferMinutes) * time.Minute

	perDay := minSlotsPerDay
	if len(freeByDay) > 0 {
		if quota := req.MaxCandidates / len(freeByDay); quota > perDay {
			perDay = quota
		}
	}

	slots := make([]Slot, 0, req.MaxCandidates)
	for _, free := range freeByDay {
		if len(slots) >= req.MaxCandidates {
			break
		}
		emitted := 0
		for _, fi := range free {
			// Buffer after the preceding busy block, then align to the
			// half-hour grid. The alignment never backs out of the free
			// interval itself.
			p := floorToHalfHour(fi.start.Add(buffer))
			if p.Before(fi.start) {
				p = p.Add(slotGridStep)
			}
			for {
				end := p.Add(duration)
				if end.Add(buffer).After(fi.end) {
					break
				}
				slots = append(slots, Slot{Start: p, End: end})
				emitted++
				if emitted >= perDay || len(slots) >= req.MaxCandidates {
					break
				}
				p = p.Add(slotGridStep)
			}
			if emitted >= perDay || len(slots) >= req.MaxCandidates {
				break
			}
		}
	}
	return slots
}

// ClearCache removes all cached busy windows and slot lists. Safe at
// any time; cleared entries are simply recomputed.
func (s *Scheduler) ClearCache() {
	s.store.Clear()
	s.logger.Info("schedule cache cleared")
}

// CacheStats reports the current cache contents for observability and
// tests.
func (s *Scheduler) CacheStats() cache.Stats {
	return s.store.Stats()
}
