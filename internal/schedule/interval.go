package schedule

import (
	"sort"
	"time"

	"github.com/teemow/bookable/internal/calendar"
)

// interval is a half-open [start, end) span in a single location.
type interval struct {
	start time.Time
	end   time.Time
}

func (iv interval) valid() bool {
	return !iv.start.IsZero() && !iv.end.IsZero() && iv.start.Before(iv.end)
}

// normalizeBusy converts busy ranges into zone-local intervals, drops
// invalid or empty ones, and sorts them by start time.
func normalizeBusy(busy []calendar.TimeRange, loc *time.Location) []interval {
	out := make([]interval, 0, len(busy))
	for _, b := range busy {
		iv := interval{start: b.Start.In(loc), end: b.End.In(loc)}
		if !iv.valid() {
			continue
		}
		out = append(out, iv)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].start.Before(out[j].start)
	})
	return out
}

// mergeIntervals collapses a sorted interval list into a minimal
// non-overlapping set. Two intervals merge when they overlap, when one
// contains the other, or when one's end abuts the other's start.
func mergeIntervals(in []interval) []interval {
	if len(in) == 0 {
		return nil
	}

	merged := make([]interval, 0, len(in))
	current := in[0]
	for _, next := range in[1:] {
		if next.start.After(current.end) {
			merged = append(merged, current)
			current = next
			continue
		}
		if next.end.After(current.end) {
			current.end = next.end
		}
	}
	return append(merged, current)
}

// dayWindows builds one workday interval per calendar day spanned by
// [timeMin, timeMax), clipped to that overall window. Days whose
// clipped window is empty are skipped.
func dayWindows(timeMin, timeMax time.Time, startHour, endHour int, loc *time.Location) []interval {
	localMin := timeMin.In(loc)
	first := time.Date(localMin.Year(), localMin.Month(), localMin.Day(), 0, 0, 0, 0, loc)

	var windows []interval
	for day := first; day.Before(timeMax); day = day.AddDate(0, 0, 1) {
		w := interval{
			start: time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, loc),
			end:   time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, loc),
		}
		if w.start.Before(timeMin) {
			w.start = timeMin.In(loc)
		}
		if w.end.After(timeMax) {
			w.end = timeMax.In(loc)
		}
		if !w.valid() {
			continue
		}
		windows = append(windows, w)
	}
	return windows
}

// subtractBusy removes every busy interval overlapping the window by
// walking the window's timeline left to right: the free span before each
// overlap is accumulated, the cursor advances past the overlap's end,
// and the tail after the last overlap is emitted. busy must be merged
// and sorted.
func subtractBusy(window interval, busy []interval) []interval {
	var free []interval
	cursor := window.start

	for _, b := range busy {
		if !b.end.After(cursor) || !b.start.Before(window.end) {
			continue
		}
		if b.start.After(cursor) {
			free = append(free, interval{start: cursor, end: b.start})
		}
		cursor = b.end
		if !cursor.Before(window.end) {
			return free
		}
	}

	if cursor.Before(window.end) {
		free = append(free, interval{start: cursor, end: window.end})
	}
	return free
}

// floorToHalfHour aligns t down to the nearest half-hour mark (minute 0
// or 30) in t's location. Wall-clock construction keeps the alignment
// correct in zones with non-whole-hour UTC offsets.
func floorToHalfHour(t time.Time) time.Time {
	minute := 0
	if t.Minute() >= 30 {
		minute = 30
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, t.Location())
}
