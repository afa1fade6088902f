package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrKind   = "kind"
	attrResult = "result"
	attrStatus = "status"
)

// Attribute values.
const (
	resultHit  = "hit"
	resultMiss = "miss"

	statusSuccess = "success"
	statusError   = "error"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a safe no-op recorder: every Record method checks
// its instrument before use, so a disabled provider can hand out
// &Metrics{} without guarding at call sites.
type Metrics struct {
	cacheLookupsTotal     metric.Int64Counter
	upstreamQueriesTotal  metric.Int64Counter
	upstreamQueryDuration metric.Float64Histogram
	slotsProduced         metric.Int64Histogram
	eventsCreatedTotal    metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments registered
// on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.cacheLookupsTotal, err = meter.Int64Counter(
		"schedule_cache_lookups_total",
		metric.WithDescription("Total number of schedule cache lookups by kind and result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule_cache_lookups_total counter: %w", err)
	}

	m.upstreamQueriesTotal, err = meter.Int64Counter(
		"calendar_freebusy_queries_total",
		metric.WithDescription("Total number of free/busy queries issued to the Calendar API"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_freebusy_queries_total counter: %w", err)
	}

	m.upstreamQueryDuration, err = meter.Float64Histogram(
		"calendar_freebusy_query_duration_seconds",
		metric.WithDescription("Free/busy query duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_freebusy_query_duration_seconds histogram: %w", err)
	}

	m.slotsProduced, err = meter.Int64Histogram(
		"schedule_slots_produced",
		metric.WithDescription("Number of candidate slots produced per synthesis"),
		metric.WithUnit("{slot}"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 20, 30, 50),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule_slots_produced histogram: %w", err)
	}

	m.eventsCreatedTotal, err = meter.Int64Counter(
		"calendar_events_created_total",
		metric.WithDescription("Total number of event creation attempts by status"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_events_created_total counter: %w", err)
	}

	return m, nil
}

// RecordCacheLookup records a cache lookup for the given request kind.
func (m *Metrics) RecordCacheLookup(ctx context.Context, kind string, hit bool) {
	if m.cacheLookupsTotal == nil {
		return
	}
	result := resultMiss
	if hit {
		result = resultHit
	}
	m.cacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrResult, result),
	))
}

// RecordUpstreamQuery records one free/busy query and its duration.
func (m *Metrics) RecordUpstreamQuery(ctx context.Context, duration time.Duration, err error) {
	status := statusFromError(err)
	if m.upstreamQueriesTotal != nil {
		m.upstreamQueriesTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrStatus, status),
		))
	}
	if m.upstreamQueryDuration != nil {
		m.upstreamQueryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String(attrStatus, status),
		))
	}
}

// RecordSlotsProduced records the size of a synthesized slot list.
func (m *Metrics) RecordSlotsProduced(ctx context.Context, count int) {
	if m.slotsProduced == nil {
		return
	}
	m.slotsProduced.Record(ctx, int64(count))
}

// RecordEventCreation records one event creation attempt.
func (m *Metrics) RecordEventCreation(ctx context.Context, err error) {
	if m.eventsCreatedTotal == nil {
		return
	}
	m.eventsCreatedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, statusFromError(err)),
	))
}

func statusFromError(err error) string {
	if err != nil {
		return statusError
	}
	return statusSuccess
}
