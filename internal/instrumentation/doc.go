// Package instrumentation provides OpenTelemetry-based metrics for the
// scheduling engine.
//
// The Provider owns the meter provider and exporter (Prometheus by
// default, stdout for local debugging) and hands out a Metrics recorder
// with the domain instruments: cache lookup results, free/busy query
// counts and latency, slot synthesis sizes, and event creation
// outcomes. A disabled provider hands out a no-op recorder, so callers
// never need nil checks.
package instrumentation
