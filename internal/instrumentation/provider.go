package instrumentation

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// meterName identifies this module's instruments.
const meterName = "github.com/teemow/bookable"

// Provider encapsulates the OpenTelemetry meter provider and the
// metrics recorder built on it.
type Provider struct {
	config        Config
	meterProvider *metric.MeterProvider
	metrics       *Metrics
	enabled       bool
}

// NewProvider creates a new OpenTelemetry provider with the given
// configuration. With Enabled false it returns a provider whose
// Metrics() recorder is a no-op.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if !config.Enabled {
		return &Provider{
			config:  config,
			metrics: &Metrics{},
		}, nil
	}

	resourceAttrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	}
	if hostname, err := os.Hostname(); err == nil {
		resourceAttrs = append(resourceAttrs, semconv.ServiceInstanceID(hostname))
	}

	res, err := resource.New(ctx, resource.WithAttributes(resourceAttrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	reader, err := newMetricReader(config)
	if err != nil {
		return nil, err
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)

	metrics, err := NewMetrics(meterProvider.Meter(meterName))
	if err != nil {
		if shutdownErr := meterProvider.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("%w (meter provider shutdown also failed: %v)", err, shutdownErr)
		}
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	return &Provider{
		config:        config,
		meterProvider: meterProvider,
		metrics:       metrics,
		enabled:       true,
	}, nil
}

func newMetricReader(config Config) (metric.Reader, error) {
	switch config.MetricsExporter {
	case ExporterStdout:
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		return metric.NewPeriodicReader(exporter), nil
	default:
		// The prometheus exporter registers collectors with the global
		// Prometheus registry, which the metrics server exposes.
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		return exporter, nil
	}
}

// Metrics returns the metrics recorder. Never nil.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Enabled reports whether instrumentation is active.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
