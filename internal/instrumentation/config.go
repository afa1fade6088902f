package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Supported metrics exporters.
const (
	// ExporterPrometheus exposes metrics to the global Prometheus
	// registry for scraping via the metrics server.
	ExporterPrometheus = "prometheus"

	// ExporterStdout periodically prints metrics to stdout. Intended
	// for local debugging only.
	ExporterStdout = "stdout"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: bookable).
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Enabled determines if instrumentation is active (default: true).
	// Set INSTRUMENTATION_ENABLED=false to disable metrics entirely.
	Enabled bool

	// MetricsExporter specifies the metrics exporter type.
	// Options: "prometheus", "stdout" (default: "prometheus").
	MetricsExporter string
}

// DefaultConfig returns a Config with defaults taken from environment
// variables.
func DefaultConfig() Config {
	return Config{
		ServiceName:     getEnvOrDefault("OTEL_SERVICE_NAME", "bookable"),
		ServiceVersion:  "unknown",
		Enabled:         getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter: getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterStdout:
		return nil
	default:
		return fmt.Errorf("invalid metrics exporter %q (supported: %s, %s)",
			c.MetricsExporter, ExporterPrometheus, ExporterStdout)
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
