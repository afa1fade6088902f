package instrumentation

import "testing"

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("INSTRUMENTATION_ENABLED", "")
	t.Setenv("METRICS_EXPORTER", "")

	config := DefaultConfig()
	if config.ServiceName != "bookable" {
		t.Errorf("expected default service name bookable, got %q", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("instrumentation should default to enabled")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected prometheus default exporter, got %q", config.MetricsExporter)
	}
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "bookable-staging")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")

	config := DefaultConfig()
	if config.ServiceName != "bookable-staging" {
		t.Errorf("expected env service name, got %q", config.ServiceName)
	}
	if config.Enabled {
		t.Error("expected instrumentation disabled via env")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("expected stdout exporter, got %q", config.MetricsExporter)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		wantErr  bool
	}{
		{"empty", "", false},
		{"prometheus", ExporterPrometheus, false},
		{"stdout", ExporterStdout, false},
		{"unknown", "otlp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{MetricsExporter: tt.exporter}
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
