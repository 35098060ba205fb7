package sensor

import (
	"context"

	"github.com/sensorlabs/envmond/internal/telemetry"
)

// mockTemperatureReader is a test double for TemperatureReader.
type mockTemperatureReader struct {
	temp float64
	err  error
}

func (m *mockTemperatureReader) ReadTemperature(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return m.temp, m.err
}

// mockMetricsReader is a test double for MetricsReader.
type mockMetricsReader struct {
	metrics *telemetry.SystemMetrics
	err     error
}

func (m *mockMetricsReader) ReadMetrics(ctx context.Context) (*telemetry.SystemMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.metrics, m.err
}
