// Package sensor reads device health data from the local system: the SoC
// temperature and OS-level utilization counters.
package sensor

import (
	"context"
	"log/slog"

	"github.com/sensorlabs/envmond/internal/telemetry"
)

// TemperatureReader reads the CPU temperature in degrees Celsius.
type TemperatureReader interface {
	ReadTemperature(ctx context.Context) (float64, error)
}

// MetricsReader takes one snapshot of OS utilization metrics.
type MetricsReader interface {
	ReadMetrics(ctx context.Context) (*telemetry.SystemMetrics, error)
}

// Snapshot is one best-effort reading of all sensors. Failed reads are
// represented as absence or an error marker, never as a Go error.
type Snapshot struct {
	CPUTemperature *float64
	Metrics        telemetry.MetricsReport
}

// Provider combines the individual sensor readers into per-tick
// snapshots. Read failures are logged and folded into the snapshot.
type Provider struct {
	temp    TemperatureReader
	metrics MetricsReader
	logger  *slog.Logger
}

// NewProvider creates a Provider over the given readers.
func NewProvider(temp TemperatureReader, metrics MetricsReader, logger *slog.Logger) *Provider {
	return &Provider{
		temp:    temp,
		metrics: metrics,
		logger:  logger.With("component", "sensor"),
	}
}

// Snapshot reads all sensors once. It never fails; an unreadable sensor
// yields an absent value or the error marker for that field.
func (p *Provider) Snapshot(ctx context.Context) Snapshot {
	var snap Snapshot

	temp, err := p.temp.ReadTemperature(ctx)
	if err != nil {
		p.logger.Warn("cpu temperature read failed", "error", err)
	} else {
		snap.CPUTemperature = &temp
	}

	metrics, err := p.metrics.ReadMetrics(ctx)
	if err != nil {
		p.logger.Warn("system metrics read failed", "error", err)
		snap.Metrics = telemetry.MetricsReport{Err: telemetry.NewMetricsError(err)}
	} else {
		snap.Metrics = telemetry.MetricsReport{Metrics: metrics}
	}

	return snap
}
