package telemetry

import "time"

// availableSensors is the fixed sensor inventory advertised in sample
// metadata.
var availableSensors = []string{"cpu_temperature", "system_metrics"}

// Builder assembles samples from sensor readings and the agent's
// configured identity.
type Builder struct {
	deviceID       string
	sampleInterval time.Duration
	now            func() time.Time
}

// NewBuilder creates a Builder for the given device identity and sampling
// interval.
func NewBuilder(deviceID string, sampleInterval time.Duration) *Builder {
	return &Builder{
		deviceID:       deviceID,
		sampleInterval: sampleInterval,
		now:            time.Now,
	}
}

// SetNow sets a custom time source for testing.
func (b *Builder) SetNow(now func() time.Time) {
	b.now = now
}

// Build assembles a sample from the two readings, timestamped at call
// time. It never fails: an absent temperature stays nil and a failed
// metrics snapshot is carried as the error marker.
func (b *Builder) Build(cpuTemp *float64, metrics MetricsReport) *Sample {
	return &Sample{
		DeviceID:       b.deviceID,
		Timestamp:      b.now().Format(time.RFC3339),
		CPUTemperature: cpuTemp,
		SystemMetrics:  metrics,
		Version:        Version,
		Metadata: Metadata{
			SampleIntervalSeconds: int(b.sampleInterval / time.Second),
			AvailableSensors:      availableSensors,
		},
		Warnings: []string{},
	}
}
