package agent

import (
	"context"
	"sync"

	"github.com/sensorlabs/envmond/internal/sensor"
	"github.com/sensorlabs/envmond/internal/telemetry"
)

// mockProvider is a test double for SnapshotProvider.
type mockProvider struct {
	mu    sync.Mutex
	snap  sensor.Snapshot
	calls int
}

func newMockProvider() *mockProvider {
	temp := 45.0
	return &mockProvider{
		snap: sensor.Snapshot{
			CPUTemperature: &temp,
			Metrics: telemetry.MetricsReport{
				Metrics: &telemetry.SystemMetrics{
					CPUPercent:    10,
					MemoryPercent: 20,
					DiskPercent:   30,
				},
			},
		},
	}
}

func (m *mockProvider) Snapshot(ctx context.Context) sensor.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.snap
}

func (m *mockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
