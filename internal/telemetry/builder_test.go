package telemetry

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder("raspberry_pi_monitor", 60*time.Second)
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	b.SetNow(func() time.Time { return fixed })

	s := b.Build(floatPtr(47.8), validMetrics())

	if s.DeviceID != "raspberry_pi_monitor" {
		t.Errorf("DeviceID = %q, want %q", s.DeviceID, "raspberry_pi_monitor")
	}
	if s.Timestamp != fixed.Format(time.RFC3339) {
		t.Errorf("Timestamp = %q, want %q", s.Timestamp, fixed.Format(time.RFC3339))
	}
	if s.Version != Version {
		t.Errorf("Version = %q, want %q", s.Version, Version)
	}
	if s.Metadata.SampleIntervalSeconds != 60 {
		t.Errorf("SampleIntervalSeconds = %d, want 60", s.Metadata.SampleIntervalSeconds)
	}
	wantSensors := []string{"cpu_temperature", "system_metrics"}
	if diff := cmp.Diff(wantSensors, s.Metadata.AvailableSensors); diff != "" {
		t.Errorf("AvailableSensors mismatch (-want +got):\n%s", diff)
	}
	if s.Warnings == nil || len(s.Warnings) != 0 {
		t.Errorf("Warnings = %v, want empty non-nil slice", s.Warnings)
	}
}

func TestBuilder_BuildBothSensorsFailed(t *testing.T) {
	b := NewBuilder("dev-01", 10*time.Second)

	s := b.Build(nil, MetricsReport{Err: NewMetricsError(errors.New("no proc"))})

	if s.CPUTemperature != nil {
		t.Errorf("CPUTemperature = %v, want nil", *s.CPUTemperature)
	}
	if s.SystemMetrics.OK() {
		t.Error("SystemMetrics.OK() = true, want false")
	}
	if s.SystemMetrics.Err == nil {
		t.Fatal("SystemMetrics.Err = nil, want error marker")
	}
	if s.SystemMetrics.Err.Status != "error" {
		t.Errorf("error marker status = %q, want %q", s.SystemMetrics.Err.Status, "error")
	}

	// All required top-level wire fields must survive serialization even
	// when both sensor inputs failed.
	data, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	for _, field := range []string{
		`"device_id"`, `"timestamp"`, `"cpu_temperature"`,
		`"system_metrics"`, `"version"`, `"metadata"`, `"warnings"`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("encoded payload missing field %s: %s", field, data)
		}
	}
}
