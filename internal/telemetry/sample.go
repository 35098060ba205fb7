// Package telemetry defines the wire payload published by the agent and
// the assembly and validation steps that produce it.
package telemetry

import (
	"encoding/json"
	"fmt"
)

// Version is the payload schema version stamped on every sample.
const Version = "1.0.0"

// NetworkCounters holds cumulative interface byte counters.
type NetworkCounters struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

// SystemMetrics holds one point-in-time set of OS utilization readings.
type SystemMetrics struct {
	CPUPercent    float64         `json:"cpu_percent"`
	MemoryPercent float64         `json:"memory_percent"`
	DiskPercent   float64         `json:"disk_percent"`
	Network       NetworkCounters `json:"network"`
}

// MetricsError is the marker recorded in place of SystemMetrics when the
// OS snapshot failed.
type MetricsError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewMetricsError returns an error marker for the given failure.
func NewMetricsError(err error) *MetricsError {
	return &MetricsError{Status: "error", Message: err.Error()}
}

// MetricsReport is either a full SystemMetrics mapping or an error marker.
// A built sample always carries one of the two; it is never absent from
// the wire payload.
type MetricsReport struct {
	Metrics *SystemMetrics
	Err     *MetricsError
}

// OK reports whether the report carries a well-formed metric mapping.
func (r MetricsReport) OK() bool {
	return r.Metrics != nil
}

// MarshalJSON encodes the metric mapping when present and the error
// marker otherwise.
func (r MetricsReport) MarshalJSON() ([]byte, error) {
	if r.Metrics != nil {
		return json.Marshal(r.Metrics)
	}
	if r.Err != nil {
		return json.Marshal(r.Err)
	}
	return json.Marshal(&MetricsError{Status: "error", Message: "metrics unavailable"})
}

// UnmarshalJSON decodes either variant, distinguishing them by the
// presence of the error-marker status field.
func (r *MetricsReport) UnmarshalJSON(data []byte) error {
	var probe struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("telemetry: system_metrics: %w", err)
	}
	if probe.Status == "error" {
		r.Metrics = nil
		r.Err = &MetricsError{}
		return json.Unmarshal(data, r.Err)
	}
	r.Err = nil
	r.Metrics = &SystemMetrics{}
	return json.Unmarshal(data, r.Metrics)
}

// Metadata describes the sampling configuration attached to every sample.
type Metadata struct {
	SampleIntervalSeconds int      `json:"sample_interval_seconds"`
	AvailableSensors      []string `json:"available_sensors"`
}

// Sample is one telemetry record. Fields are fixed once built; only
// Warnings grows, and only through Validator annotation.
type Sample struct {
	DeviceID       string        `json:"device_id"`
	Timestamp      string        `json:"timestamp"`
	CPUTemperature *float64      `json:"cpu_temperature"`
	SystemMetrics  MetricsReport `json:"system_metrics"`
	Version        string        `json:"version"`
	Metadata       Metadata      `json:"metadata"`
	Warnings       []string      `json:"warnings"`
}

// Encode serializes the sample to its UTF-8 JSON wire form.
func (s *Sample) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("telemetry: encode sample: %w", err)
	}
	return data, nil
}

// Decode parses a wire payload back into a sample.
func Decode(data []byte) (*Sample, error) {
	var s Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("telemetry: decode sample: %w", err)
	}
	return &s, nil
}
