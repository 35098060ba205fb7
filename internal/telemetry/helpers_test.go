package telemetry

import "log/slog"

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, nil))
}

func floatPtr(v float64) *float64 { return &v }

func validMetrics() MetricsReport {
	return MetricsReport{
		Metrics: &SystemMetrics{
			CPUPercent:    12.5,
			MemoryPercent: 43.2,
			DiskPercent:   71.0,
			Network:       NetworkCounters{BytesSent: 1024, BytesRecv: 4096},
		},
	}
}
