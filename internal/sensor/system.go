package sensor

import (
	"context"
	"math"
	"path/filepath"
	"time"

	"github.com/sensorlabs/envmond/internal/telemetry"
)

// DefaultSampleWindow is the delta window for CPU utilization.
const DefaultSampleWindow = 1 * time.Second

// SystemReader reads OS utilization metrics from procfs and the root
// filesystem.
type SystemReader struct {
	// ProcRoot is the procfs mount point. Defaults to /proc.
	ProcRoot string

	// RootPath is the filesystem sampled for disk usage. Defaults to /.
	RootPath string

	// SampleWindow is the interval between the two /proc/stat reads used
	// for CPU utilization. Defaults to DefaultSampleWindow.
	SampleWindow time.Duration
}

// NewSystemReader creates a SystemReader with default paths.
func NewSystemReader() *SystemReader {
	return &SystemReader{
		ProcRoot:     "/proc",
		RootPath:     "/",
		SampleWindow: DefaultSampleWindow,
	}
}

// ReadMetrics takes one utilization snapshot. CPU usage is measured over
// SampleWindow, so the call blocks for at least that long unless ctx is
// cancelled first.
func (r *SystemReader) ReadMetrics(ctx context.Context) (*telemetry.SystemMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prev, err := readCPUCounters(r.procPath("stat"))
	if err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(r.sampleWindow()):
	}
	cur, err := readCPUCounters(r.procPath("stat"))
	if err != nil {
		return nil, err
	}

	memPercent, err := readMemoryPercent(r.procPath("meminfo"))
	if err != nil {
		return nil, err
	}
	diskPercent, err := diskUsagePercent(r.rootPath())
	if err != nil {
		return nil, err
	}
	network, err := readNetCounters(r.procPath("net/dev"))
	if err != nil {
		return nil, err
	}

	return &telemetry.SystemMetrics{
		CPUPercent:    round1(cpuUsage(prev, cur)),
		MemoryPercent: round1(memPercent),
		DiskPercent:   round1(diskPercent),
		Network:       network,
	}, nil
}

func (r *SystemReader) procPath(rel string) string {
	root := r.ProcRoot
	if root == "" {
		root = "/proc"
	}
	return filepath.Join(root, rel)
}

func (r *SystemReader) rootPath() string {
	if r.RootPath == "" {
		return "/"
	}
	return r.RootPath
}

func (r *SystemReader) sampleWindow() time.Duration {
	if r.SampleWindow <= 0 {
		return DefaultSampleWindow
	}
	return r.SampleWindow
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
