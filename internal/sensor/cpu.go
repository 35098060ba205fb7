package sensor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// cpuCounters holds the aggregate jiffy counters from /proc/stat.
type cpuCounters struct {
	Idle   uint64
	IOWait uint64
	Total  uint64
}

func readCPUCounters(path string) (cpuCounters, error) {
	f, err := os.Open(path)
	if err != nil {
		return cpuCounters{}, fmt.Errorf("sensor: open %s: %w", path, err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return cpuCounters{}, fmt.Errorf("sensor: unexpected cpu line: %q", line)
		}
		var c cpuCounters
		for i, p := range fields[1:] {
			v, convErr := strconv.ParseUint(p, 10, 64)
			if convErr != nil {
				return cpuCounters{}, fmt.Errorf("sensor: parse cpu stat %q: %w", p, convErr)
			}
			switch i {
			case 3:
				c.Idle = v
			case 4:
				c.IOWait = v
			}
			c.Total += v
		}
		return c, nil
	}
	if err := s.Err(); err != nil {
		return cpuCounters{}, fmt.Errorf("sensor: scan %s: %w", path, err)
	}
	return cpuCounters{}, fmt.Errorf("sensor: cpu aggregate line not found in %s", path)
}

// cpuUsage computes the busy percentage between two counter readings,
// clamped to [0, 100].
func cpuUsage(prev, cur cpuCounters) float64 {
	if cur.Total <= prev.Total {
		return 0
	}
	totalDelta := float64(cur.Total - prev.Total)
	idleDelta := float64((cur.Idle + cur.IOWait) - (prev.Idle + prev.IOWait))
	if idleDelta < 0 {
		idleDelta = 0
	}
	usage := (totalDelta - idleDelta) / totalDelta * 100
	if usage < 0 {
		return 0
	}
	if usage > 100 {
		return 100
	}
	return usage
}
