package sensor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// readMemoryPercent computes used-memory percentage from /proc/meminfo
// using MemTotal and MemAvailable.
func readMemoryPercent(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("sensor: open %s: %w", path, err)
	}
	defer f.Close()

	vals := map[string]uint64{}
	s := bufio.NewScanner(f)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) < 2 {
			continue
		}
		key := strings.TrimSuffix(fields[0], ":")
		v, convErr := strconv.ParseUint(fields[1], 10, 64)
		if convErr != nil {
			continue
		}
		vals[key] = v
	}
	if err := s.Err(); err != nil {
		return 0, fmt.Errorf("sensor: scan %s: %w", path, err)
	}

	total := vals["MemTotal"]
	if total == 0 {
		return 0, fmt.Errorf("sensor: MemTotal missing in %s", path)
	}
	avail := vals["MemAvailable"]
	return float64(total-avail) / float64(total) * 100, nil
}
