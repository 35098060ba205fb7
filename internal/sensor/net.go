package sensor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sensorlabs/envmond/internal/telemetry"
)

// readNetCounters sums cumulative byte counters from /proc/net/dev across
// all interfaces except loopback.
func readNetCounters(path string) (telemetry.NetworkCounters, error) {
	f, err := os.Open(path)
	if err != nil {
		return telemetry.NetworkCounters{}, fmt.Errorf("sensor: open %s: %w", path, err)
	}
	defer f.Close()

	var out telemetry.NetworkCounters
	s := bufio.NewScanner(f)
	lineNo := 0
	for s.Scan() {
		lineNo++
		if lineNo <= 2 {
			// header lines
			continue
		}
		line := strings.TrimSpace(s.Text())
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		iface := strings.TrimSpace(parts[0])
		if iface == "lo" || iface == "" {
			continue
		}
		fields := strings.Fields(parts[1])
		if len(fields) < 16 {
			continue
		}
		recv, recvErr := strconv.ParseUint(fields[0], 10, 64)
		sent, sentErr := strconv.ParseUint(fields[8], 10, 64)
		if recvErr != nil || sentErr != nil {
			continue
		}
		out.BytesRecv += recv
		out.BytesSent += sent
	}
	if err := s.Err(); err != nil {
		return telemetry.NetworkCounters{}, fmt.Errorf("sensor: scan %s: %w", path, err)
	}
	return out, nil
}
