//go:build !linux

package sensor

import "fmt"

func diskUsagePercent(path string) (float64, error) {
	return 0, fmt.Errorf("sensor: disk usage for %s not supported on this platform", path)
}
