//go:build linux

package sensor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// diskUsagePercent reports the used fraction of the filesystem at path,
// counting space reserved for root as used.
func diskUsagePercent(path string) (float64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("sensor: statfs %s: %w", path, err)
	}
	bsize := uint64(st.Bsize)
	used := (st.Blocks - st.Bfree) * bsize
	avail := st.Bavail * bsize
	if used+avail == 0 {
		return 0, fmt.Errorf("sensor: statfs %s: zero-size filesystem", path)
	}
	return float64(used) / float64(used+avail) * 100, nil
}
