package sensor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// DefaultThermalZonePath is the generic sysfs thermal node used when
// vcgencmd is unavailable. The value is in millidegrees Celsius.
const DefaultThermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// vcgencmd prints `temp=48.3'C`.
var vcgenTempPattern = regexp.MustCompile(`temp=([0-9.]+)'C`)

// CPUTemperature reads the SoC temperature, preferring the Raspberry Pi
// vcgencmd utility and falling back to the sysfs thermal zone.
type CPUTemperature struct {
	// ThermalZonePath overrides the sysfs fallback node. Defaults to
	// DefaultThermalZonePath when empty.
	ThermalZonePath string
}

// ReadTemperature returns the temperature in degrees Celsius.
func (r *CPUTemperature) ReadTemperature(ctx context.Context) (float64, error) {
	if v, err := r.readVcgencmd(ctx); err == nil {
		return v, nil
	}
	return r.readThermalZone()
}

func (r *CPUTemperature) readVcgencmd(ctx context.Context) (float64, error) {
	out, err := exec.CommandContext(ctx, "vcgencmd", "measure_temp").Output()
	if err != nil {
		return 0, fmt.Errorf("sensor: vcgencmd: %w", err)
	}
	m := vcgenTempPattern.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("sensor: vcgencmd: unexpected output %q", out)
	}
	v, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("sensor: vcgencmd: parse %q: %w", m[1], err)
	}
	return v, nil
}

func (r *CPUTemperature) readThermalZone() (float64, error) {
	path := r.ThermalZonePath
	if path == "" {
		path = DefaultThermalZonePath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("sensor: thermal zone: %w", err)
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, fmt.Errorf("sensor: thermal zone: parse %q: %w", raw, err)
	}
	return milli / 1000, nil
}
