package telemetry

import "log/slog"

// Warnings appended by Validate.
const (
	WarnAbnormalTemperature = "Abnormal CPU temperature"
	WarnMissingMetrics      = "Missing system metrics"
)

// Temperature bounds in degrees Celsius considered plausible for the SoC
// sensor. Readings outside this range are annotated, not rejected.
const (
	minPlausibleTemp = 0.0
	maxPlausibleTemp = 100.0
)

// Validator annotates samples with data-quality warnings. It never
// rejects a sample and never removes warnings already present.
type Validator struct {
	logger *slog.Logger
}

// NewValidator creates a Validator.
func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{logger: logger.With("component", "validator")}
}

// Validate inspects the sample and appends warnings in place. An absent
// temperature reading is not a warning condition; the sensor failure is
// already represented by the nil value.
func (v *Validator) Validate(s *Sample) *Sample {
	if s.CPUTemperature != nil {
		t := *s.CPUTemperature
		if t < minPlausibleTemp || t > maxPlausibleTemp {
			v.logger.Warn("CPU temperature outside expected range", "celsius", t)
			s.Warnings = append(s.Warnings, WarnAbnormalTemperature)
		}
	}
	if !s.SystemMetrics.OK() {
		v.logger.Warn("system metrics missing or invalid")
		s.Warnings = append(s.Warnings, WarnMissingMetrics)
	}
	return s
}
