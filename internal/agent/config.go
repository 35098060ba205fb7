package agent

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sensorlabs/envmond/internal/transport"
)

const (
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultDeviceID identifies the device when none is configured.
	DefaultDeviceID = "raspberry_pi_monitor"

	// DefaultSampleIntervalSeconds is the default time between samples.
	DefaultSampleIntervalSeconds = 60
)

// Config is the top-level configuration for the envmond agent. It is
// populated from an optional YAML file, then overridden by environment
// variables, then by CLI flags.
type Config struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info".
	LogLevel string `yaml:"log_level"`

	// DeviceID identifies this device in published samples.
	// Default: raspberry_pi_monitor.
	DeviceID string `yaml:"device_id"`

	// SampleInterval is the seconds between published samples.
	// Default: 60.
	SampleInterval int `yaml:"sample_interval"`

	Transport transport.Config `yaml:"transport"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DeviceID == "" {
		c.DeviceID = DefaultDeviceID
	}
	if c.SampleInterval == 0 {
		c.SampleInterval = DefaultSampleIntervalSeconds
	}
	c.Transport.ApplyDefaults()
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("agent: config: invalid log level %q", c.LogLevel)
	}
	if c.SampleInterval < 1 {
		return fmt.Errorf("agent: config: sample_interval must be at least 1 second, got %d", c.SampleInterval)
	}
	return c.Transport.Validate()
}

// LoadConfig builds the agent configuration. The YAML file at path is
// read when path is non-empty; environment variables override file
// values. Defaults are applied and the result validated.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("agent: config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("agent: config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides configuration from the process environment.
func (c *Config) applyEnv() error {
	setString(&c.Transport.Backend, "TRANSPORT")
	setString(&c.DeviceID, "DEVICE_ID")
	setString(&c.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("SAMPLE_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("agent: config: SAMPLE_INTERVAL: %w", err)
		}
		c.SampleInterval = n
	}

	setString(&c.Transport.Broker.Address, "BROKER_ADDRESS")
	if v := os.Getenv("BROKER_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("agent: config: BROKER_PORT: %w", err)
		}
		c.Transport.Broker.Port = p
	}
	setString(&c.Transport.Broker.Topic, "TOPIC")
	setString(&c.Transport.Broker.ClientID, "CLIENT_ID")
	setString(&c.Transport.Broker.Username, "USERNAME")
	setString(&c.Transport.Broker.Password, "PASSWORD")
	if v := os.Getenv("USE_TLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("agent: config: USE_TLS: %w", err)
		}
		c.Transport.Broker.UseTLS = b
	}

	setString(&c.Transport.Cloud.ProjectID, "PROJECT_ID")
	setString(&c.Transport.Cloud.TopicID, "TOPIC_ID")
	setString(&c.Transport.Cloud.ServiceAccountKey, "SERVICE_ACCOUNT_KEY")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
