package transport

import (
	"errors"
	"fmt"
	"time"
)

// Supported backends.
const (
	BackendMQTT   = "mqtt"
	BackendPubSub = "pubsub"
)

// Defaults for the broker backend, matching the public test broker the
// agent ships pointed at.
const (
	DefaultBrokerAddress  = "test.mosquitto.org"
	DefaultBrokerPort     = 1883
	DefaultTopic          = "env_monitor/data"
	DefaultKeepAlive      = 60 * time.Second
	DefaultConnectTimeout = 30 * time.Second
	DefaultPublishTimeout = 10 * time.Second
)

// Config selects and configures the publish backend.
type Config struct {
	// Backend is the transport to use: "mqtt" or "pubsub".
	// Default: "mqtt".
	Backend string `yaml:"backend"`

	Broker BrokerConfig `yaml:"broker"`
	Cloud  CloudConfig  `yaml:"cloud"`
}

// BrokerConfig holds MQTT broker connection settings.
type BrokerConfig struct {
	// Address is the broker hostname. Default: test.mosquitto.org.
	Address string `yaml:"address"`

	// Port is the broker TCP port. Default: 1883.
	Port int `yaml:"port"`

	// Topic is the publish topic. Default: env_monitor/data.
	Topic string `yaml:"topic"`

	// ClientID identifies this client's session. Defaults to
	// env_monitor_<unix-timestamp> when empty.
	ClientID string `yaml:"client_id"`

	// Username and Password enable broker authentication when both are
	// set. Setting only one is a configuration error.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// UseTLS enables transport-layer encryption. Default: false.
	UseTLS bool `yaml:"use_tls"`

	// KeepAlive is the MQTT keep-alive interval. Default: 60s.
	KeepAlive time.Duration `yaml:"keep_alive"`

	// ConnectTimeout bounds a single connect attempt. Default: 30s.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// PublishTimeout bounds the wait for a publish acknowledgement.
	// Default: 10s.
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

// CloudConfig holds Google Cloud Pub/Sub settings.
type CloudConfig struct {
	// ProjectID is the GCP project (required for the pubsub backend).
	ProjectID string `yaml:"project_id"`

	// TopicID is the Pub/Sub topic resource id (required for the pubsub
	// backend).
	TopicID string `yaml:"topic_id"`

	// ServiceAccountKey is the path to a service account key file. When
	// empty, application default credentials are used.
	ServiceAccountKey string `yaml:"service_account_key"`

	// PublishTimeout bounds the wait for the server-assigned message id.
	// Default: 10s.
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMQTT
	}
	c.Broker.ApplyDefaults()
	c.Cloud.ApplyDefaults()
}

// Validate checks that required fields are set for the selected backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMQTT:
		return c.Broker.Validate()
	case BackendPubSub:
		return c.Cloud.Validate()
	default:
		return fmt.Errorf("transport: config: unknown backend %q", c.Backend)
	}
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *BrokerConfig) ApplyDefaults() {
	if c.Address == "" {
		c.Address = DefaultBrokerAddress
	}
	if c.Port == 0 {
		c.Port = DefaultBrokerPort
	}
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	if c.ClientID == "" {
		c.ClientID = fmt.Sprintf("env_monitor_%d", time.Now().Unix())
	}
	if c.KeepAlive == 0 {
		c.KeepAlive = DefaultKeepAlive
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.PublishTimeout == 0 {
		c.PublishTimeout = DefaultPublishTimeout
	}
}

// Validate checks broker settings. Credentials are optional but must be
// supplied together.
func (c *BrokerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("transport: config: invalid broker port %d", c.Port)
	}
	if (c.Username == "") != (c.Password == "") {
		return errors.New("transport: config: username and password must be set together")
	}
	return nil
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *CloudConfig) ApplyDefaults() {
	if c.PublishTimeout == 0 {
		c.PublishTimeout = DefaultPublishTimeout
	}
}

// Validate checks that required pubsub settings are present.
func (c *CloudConfig) Validate() error {
	if c.ProjectID == "" {
		return errors.New("transport: config: project_id is required for the pubsub backend")
	}
	if c.TopicID == "" {
		return errors.New("transport: config: topic_id is required for the pubsub backend")
	}
	return nil
}
