package transport

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Backend != BackendMQTT {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendMQTT)
	}
	if cfg.Broker.Address != DefaultBrokerAddress {
		t.Errorf("Address = %q, want %q", cfg.Broker.Address, DefaultBrokerAddress)
	}
	if cfg.Broker.Port != DefaultBrokerPort {
		t.Errorf("Port = %d, want %d", cfg.Broker.Port, DefaultBrokerPort)
	}
	if cfg.Broker.Topic != DefaultTopic {
		t.Errorf("Topic = %q, want %q", cfg.Broker.Topic, DefaultTopic)
	}
	if !strings.HasPrefix(cfg.Broker.ClientID, "env_monitor_") {
		t.Errorf("ClientID = %q, want env_monitor_<timestamp>", cfg.Broker.ClientID)
	}
	if cfg.Broker.KeepAlive != 60*time.Second {
		t.Errorf("KeepAlive = %v, want 60s", cfg.Broker.KeepAlive)
	}
	if cfg.Cloud.PublishTimeout != DefaultPublishTimeout {
		t.Errorf("Cloud.PublishTimeout = %v, want %v", cfg.Cloud.PublishTimeout, DefaultPublishTimeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(*Config) {}, wantErr: false},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Backend = "carrier-pigeon" },
			wantErr: true,
		},
		{
			name:    "username without password",
			mutate:  func(c *Config) { c.Broker.Username = "monitor" },
			wantErr: true,
		},
		{
			name:    "password without username",
			mutate:  func(c *Config) { c.Broker.Password = "hunter2" },
			wantErr: true,
		},
		{
			name: "credentials together",
			mutate: func(c *Config) {
				c.Broker.Username = "monitor"
				c.Broker.Password = "hunter2"
			},
			wantErr: false,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Broker.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "pubsub missing project",
			mutate:  func(c *Config) { c.Backend = BackendPubSub; c.Cloud.TopicID = "env-monitor-data" },
			wantErr: true,
		},
		{
			name:    "pubsub missing topic",
			mutate:  func(c *Config) { c.Backend = BackendPubSub; c.Cloud.ProjectID = "demo-project" },
			wantErr: true,
		},
		{
			name: "pubsub complete",
			mutate: func(c *Config) {
				c.Backend = BackendPubSub
				c.Cloud.ProjectID = "demo-project"
				c.Cloud.TopicID = "env-monitor-data"
			},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_BackendSelection(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	tr, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := tr.(*Broker); !ok {
		t.Errorf("New() with mqtt backend = %T, want *Broker", tr)
	}
	if tr.PublishConsumesRetryBudget() {
		t.Error("Broker.PublishConsumesRetryBudget() = true, want false")
	}

	cfg.Backend = BackendPubSub
	cfg.Cloud.ProjectID = "demo"
	cfg.Cloud.TopicID = "data"
	tr, err = New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := tr.(*Cloud); !ok {
		t.Errorf("New() with pubsub backend = %T, want *Cloud", tr)
	}
	if !tr.PublishConsumesRetryBudget() {
		t.Error("Cloud.PublishConsumesRetryBudget() = false, want true")
	}

	cfg.Backend = "bogus"
	if _, err := New(cfg, discardLogger()); err == nil {
		t.Error("New() with unknown backend: expected error, got nil")
	}
}
