// Package transport abstracts message delivery to the configured publish
// target: an MQTT broker or a Google Cloud Pub/Sub topic.
package transport

import (
	"context"
	"fmt"
	"log/slog"
)

// Transport delivers one payload at a time to a publish target.
type Transport interface {
	// Connect establishes the underlying session. Calling it while
	// already connected is a no-op success.
	Connect(ctx context.Context) error

	// IsConnected is a cheap, non-blocking liveness check.
	IsConnected() bool

	// Publish delivers one message, blocking until the delivery outcome
	// for this call is known.
	Publish(ctx context.Context, payload []byte) error

	// Disconnect releases resources. Safe to call repeatedly and safe to
	// call when never connected.
	Disconnect()

	// PublishConsumesRetryBudget reports whether failed publishes count
	// against the agent's shared retry budget. Stateless targets have no
	// session to re-establish, so publish failures are their only
	// retry signal.
	PublishConsumesRetryBudget() bool
}

// New builds the transport selected by cfg.Backend.
func New(cfg Config, logger *slog.Logger) (Transport, error) {
	switch cfg.Backend {
	case BackendMQTT:
		return NewBroker(cfg.Broker, logger), nil
	case BackendPubSub:
		return NewCloud(cfg.Cloud, logger), nil
	default:
		return nil, fmt.Errorf("transport: unknown backend %q", cfg.Backend)
	}
}
