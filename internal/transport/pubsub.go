package transport

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Cloud publishes payloads to a Google Cloud Pub/Sub topic. The target is
// stateless per publish: Connect only constructs the client, and the
// transport is considered connected for as long as the client exists.
type Cloud struct {
	cfg    CloudConfig
	logger *slog.Logger

	mu     sync.Mutex
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewCloud creates a Cloud transport. The configuration must already
// have defaults applied.
func NewCloud(cfg CloudConfig, logger *slog.Logger) *Cloud {
	return &Cloud{cfg: cfg, logger: logger.With("component", "pubsub")}
}

// Connect constructs the Pub/Sub client from the configured credentials.
// A no-op when the client already exists.
func (c *Cloud) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	var opts []option.ClientOption
	if c.cfg.ServiceAccountKey != "" {
		opts = append(opts, option.WithCredentialsFile(c.cfg.ServiceAccountKey))
	}
	client, err := pubsub.NewClient(ctx, c.cfg.ProjectID, opts...)
	if err != nil {
		return &ConnectError{Message: fmt.Sprintf("create client for project %s", c.cfg.ProjectID), Err: err}
	}
	c.client = client
	c.topic = client.Topic(c.cfg.TopicID)

	c.logger.Info("pubsub client ready",
		"project_id", c.cfg.ProjectID,
		"topic_id", c.cfg.TopicID,
	)
	return nil
}

// IsConnected reports whether the client has been constructed. There is
// no session beyond holding valid credentials.
func (c *Cloud) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

// Publish sends one message and synchronously waits for the
// backend-assigned message identifier.
func (c *Cloud) Publish(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	topic := c.topic
	c.mu.Unlock()

	if topic == nil {
		return &PublishError{Message: "client not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.PublishTimeout)
	defer cancel()

	result := topic.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return &PublishError{Message: fmt.Sprintf("topic %s", c.cfg.TopicID), Err: err}
	}
	c.logger.Info("message published", "message_id", id)
	return nil
}

// Disconnect flushes the topic and closes the client. Safe to call
// repeatedly.
func (c *Cloud) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.topic != nil {
		c.topic.Stop()
		c.topic = nil
	}
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			c.logger.Warn("closing pubsub client", "error", err)
		}
		c.client = nil
	}
}

// PublishConsumesRetryBudget reports true: with no session to
// re-establish, publish failures are the only signal the retry policy
// sees.
func (c *Cloud) PublishConsumesRetryBudget() bool { return true }
