package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"
)

// qosAtLeastOnce requests acknowledged delivery: the broker may deliver a
// message more than once under retry but never silently drops one it
// accepted.
const qosAtLeastOnce = 1

// disconnectQuiesce is how long the paho client waits for in-flight
// messages on disconnect, in milliseconds.
const disconnectQuiesce = 250

// Broker publishes payloads to an MQTT broker with at-least-once
// delivery. The underlying client is discarded after a failed connect and
// rebuilt on the next attempt.
type Broker struct {
	cfg    BrokerConfig
	logger *slog.Logger

	mu     sync.Mutex
	client mqtt.Client
}

// pahoLogBridge routes paho's internal logging onto slog once per
// process.
var pahoLogBridge sync.Once

// NewBroker creates a Broker transport. The configuration must already
// have defaults applied.
func NewBroker(cfg BrokerConfig, logger *slog.Logger) *Broker {
	logger = logger.With("component", "mqtt")
	pahoLogBridge.Do(func() {
		mqtt.ERROR = slogPrinter{logger, slog.LevelError}
		mqtt.CRITICAL = slogPrinter{logger, slog.LevelError}
		mqtt.WARN = slogPrinter{logger, slog.LevelWarn}
	})
	return &Broker{cfg: cfg, logger: logger}
}

// Connect establishes the broker session. A no-op when already
// connected. On failure the client instance is discarded so the next
// attempt starts from a fresh session.
func (b *Broker) Connect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil && b.client.IsConnected() {
		return nil
	}
	if b.client == nil {
		b.client = mqtt.NewClient(b.options())
	}

	b.logger.Info("connecting to broker",
		"address", b.cfg.Address,
		"port", b.cfg.Port,
		"client_id", b.cfg.ClientID,
	)

	token := b.client.Connect()
	select {
	case <-ctx.Done():
		b.teardownLocked()
		return ctx.Err()
	case <-time.After(b.cfg.ConnectTimeout):
		b.teardownLocked()
		return &ConnectError{Message: fmt.Sprintf("timed out after %s", b.cfg.ConnectTimeout)}
	case <-token.Done():
	}

	if err := token.Error(); err != nil {
		b.teardownLocked()
		cerr := classifyConnect(err)
		b.logger.Error("broker refused connection", "cause", cerr.Message, "error", err)
		return cerr
	}

	b.logger.Info("connected to broker", "address", b.cfg.Address)
	return nil
}

// IsConnected reports whether the broker session is established.
func (b *Broker) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client != nil && b.client.IsConnected()
}

// Publish sends one message at QoS 1 and waits for the broker's
// acknowledgement outcome.
func (b *Broker) Publish(ctx context.Context, payload []byte) error {
	b.mu.Lock()
	client := b.client
	b.mu.Unlock()

	if client == nil || !client.IsConnected() {
		return &PublishError{Message: "not connected"}
	}

	token := client.Publish(b.cfg.Topic, qosAtLeastOnce, false, payload)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.cfg.PublishTimeout):
		return &PublishError{Message: fmt.Sprintf("timed out after %s", b.cfg.PublishTimeout)}
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return &PublishError{Message: "broker rejected message", Err: err}
	}
	return nil
}

// Disconnect closes the session and discards the client. Safe to call
// repeatedly.
func (b *Broker) Disconnect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.teardownLocked()
}

// PublishConsumesRetryBudget reports false: the broker connection is
// assumed still usable after an isolated publish failure.
func (b *Broker) PublishConsumesRetryBudget() bool { return false }

// teardownLocked disconnects and discards the client. Caller holds b.mu.
func (b *Broker) teardownLocked() {
	if b.client == nil {
		return
	}
	if b.client.IsConnected() {
		b.client.Disconnect(disconnectQuiesce)
		b.logger.Info("disconnected from broker")
	}
	b.client = nil
}

func (b *Broker) options() *mqtt.ClientOptions {
	scheme := "tcp"
	if b.cfg.UseTLS {
		scheme = "tls"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%d", scheme, b.cfg.Address, b.cfg.Port)).
		SetClientID(b.cfg.ClientID).
		SetCleanSession(true).
		SetKeepAlive(b.cfg.KeepAlive).
		SetAutoReconnect(false).
		SetConnectRetry(false)

	if b.cfg.Username != "" {
		opts.SetUsername(b.cfg.Username)
		opts.SetPassword(b.cfg.Password)
	}
	if b.cfg.UseTLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		b.logger.Warn("unexpected disconnection from broker", "error", err)
	})
	return opts
}

// classifyConnect maps a paho connect error onto the canonical connack
// diagnoses.
func classifyConnect(err error) *ConnectError {
	for _, sentinel := range []struct {
		pahoErr error
		cause   *ConnectError
	}{
		{packets.ErrorRefusedBadProtocolVersion, ErrBadProtocolVersion},
		{packets.ErrorRefusedIDRejected, ErrBadClientID},
		{packets.ErrorRefusedServerUnavailable, ErrServerUnavailable},
		{packets.ErrorRefusedBadUsernameOrPassword, ErrBadCredentials},
		{packets.ErrorRefusedNotAuthorised, ErrNotAuthorized},
	} {
		if errors.Is(err, sentinel.pahoErr) {
			return &ConnectError{Code: sentinel.cause.Code, Message: sentinel.cause.Message, Err: err}
		}
	}
	return &ConnectError{Message: "connection failed", Err: err}
}

// slogPrinter adapts paho's Logger interface onto slog.
type slogPrinter struct {
	logger *slog.Logger
	level  slog.Level
}

func (p slogPrinter) Println(v ...interface{}) {
	p.logger.Log(context.Background(), p.level, fmt.Sprint(v...))
}

func (p slogPrinter) Printf(format string, v ...interface{}) {
	p.logger.Log(context.Background(), p.level, fmt.Sprintf(format, v...))
}
