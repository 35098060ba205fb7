// Package agent wires sensing, payload assembly, and transport delivery
// into the periodic publish loop.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sensorlabs/envmond/internal/sensor"
	"github.com/sensorlabs/envmond/internal/telemetry"
	"github.com/sensorlabs/envmond/internal/transport"
)

// Loop defaults.
const (
	DefaultSampleInterval = 60 * time.Second
	DefaultBaseDelay      = 5 * time.Second
	DefaultMaxAttempts    = 10
)

// ErrRetryBudgetExhausted is the terminal cause when the maximum number
// of consecutive failures is reached.
var ErrRetryBudgetExhausted = errors.New("retry budget exhausted")

// SnapshotProvider supplies one best-effort sensor reading per tick.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) sensor.Snapshot
}

// LoopConfig holds the publish loop settings.
type LoopConfig struct {
	// SampleInterval is the time between published samples.
	// Default: 60s.
	SampleInterval time.Duration

	// BaseDelay is the linear backoff unit between retry attempts.
	// Default: 5s.
	BaseDelay time.Duration

	// MaxAttempts is the consecutive-failure budget before the loop
	// terminates. Default: 10.
	MaxAttempts int

	// Once makes the loop publish a single sample and exit.
	Once bool
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *LoopConfig) ApplyDefaults() {
	if c.SampleInterval == 0 {
		c.SampleInterval = DefaultSampleInterval
	}
	if c.BaseDelay == 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
}

// Validate checks that configuration values are acceptable.
func (c *LoopConfig) Validate() error {
	if c.SampleInterval < time.Second {
		return errors.New("agent: config: SampleInterval must be at least 1s")
	}
	if c.BaseDelay <= 0 {
		return errors.New("agent: config: BaseDelay must be positive")
	}
	if c.MaxAttempts <= 0 {
		return errors.New("agent: config: MaxAttempts must be positive")
	}
	return nil
}

// Loop drives the sample/publish cycle and owns both the transport
// connection state machine and the retry budget. One cycle runs to
// completion before the next begins; there is no concurrent fan-out of
// samples.
type Loop struct {
	cfg       LoopConfig
	provider  SnapshotProvider
	builder   *telemetry.Builder
	validator *telemetry.Validator
	tr        transport.Transport
	clock     Clock
	logger    *slog.Logger

	state ConnectionState
	retry RetryPolicy
}

// NewLoop creates a Loop. Config defaults are applied automatically.
func NewLoop(cfg LoopConfig, provider SnapshotProvider, builder *telemetry.Builder, validator *telemetry.Validator, tr transport.Transport, logger *slog.Logger) *Loop {
	cfg.ApplyDefaults()
	return &Loop{
		cfg:       cfg,
		provider:  provider,
		builder:   builder,
		validator: validator,
		tr:        tr,
		clock:     realClock{},
		logger:    logger.With("component", "loop"),
		state:     StateDisconnected,
		retry:     RetryPolicy{BaseDelay: cfg.BaseDelay, MaxAttempts: cfg.MaxAttempts},
	}
}

// SetClock sets a custom clock implementation for testing.
func (l *Loop) SetClock(c Clock) {
	l.clock = c
}

// State returns the current connection state.
func (l *Loop) State() ConnectionState {
	return l.state
}

// Run executes the publish loop until ctx is cancelled or the retry
// budget is exhausted. It returns nil on operator shutdown and an error
// wrapping ErrRetryBudgetExhausted on fatal termination. The transport
// is disconnected on every exit path.
func (l *Loop) Run(ctx context.Context) error {
	defer l.tr.Disconnect()

	for {
		if ctx.Err() != nil {
			l.setState(StateTerminated)
			l.logger.Info("operator shutdown", "reason", ctx.Err())
			return nil
		}

		if !l.tr.IsConnected() {
			l.setState(StateConnecting)
			if err := l.tr.Connect(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				if fatal := l.backoff(ctx, err); fatal != nil {
					return fatal
				}
				// No sample is collected on a connect-failure cycle.
				continue
			}
			l.setState(StateConnected)
			l.retry.Reset()
		}

		err := l.publishOnce(ctx)
		switch {
		case err == nil:
			l.retry.Reset()
		case ctx.Err() != nil:
			continue
		case l.tr.PublishConsumesRetryBudget() && !l.cfg.Once:
			if fatal := l.backoff(ctx, err); fatal != nil {
				return fatal
			}
			continue
		default:
			// The connection is assumed still usable; try again on the
			// next tick.
			l.logger.Warn("publish failed, retrying next tick", "error", err)
		}

		if l.cfg.Once {
			l.setState(StateTerminated)
			return nil
		}

		if err := l.sleep(ctx, l.cfg.SampleInterval); err != nil {
			// Interrupted; the next iteration exits cleanly.
			continue
		}
	}
}

// publishOnce collects, validates, and publishes one sample.
func (l *Loop) publishOnce(ctx context.Context) error {
	snap := l.provider.Snapshot(ctx)
	sample := l.validator.Validate(l.builder.Build(snap.CPUTemperature, snap.Metrics))

	payload, err := sample.Encode()
	if err != nil {
		return err
	}
	if err := l.tr.Publish(ctx, payload); err != nil {
		return err
	}
	l.logger.Info("sample published",
		"device_id", sample.DeviceID,
		"warnings", len(sample.Warnings),
	)
	return nil
}

// backoff records a failure and waits the linear backoff delay. It
// returns a fatal error when the retry budget is exhausted and nil when
// the loop should try again.
func (l *Loop) backoff(ctx context.Context, cause error) error {
	if !l.retry.Fail() {
		l.setState(StateTerminated)
		l.logger.Error("maximum retry attempts reached",
			"attempts", l.cfg.MaxAttempts,
			"error", cause,
		)
		return fmt.Errorf("agent: %w after %d attempts: %v", ErrRetryBudgetExhausted, l.cfg.MaxAttempts, cause)
	}

	l.setState(StateBackoff)
	delay := l.retry.Delay()
	l.logger.Warn("backing off",
		"attempt", l.retry.Attempt(),
		"max_attempts", l.cfg.MaxAttempts,
		"delay", delay,
		"error", cause,
	)
	// An interrupt during the wait is picked up at the top of the loop.
	_ = l.sleep(ctx, delay)
	return nil
}

// sleep blocks until d elapses or ctx is cancelled.
func (l *Loop) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.clock.After(d):
		return nil
	}
}

func (l *Loop) setState(s ConnectionState) {
	if l.state == s {
		return
	}
	l.logger.Debug("state transition", "from", l.state, "to", s)
	l.state = s
}
