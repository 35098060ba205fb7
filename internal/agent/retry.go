package agent

import "time"

// ConnectionState is the publish loop's view of the transport session.
// Transports report outcomes; the loop owns the authoritative state.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateBackoff
	StateTerminated
)

// String returns the state name for logging.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateBackoff:
		return "backoff"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// RetryPolicy tracks consecutive failures and computes the linear backoff
// delay between attempts. The delay grows as BaseDelay * attempt rather
// than exponentially.
type RetryPolicy struct {
	// BaseDelay is the delay unit multiplied by the attempt count.
	BaseDelay time.Duration

	// MaxAttempts is the number of consecutive failures tolerated before
	// the budget is exhausted.
	MaxAttempts int

	attempt int
}

// Fail records one failure. It reports false when the retry budget is
// exhausted.
func (p *RetryPolicy) Fail() bool {
	p.attempt++
	return p.attempt <= p.MaxAttempts
}

// Delay returns the wait before the next attempt.
func (p *RetryPolicy) Delay() time.Duration {
	return time.Duration(p.attempt) * p.BaseDelay
}

// Reset clears the failure count after a successful connect or publish.
func (p *RetryPolicy) Reset() {
	p.attempt = 0
}

// Attempt returns the current consecutive-failure count.
func (p *RetryPolicy) Attempt() int {
	return p.attempt
}

// Clock abstracts time operations for testing.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// realClock uses the actual system time.
type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
