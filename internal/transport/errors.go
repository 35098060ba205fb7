package transport

import "fmt"

// ConnectError describes a failed connection attempt. It supports
// errors.Is matching against the sentinel causes below, following the
// broker's connack reason codes.
type ConnectError struct {
	Code    int
	Message string
	Err     error
}

// Error returns the formatted error string.
func (e *ConnectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: connect: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("transport: connect: %s", e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *ConnectError) Unwrap() error { return e.Err }

// Is supports errors.Is matching by reason code. Code 0 sentinels never
// match; generic connect errors carry no code.
func (e *ConnectError) Is(target error) bool {
	t, ok := target.(*ConnectError)
	if !ok {
		return false
	}
	return t.Code != 0 && e.Code == t.Code
}

// Sentinel connect failures mirroring the broker's connack reason codes.
var (
	ErrBadProtocolVersion = &ConnectError{Code: 1, Message: "incorrect protocol version"}
	ErrBadClientID        = &ConnectError{Code: 2, Message: "invalid client identifier"}
	ErrServerUnavailable  = &ConnectError{Code: 3, Message: "server unavailable"}
	ErrBadCredentials     = &ConnectError{Code: 4, Message: "bad username or password"}
	ErrNotAuthorized      = &ConnectError{Code: 5, Message: "not authorized"}
)

// PublishError describes a delivery attempt that failed after the
// session was established.
type PublishError struct {
	Message string
	Err     error
}

// Error returns the formatted error string.
func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: publish: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("transport: publish: %s", e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *PublishError) Unwrap() error { return e.Err }
