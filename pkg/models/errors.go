package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrShouldRetry marks a health probe that could not reach the server yet.
// It only drives the liveness polling loop and is never returned to callers.
var ErrShouldRetry = errors.New("server not reachable yet")

type RetryableError struct {
	Endpoint string
	Err      error
}

func (e *RetryableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("health probe to %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("health probe to %s failed", e.Endpoint)
}

func (*RetryableError) Unwrap() error {
	return ErrShouldRetry
}

func NewRetryableError(endpoint string, err error) error {
	return &RetryableError{Endpoint: endpoint, Err: err}
}

var ErrPermanentlyFailed = errors.New("server permanently failed")

// PermanentlyFailedError is returned when the server will not become reachable:
// the liveness deadline passed, the port was taken in strict mode, or the
// owned process exited before it became healthy.
type PermanentlyFailedError struct {
	Endpoint string
	Reason   string
	Elapsed  time.Duration
	Spawned  bool
	Err      error
}

func (e *PermanentlyFailedError) Error() string {
	msg := fmt.Sprintf(
		"corenlp server at %s permanently failed: %s (waited %s, process spawned: %t)",
		e.Endpoint,
		e.Reason,
		e.Elapsed.Round(time.Millisecond),
		e.Spawned,
	)
	if e.Err != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.Err)
	}
	return msg
}

func (*PermanentlyFailedError) Unwrap() error {
	return ErrPermanentlyFailed
}

func NewPermanentlyFailedError(
	endpoint, reason string,
	elapsed time.Duration,
	spawned bool,
	err error,
) *PermanentlyFailedError {
	return &PermanentlyFailedError{
		Endpoint: endpoint,
		Reason:   reason,
		Elapsed:  elapsed,
		Spawned:  spawned,
		Err:      err,
	}
}

var ErrLookup = errors.New("properties lookup failed")

// LookupError is returned when a properties cache label is neither registered
// nor the name of a supported language.
type LookupError struct {
	Label string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("properties cache does not have %s", e.Label)
}

func (*LookupError) Unwrap() error {
	return ErrLookup
}

func NewLookupError(label string) error {
	return &LookupError{Label: label}
}

var ErrInvalidConfig = errors.New("invalid configuration")

type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

func (*ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func NewConfigError(format string, args ...any) error {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}
