// Package errors provides consistent error types for reminderd.
// It distinguishes transient delivery failures (retried implicitly on the
// next tick) from data-quality problems (logged, never fatal) and system
// errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrNotFound        = errors.New("not found")
	ErrDeliveryFailed  = errors.New("delivery failed")
	ErrMissingToken    = errors.New("bot token is not configured")
	ErrAlreadyRunning  = errors.New("daemon is already running")
	ErrNotRunning      = errors.New("daemon is not running")
	ErrMalformedClock  = errors.New("malformed HH:MM value")
	ErrInvalidKind     = errors.New("invalid reminder kind")
)

// TransientError marks an error as retryable. The reminder worker never
// persists a ledger entry when delivery fails transiently, so the same
// window is re-evaluated on the next tick.
type TransientError struct {
	Op    string
	Cause error
}

func (e *TransientError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
	return e.Cause.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// Transient wraps err as retryable.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Cause: err}
}

// IsTransient reports whether err is a retryable delivery failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// DataError marks a data-quality problem in user-configured or historical
// data. Callers fail open and log it rather than healing it silently.
type DataError struct {
	Field string
	Value string
	Cause error
}

func (e *DataError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("bad %s value %q: %v", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("bad %s: %v", e.Field, e.Cause)
}

func (e *DataError) Unwrap() error {
	return e.Cause
}

// BadData builds a DataError for the given field and offending value.
func BadData(field, value string, cause error) error {
	return &DataError{Field: field, Value: value, Cause: cause}
}

// IsDataError reports whether err is a data-quality problem.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// WithContext wraps an error with a context message. Returns nil for nil.
func WithContext(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WithContextf wraps an error with a formatted context message.
func WithContextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is re-exports errors.Is for callers that only import this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As re-exports errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New re-exports errors.New.
func New(text string) error {
	return errors.New(text)
}
