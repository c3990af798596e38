package services

import (
	"fmt"
)

// Typed errors returned by the rule engines. Handlers map these onto HTTP
// statuses; the messages are specific enough to show to users directly.

// ValidationError reports malformed input. It is always returned before any
// store mutation happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced record that is absent, not owned by the
// caller, or already soft-deleted.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// InvariantViolationError reports an operation that would break the
// single-primary or last-record rule for contact records.
type InvariantViolationError struct {
	Message string
}

func (e *InvariantViolationError) Error() string { return e.Message }

func NewInvariantViolationError(format string, args ...interface{}) *InvariantViolationError {
	return &InvariantViolationError{Message: fmt.Sprintf(format, args...)}
}

// ExpiredError reports an invitation code past its expiry time.
type ExpiredError struct {
	Message string
}

func (e *ExpiredError) Error() string { return e.Message }

// ExhaustedError reports an invitation code that has reached its usage cap.
type ExhaustedError struct {
	Message string
}

func (e *ExhaustedError) Error() string { return e.Message }

// StoreError wraps an underlying data-store failure. It is propagated
// unchanged and never retried by the engine.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store error: " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Err: err}
}
