package ai

import "fmt"

// TransientError marks an upstream failure worth retrying: network errors,
// timeouts, malformed or schema-invalid responses.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient upstream error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// UnrecoverableError marks an upstream failure that will not resolve within
// the request's lifetime: authentication, permission, or quota exhaustion.
// The orchestrator skips remaining retries and goes straight to fallback.
type UnrecoverableError struct {
	Err error
}

func (e *UnrecoverableError) Error() string {
	return fmt.Sprintf("unrecoverable upstream error: %v", e.Err)
}

func (e *UnrecoverableError) Unwrap() error { return e.Err }

// Transient wraps err as retryable. Returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Unrecoverable wraps err as not worth retrying. Returns nil for a nil err.
func Unrecoverable(err error) error {
	if err == nil {
		return nil
	}
	return &UnrecoverableError{Err: err}
}
