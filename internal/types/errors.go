package types

import (
	"errors"
	"fmt"
)

// Run-level failure sentinels. Per-stage failures inside the run loop are
// absorbed where they occur; only these two surface to the caller, and both
// still carry the partial findings collected before the fault.
var (
	// ErrStepLimitExceeded reports that the run performed more orchestration
	// steps than the configured ceiling allows. Distinguished from generic
	// failure so callers can treat "did too much work" differently from
	// "broke".
	ErrStepLimitExceeded = errors.New("orchestration step limit exceeded")

	// ErrRunFailed reports an unexpected, unrecoverable fault in the run
	// loop (including a recovered panic).
	ErrRunFailed = errors.New("run failed")
)

// RunError wraps an underlying fault with the run-level sentinel it maps to,
// so callers can branch with errors.Is while keeping the root cause.
type RunError struct {
	Kind  error // one of the sentinels above
	Cause error
}

// Error formats the error as "<kind>: <cause>".
func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return e.Kind.Error()
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *RunError) Unwrap() error { return e.Cause }

// Is matches both the sentinel kind and the wrapped cause.
func (e *RunError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// NewStepLimitError builds a RunError for a step-ceiling fault.
func NewStepLimitError(steps int) *RunError {
	return &RunError{
		Kind:  ErrStepLimitExceeded,
		Cause: fmt.Errorf("ceiling reached after %d steps", steps),
	}
}

// NewRunError builds a RunError for a generic run fault.
func NewRunError(cause error) *RunError {
	return &RunError{Kind: ErrRunFailed, Cause: cause}
}
