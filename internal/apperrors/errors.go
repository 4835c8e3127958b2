// Package apperrors defines the error taxonomy shared across the audit
// subsystem layers. Handlers map these onto HTTP status codes; services and
// repositories return them wrapped with context via fmt.Errorf %w.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned for malformed or missing identifiers and
	// time windows. Input failing validation never reaches the query engine.
	ErrValidation = errors.New("evidentia: invalid input")

	// ErrNotFound is returned when a resource does not exist, and also when
	// an audit job id does not belong to the asserted scope. The two are
	// deliberately indistinguishable so a caller cannot use the audit API to
	// confirm the existence of a resource it cannot access.
	ErrNotFound = errors.New("evidentia: not found")

	// ErrNotReady is returned when query results are requested before the
	// engine reports a terminal successful state.
	ErrNotReady = errors.New("evidentia: audit result not ready")
)

// SubmissionError indicates the batch query engine rejected a built query at
// submit time. The offending query text is retained for operator diagnosis
// and must be logged, never returned to the end caller.
type SubmissionError struct {
	Query string
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("audit query submission rejected: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// EngineFailure indicates a query reached a terminal FAILED or CANCELLED
// state. Reason carries the engine-provided detail.
type EngineFailure struct {
	State  string
	Reason string
}

func (e *EngineFailure) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("audit query ended in state %s", e.State)
	}
	return fmt.Sprintf("audit query ended in state %s: %s", e.State, e.Reason)
}
