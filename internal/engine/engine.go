// Package engine defines the batch query engine collaborator: an external
// service that executes SQL asynchronously against the audit log store.
// This subsystem submits queries, polls job status and fetches rows; the
// engine owns job bookkeeping and result lifetime.
package engine

import "context"

// State is the lifecycle state of one query execution. Transitions are
// monotonic: QUEUED -> RUNNING -> {SUCCEEDED | FAILED | CANCELLED}, and
// terminal states are final.
type State string

const (
	StateQueued    State = "QUEUED"
	StateRunning   State = "RUNNING"
	StateSucceeded State = "SUCCEEDED"
	StateFailed    State = "FAILED"
	StateCancelled State = "CANCELLED"
)

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	}
	return false
}

// Execution is the engine's view of one submitted query.
type Execution struct {
	QueryID string
	State   State
	// StateChangeReason carries engine-provided detail for FAILED and
	// CANCELLED states; callers must surface it, never a generic failure.
	StateChangeReason string
	// OutputLocation is where the engine materialized the result set, when
	// it exposes one.
	OutputLocation string
}

// Row is one raw result row: source field name to value. Nested source
// fields use dotted keys (actorIdentity.sourceIp). Values the row lacks are
// simply absent.
type Row map[string]string

// QueryEngine is the collaborator contract. Submit takes placeholder query
// text plus its execution parameters in placeholder order, and returns an
// opaque query id or an error when the engine rejects the query outright.
// Rows is only valid once Status reports SUCCEEDED.
type QueryEngine interface {
	Submit(ctx context.Context, sql string, params []string) (string, error)
	Status(ctx context.Context, queryID string) (Execution, error)
	Rows(ctx context.Context, queryID string) ([]Row, error)
}
