package engine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evidentia/evidentia-backend/internal/apperrors"
)

// MemoryEngine is an in-process QueryEngine for local development and
// tests. It does not parse SQL beyond the time-window bounds: seeded rows
// stand in for the log store, the window filter and ascending time ordering
// mirror what the real engine's query produces. Like the real engine it
// rejects a submission whose parameter count disagrees with the
// placeholder count.
type MemoryEngine struct {
	mu         sync.Mutex
	rows       []Row
	lag        int
	failReason string
	rejectErr  error
	execs      map[string]*memExec
}

type memExec struct {
	state      State
	reason     string
	pollsLeft  int
	resultRows []Row
}

// MemoryOption configures a MemoryEngine.
type MemoryOption func(*MemoryEngine)

// WithRows seeds the engine's backing row set.
func WithRows(rows []Row) MemoryOption {
	return func(m *MemoryEngine) { m.rows = rows }
}

// WithStateLag makes each execution require n Status polls before reaching
// a terminal state, to exercise the pending path.
func WithStateLag(n int) MemoryOption {
	return func(m *MemoryEngine) { m.lag = n }
}

// WithFailure makes every execution terminate FAILED with reason.
func WithFailure(reason string) MemoryOption {
	return func(m *MemoryEngine) { m.failReason = reason }
}

// WithSubmitRejection makes Submit fail with err.
func WithSubmitRejection(err error) MemoryOption {
	return func(m *MemoryEngine) { m.rejectErr = err }
}

// NewMemoryEngine creates an engine seeded through opts.
func NewMemoryEngine(opts ...MemoryOption) *MemoryEngine {
	m := &MemoryEngine{execs: make(map[string]*memExec)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var windowRe = regexp.MustCompile(`from_unixtime\((\d+)\) and from_unixtime\((\d+)\)`)

func (m *MemoryEngine) Submit(_ context.Context, sql string, params []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejectErr != nil {
		return "", m.rejectErr
	}
	if sql == "" {
		return "", fmt.Errorf("empty query")
	}
	if want := strings.Count(sql, "?"); want != len(params) {
		return "", fmt.Errorf("query has %d placeholders but %d parameters were supplied", want, len(params))
	}

	rows := m.rows
	if match := windowRe.FindStringSubmatch(sql); match != nil {
		from, _ := strconv.ParseInt(match[1], 10, 64)
		to, _ := strconv.ParseInt(match[2], 10, 64)
		rows = filterWindow(rows, from, to)
	}
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rowTime(sorted[i]).Before(rowTime(sorted[j]))
	})

	id := uuid.New().String()
	exec := &memExec{state: StateQueued, pollsLeft: m.lag, resultRows: sorted}
	if m.failReason != "" {
		exec.reason = m.failReason
	}
	m.execs[id] = exec
	return id, nil
}

func (m *MemoryEngine) Status(_ context.Context, queryID string) (Execution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exec, ok := m.execs[queryID]
	if !ok {
		return Execution{}, fmt.Errorf("unknown query execution %s", queryID)
	}
	if !exec.state.Terminal() {
		if exec.pollsLeft > 0 {
			exec.pollsLeft--
			exec.state = StateRunning
		} else if exec.reason != "" {
			exec.state = StateFailed
		} else {
			exec.state = StateSucceeded
		}
	}
	return Execution{QueryID: queryID, State: exec.state, StateChangeReason: exec.reason}, nil
}

func (m *MemoryEngine) Rows(_ context.Context, queryID string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exec, ok := m.execs[queryID]
	if !ok {
		return nil, fmt.Errorf("unknown query execution %s", queryID)
	}
	if exec.state != StateSucceeded {
		return nil, fmt.Errorf("%w: execution state is %s", apperrors.ErrNotReady, exec.state)
	}
	out := make([]Row, len(exec.resultRows))
	copy(out, exec.resultRows)
	return out, nil
}

func filterWindow(rows []Row, from, to int64) []Row {
	var out []Row
	for _, row := range rows {
		t := rowTime(row)
		if t.IsZero() {
			continue
		}
		unix := t.Unix()
		if unix >= from && unix <= to {
			out = append(out, row)
		}
	}
	return out
}

// rowTime coalesces the occurrence time the same way the query does:
// dateTime first, eventTime as the legacy fallback.
func rowTime(row Row) time.Time {
	for _, key := range []string{"DateTimeUTC", "dateTime", "eventTime"} {
		if v, ok := row[key]; ok && v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
