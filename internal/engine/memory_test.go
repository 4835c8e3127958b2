package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/evidentia/evidentia-backend/internal/apperrors"
)

func testQuery(from, to string) string {
	return "SELECT x FROM t where from_iso8601_timestamp(COALESCE(dateTime, eventTime)) between from_unixtime(" +
		from + ") and from_unixtime(" + to + ") ORDER BY from_iso8601_timestamp(DateTimeUTC) ASC;"
}

func TestMemoryEngine_Lifecycle(t *testing.T) {
	ctx := context.Background()
	eng := NewMemoryEngine(WithStateLag(2))

	id, err := eng.Submit(ctx, testQuery("0", "9999999999"), nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for i := 0; i < 2; i++ {
		exec, err := eng.Status(ctx, id)
		if err != nil {
			t.Fatalf("Status poll %d: %v", i, err)
		}
		if exec.State != StateRunning {
			t.Fatalf("poll %d: state = %s, want %s", i, exec.State, StateRunning)
		}
		if exec.State.Terminal() {
			t.Fatalf("poll %d: RUNNING must not be terminal", i)
		}
	}

	exec, err := eng.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if exec.State != StateSucceeded {
		t.Fatalf("state = %s, want %s", exec.State, StateSucceeded)
	}

	// Terminal state is sticky across repeated polls.
	for i := 0; i < 3; i++ {
		exec, err := eng.Status(ctx, id)
		if err != nil {
			t.Fatalf("Status after terminal: %v", err)
		}
		if exec.State != StateSucceeded {
			t.Fatalf("terminal state changed to %s on poll %d", exec.State, i)
		}
	}
}

func TestMemoryEngine_RowsBeforeSuccess(t *testing.T) {
	ctx := context.Background()
	eng := NewMemoryEngine(WithStateLag(1))

	id, err := eng.Submit(ctx, testQuery("0", "9999999999"), nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err = eng.Rows(ctx, id)
	if !errors.Is(err, apperrors.ErrNotReady) {
		t.Fatalf("Rows before terminal state: err = %v, want ErrNotReady", err)
	}
}

func TestMemoryEngine_Failure(t *testing.T) {
	ctx := context.Background()
	eng := NewMemoryEngine(WithFailure("exceeded bytes scanned limit"))

	id, err := eng.Submit(ctx, testQuery("0", "9999999999"), nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	exec, err := eng.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if exec.State != StateFailed {
		t.Fatalf("state = %s, want %s", exec.State, StateFailed)
	}
	if exec.StateChangeReason != "exceeded bytes scanned limit" {
		t.Errorf("reason = %q", exec.StateChangeReason)
	}

	if _, err := eng.Rows(ctx, id); err == nil {
		t.Errorf("Rows after FAILED should error")
	}
}

// The configured window is inclusive on both ends; rows outside it never
// reach the result set.
func TestMemoryEngine_WindowFilterAndOrdering(t *testing.T) {
	ctx := context.Background()
	rows := []Row{
		{"dateTime": "1970-01-01T00:03:20Z", "eventID": "at-200"}, // unix 200, upper bound
		{"dateTime": "1970-01-01T00:01:40Z", "eventID": "at-100"}, // unix 100, lower bound
		{"dateTime": "1970-01-01T00:03:21Z", "eventID": "at-201"}, // past upper bound
		{"dateTime": "1970-01-01T00:01:39Z", "eventID": "at-99"},  // before lower bound
		{"eventTime": "1970-01-01T00:02:30Z", "eventID": "legacy-150"},
	}
	eng := NewMemoryEngine(WithRows(rows))

	id, err := eng.Submit(ctx, testQuery("100", "200"), nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := eng.Status(ctx, id); err != nil {
		t.Fatalf("Status: %v", err)
	}

	got, err := eng.Rows(ctx, id)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows inside window, got %d", len(got))
	}
	want := []string{"at-100", "legacy-150", "at-200"}
	for i, w := range want {
		if got[i]["eventID"] != w {
			t.Errorf("row %d = %s, want %s (ascending time order)", i, got[i]["eventID"], w)
		}
	}
}

func TestMemoryEngine_SubmitRejection(t *testing.T) {
	rejection := errors.New("SYNTAX_ERROR: line 1:8")
	eng := NewMemoryEngine(WithSubmitRejection(rejection))

	if _, err := eng.Submit(context.Background(), testQuery("0", "1"), nil); !errors.Is(err, rejection) {
		t.Fatalf("Submit err = %v, want %v", err, rejection)
	}
}

func TestMemoryEngine_ParameterCountMismatch(t *testing.T) {
	eng := NewMemoryEngine()
	sql := "SELECT x FROM t where caseId = ? and fileId = ? and from_iso8601_timestamp(COALESCE(dateTime, eventTime)) between from_unixtime(0) and from_unixtime(1);"

	if _, err := eng.Submit(context.Background(), sql, []string{"only-one"}); err == nil {
		t.Fatal("Submit with missing parameters should be rejected")
	}
	if _, err := eng.Submit(context.Background(), sql, []string{"a", "b"}); err != nil {
		t.Fatalf("Submit with matching parameters: %v", err)
	}
}
