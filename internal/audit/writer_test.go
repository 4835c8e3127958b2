package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/evidentia/evidentia-backend/internal/apperrors"
)

// captureSink records every serialized event it receives.
type captureSink struct {
	records [][]byte
	putErr  error
}

func (s *captureSink) Put(_ context.Context, _ time.Time, record []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.records = append(s.records, record)
	return nil
}

func (s *captureSink) Close() error { return nil }

func completeEvent() *CJISAuditEventBody {
	return &CJISAuditEventBody{
		DateTime:        "2026-02-01T10:00:00Z",
		RequestPath:     "/cases/x/audit",
		SourceComponent: SourceAPIGateway,
		EventType:       EventRequestCaseAudit,
		ActorIdentity: ActorIdentity{
			IDType:   IdentityFullUser,
			SourceIP: "10.0.0.9",
			Username: "analyst",
			IDToken:  "eyJhbGciOi.secret.token",
		},
		Result:  ResultSuccess,
		EventID: "e-1",
	}
}

func TestLogWriter_WritesMaskedRecord(t *testing.T) {
	sink := &captureSink{}
	w := NewLogWriter(sink, slog.Default())

	if err := w.Write(context.Background(), completeEvent()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}

	var stored map[string]any
	if err := json.Unmarshal(sink.records[0], &stored); err != nil {
		t.Fatalf("stored record is not JSON: %v", err)
	}
	actor := stored["actorIdentity"].(map[string]any)
	if actor["idToken"] != "***REDACTED***" {
		t.Errorf("idToken not masked in stored record: %v", actor["idToken"])
	}
	if actor["username"] != "analyst" {
		t.Errorf("username should survive masking: %v", actor["username"])
	}
	if stored["eventType"] != "RequestCaseAudit" {
		t.Errorf("unexpected eventType: %v", stored["eventType"])
	}
}

func TestLogWriter_RejectsIncompleteEvent(t *testing.T) {
	sink := &captureSink{}
	w := NewLogWriter(sink, slog.Default())

	event := completeEvent()
	event.Result = ""
	err := w.Write(context.Background(), event)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("incomplete event must not reach the sink")
	}
}

func TestLogWriter_ContinueOnErrorSwallowsValidation(t *testing.T) {
	sink := &captureSink{}
	w := NewLogWriter(sink, slog.Default(), WithContinueOnError())

	event := completeEvent()
	event.DateTime = ""
	if err := w.Write(context.Background(), event); err != nil {
		t.Fatalf("continue-on-error writer should swallow validation failure, got %v", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("dropped event must not reach the sink")
	}

	// Sink failures are still surfaced.
	sink.putErr = errors.New("disk full")
	if err := w.Write(context.Background(), completeEvent()); err == nil {
		t.Fatalf("sink failure must be returned even with continue-on-error")
	}
}

func TestLogWriter_CustomMaskFields(t *testing.T) {
	sink := &captureSink{}
	w := NewLogWriter(sink, slog.Default(), WithMaskFields([]string{"authCode"}))

	event := completeEvent()
	event.ActorIdentity.AuthCode = "abc-123"
	if err := w.Write(context.Background(), event); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var stored map[string]any
	if err := json.Unmarshal(sink.records[0], &stored); err != nil {
		t.Fatalf("stored record is not JSON: %v", err)
	}
	actor := stored["actorIdentity"].(map[string]any)
	if actor["authCode"] != "***REDACTED***" {
		t.Errorf("authCode not masked: %v", actor["authCode"])
	}
	if actor["idToken"] == "***REDACTED***" {
		t.Errorf("default mask list should be replaced, not extended")
	}
}
