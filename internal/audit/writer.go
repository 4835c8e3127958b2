package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/evidentia/evidentia-backend/internal/apperrors"
	"github.com/evidentia/evidentia-backend/internal/pkg/metrics"
	"github.com/evidentia/evidentia-backend/internal/pkg/redact"
)

// EventSink receives one serialized audit record per call. Implementations
// own transport and durability; the writer owns validation and masking.
type EventSink interface {
	Put(ctx context.Context, timestamp time.Time, record []byte) error
	Close() error
}

// Writer is the producer interface the rest of the application consumes.
type Writer interface {
	Write(ctx context.Context, event *CJISAuditEventBody) error
}

// LogWriter validates, masks and serializes audit events before handing
// them to a sink. One Write call per application action.
type LogWriter struct {
	sink            EventSink
	maskFields      []string
	continueOnError bool
	log             *slog.Logger
}

// LogWriterOption configures a LogWriter.
type LogWriterOption func(*LogWriter)

// WithMaskFields overrides the default sensitive-field mask list.
func WithMaskFields(fields []string) LogWriterOption {
	return func(w *LogWriter) { w.maskFields = fields }
}

// WithContinueOnError makes the writer log and swallow validation failures
// instead of returning them. Sink failures are always returned.
func WithContinueOnError() LogWriterOption {
	return func(w *LogWriter) { w.continueOnError = true }
}

// NewLogWriter creates a writer over sink.
func NewLogWriter(sink EventSink, log *slog.Logger, opts ...LogWriterOption) *LogWriter {
	w := &LogWriter{
		sink:       sink,
		maskFields: redact.DefaultMaskFields,
		log:        log,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write validates required fields, masks sensitive values and appends the
// event to the sink as one JSON record.
func (w *LogWriter) Write(ctx context.Context, event *CJISAuditEventBody) error {
	if err := validateRequired(event); err != nil {
		metrics.AuditEventWriteFailuresTotal.Inc()
		if w.continueOnError {
			w.log.Warn("dropping incomplete audit event", "error", err)
			return nil
		}
		return err
	}

	raw, err := json.Marshal(event)
	if err != nil {
		metrics.AuditEventWriteFailuresTotal.Inc()
		return fmt.Errorf("failed to serialize audit event: %w", err)
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		metrics.AuditEventWriteFailuresTotal.Inc()
		return fmt.Errorf("failed to reshape audit event: %w", err)
	}
	redact.MaskFields(asMap, w.maskFields)
	record, err := json.Marshal(asMap)
	if err != nil {
		metrics.AuditEventWriteFailuresTotal.Inc()
		return fmt.Errorf("failed to serialize masked audit event: %w", err)
	}

	if err := w.sink.Put(ctx, time.Now().UTC(), record); err != nil {
		metrics.AuditEventWriteFailuresTotal.Inc()
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	metrics.AuditEventsWrittenTotal.Inc()
	return nil
}

func validateRequired(event *CJISAuditEventBody) error {
	if event == nil {
		return fmt.Errorf("%w: nil audit event", apperrors.ErrValidation)
	}
	missing := ""
	switch {
	case event.DateTime == "":
		missing = "dateTime"
	case event.RequestPath == "":
		missing = "requestPath"
	case event.SourceComponent == "":
		missing = "sourceComponent"
	case event.EventType == "":
		missing = "eventType"
	case event.ActorIdentity.IDType == "":
		missing = "actorIdentity"
	case event.Result == "":
		missing = "result"
	}
	if missing != "" {
		return fmt.Errorf("%w: audit event missing required field %s", apperrors.ErrValidation, missing)
	}
	return nil
}

// FileSink appends one JSON line per event to a local file. Suitable for
// single-node deployments; a log-shipper picks the file up for the log
// store the queries run against.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileSink opens (or creates) the audit event log at path.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit event log: %w", err)
	}
	return &FileSink{file: f}, nil
}

func (s *FileSink) Put(_ context.Context, _ time.Time, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(record, '\n')); err != nil {
		return err
	}
	return s.file.Sync()
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
