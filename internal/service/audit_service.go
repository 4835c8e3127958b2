package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/evidentia/evidentia-backend/internal/apperrors"
	"github.com/evidentia/evidentia-backend/internal/audit"
	"github.com/evidentia/evidentia-backend/internal/engine"
	"github.com/evidentia/evidentia-backend/internal/models"
	"github.com/evidentia/evidentia-backend/internal/pkg/metrics"
	"github.com/evidentia/evidentia-backend/internal/pkg/validate"
	"github.com/evidentia/evidentia-backend/internal/query"
	"github.com/evidentia/evidentia-backend/internal/repository"
)

// AuditService starts audit queries and retrieves their results. Both paths
// authorize the scope first: a query is only ever built from a resolved
// resource, and a job id only yields results for the scope it was submitted
// under.
type AuditService interface {
	// StartAudit builds and submits the audit query for the scope and
	// returns the job id to poll with.
	StartAudit(ctx context.Context, scope models.ResourceScope, keys models.ScopeKeys, window models.TimeWindow) (string, error)

	// GetAuditResult is the human-facing retrieval path: while the job is
	// not terminal it returns a pending result; on success it returns the
	// formatted CSV.
	GetAuditResult(ctx context.Context, scope models.ResourceScope, keys models.ScopeKeys, auditID, callerIP string) (*models.AuditResult, error)

	// GetEntries is the machine path: it fails with ErrNotReady until the
	// job has succeeded, then returns the normalized rows.
	GetEntries(ctx context.Context, scope models.ResourceScope, keys models.ScopeKeys, auditID string) ([]models.AuditEntry, error)
}

// Deps carries the collaborators the service is constructed with. Explicit
// wiring, no package-level singletons.
type Deps struct {
	Engine engine.QueryEngine
	Repo   repository.Store
	Store  query.StoreRef

	// SourceIPMaskBits is the subnet prefix recorded on downloads for case,
	// data vault, user and system scopes. File scopes pin to /32.
	SourceIPMaskBits   int
	SourceIPValidation bool

	Log *slog.Logger
}

type auditService struct {
	engine   engine.QueryEngine
	repo     repository.Store
	store    query.StoreRef
	maskBits int
	ipCheck  bool
	log      *slog.Logger

	// resolved memoizes scope resolution between the start and fetch calls
	// of one audit interaction. Entries expire quickly so a deleted
	// resource stops resolving within a minute.
	resolved *expirable.LRU[string, resolvedScope]
}

// NewAuditService creates the service from its dependencies.
func NewAuditService(deps Deps) AuditService {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	return &auditService{
		engine:   deps.Engine,
		repo:     deps.Repo,
		store:    deps.Store,
		maskBits: deps.SourceIPMaskBits,
		ipCheck:  deps.SourceIPValidation,
		log:      log,
		resolved: expirable.NewLRU[string, resolvedScope](256, nil, time.Minute),
	}
}

func (s *auditService) StartAudit(ctx context.Context, scope models.ResourceScope, keys models.ScopeKeys, window models.TimeWindow) (string, error) {
	window, err := normalizeWindow(window)
	if err != nil {
		return "", err
	}

	resolved, err := s.authorizeAndResolve(ctx, scope, keys)
	if err != nil {
		return "", err
	}

	sql, params := query.Build(s.store, resolved.fragments, window)
	queryID, err := s.engine.Submit(ctx, sql, params)
	if err != nil {
		metrics.AuditQuerySubmitFailuresTotal.Inc()
		// The query text stays in the operator log for diagnosis; the
		// caller only learns that submission failed. Parameters are resource
		// ids and key patterns, safe to log alongside.
		s.log.Error("audit query rejected by engine", "scope", scope, "query", sql, "params", params, "error", err)
		return "", &apperrors.SubmissionError{Query: sql, Err: err}
	}
	metrics.AuditQueriesSubmittedTotal.WithLabelValues(string(scope)).Inc()

	job := &models.AuditJob{
		QueryID:  queryID,
		Scope:    scope,
		ScopeKey: resolved.scopeKey,
	}
	if err := s.repo.CreateAuditJob(ctx, job); err != nil {
		return "", fmt.Errorf("failed to record audit job: %w", err)
	}
	return job.ID, nil
}

func (s *auditService) GetAuditResult(ctx context.Context, scope models.ResourceScope, keys models.ScopeKeys, auditID, callerIP string) (*models.AuditResult, error) {
	exec, err := s.pollJob(ctx, scope, keys, auditID)
	if err != nil {
		return nil, err
	}

	if !exec.State.Terminal() {
		return &models.AuditResult{Status: string(exec.State)}, nil
	}
	if exec.State != engine.StateSucceeded {
		return nil, &apperrors.EngineFailure{State: string(exec.State), Reason: exec.StateChangeReason}
	}

	rows, err := s.engine.Rows(ctx, exec.QueryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit rows: %w", err)
	}
	entries := audit.Normalize(rows)
	var buf bytes.Buffer
	if err := audit.WriteCSV(&buf, entries); err != nil {
		return nil, fmt.Errorf("failed to format audit result: %w", err)
	}

	now := time.Now()
	return &models.AuditResult{
		Status:            string(engine.StateSucceeded),
		CSV:               buf.Bytes(),
		DownloadName:      fmt.Sprintf("AuditResult_%d_%d_%d_H%d.csv", now.Year(), int(now.Month()), now.Day(), now.Hour()),
		SourceIPCondition: s.ipCondition(scope, callerIP),
	}, nil
}

func (s *auditService) GetEntries(ctx context.Context, scope models.ResourceScope, keys models.ScopeKeys, auditID string) ([]models.AuditEntry, error) {
	exec, err := s.pollJob(ctx, scope, keys, auditID)
	if err != nil {
		return nil, err
	}
	if !exec.State.Terminal() {
		return nil, fmt.Errorf("%w: job state is %s", apperrors.ErrNotReady, exec.State)
	}
	if exec.State != engine.StateSucceeded {
		return nil, &apperrors.EngineFailure{State: string(exec.State), Reason: exec.StateChangeReason}
	}
	rows, err := s.engine.Rows(ctx, exec.QueryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit rows: %w", err)
	}
	return audit.Normalize(rows), nil
}

// pollJob authorizes the scope, loads the job under that scope's key, and
// polls the engine once. A job submitted for a different resource resolves
// as not found: the lookup key includes the scope key, so one case's job id
// can never be replayed against another case or the system endpoint.
func (s *auditService) pollJob(ctx context.Context, scope models.ResourceScope, keys models.ScopeKeys, auditID string) (engine.Execution, error) {
	resolved, err := s.authorizeAndResolve(ctx, scope, keys)
	if err != nil {
		return engine.Execution{}, err
	}
	job, err := s.repo.GetAuditJob(ctx, auditID, scope, resolved.scopeKey)
	if err != nil {
		return engine.Execution{}, err
	}
	exec, err := s.engine.Status(ctx, job.QueryID)
	if err != nil {
		return engine.Execution{}, fmt.Errorf("failed to poll audit job: %w", err)
	}
	metrics.AuditQueryPollTotal.WithLabelValues(string(exec.State)).Inc()
	return exec, nil
}

// ipCondition returns the CIDR the result download is restricted to. File
// scopes narrow to the single caller address; the remaining scopes use the
// configured subnet prefix.
func (s *auditService) ipCondition(scope models.ResourceScope, callerIP string) string {
	if !s.ipCheck || callerIP == "" {
		return ""
	}
	switch scope {
	case models.ScopeCaseFile, models.ScopeDataVaultFile:
		return callerIP + "/32"
	default:
		return fmt.Sprintf("%s/%d", callerIP, s.maskBits)
	}
}

func normalizeWindow(window models.TimeWindow) (models.TimeWindow, error) {
	if window.IsZero() {
		return models.DefaultWindow(), nil
	}
	if !validate.Window(window.From, window.To) {
		return models.TimeWindow{}, fmt.Errorf("%w: time window bounds must be non-negative with from not after to", apperrors.ErrValidation)
	}
	return window, nil
}
