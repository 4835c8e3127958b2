package service

import (
	"context"
	"fmt"

	"github.com/evidentia/evidentia-backend/internal/apperrors"
	"github.com/evidentia/evidentia-backend/internal/models"
	"github.com/evidentia/evidentia-backend/internal/pkg/validate"
	"github.com/evidentia/evidentia-backend/internal/query"
)

// resolvedScope is the outcome of authorizing one scoped request: the
// canonical key the job ledger records, and the query fragments derived
// from the persisted record.
type resolvedScope struct {
	scopeKey  string
	fragments []query.Clause
}

// authorizeAndResolve validates the caller-supplied identifiers, confirms
// the referenced resource exists, and re-derives every query attribute from
// the persisted record. File name, path and storage key never come from the
// caller: they are re-read from the repository so unvalidated input cannot
// reach the query builder.
func (s *auditService) authorizeAndResolve(ctx context.Context, scope models.ResourceScope, keys models.ScopeKeys) (resolvedScope, error) {
	if err := validateKeys(scope, keys); err != nil {
		return resolvedScope{}, err
	}

	cacheKey := string(scope) + "|" + keys.CaseID + "|" + keys.DataVaultID + "|" + keys.FileID + "|" + keys.UserID
	if cached, ok := s.resolved.Get(cacheKey); ok {
		return cached, nil
	}

	var out resolvedScope
	switch scope {
	case models.ScopeCase:
		if _, err := s.repo.GetCase(ctx, keys.CaseID); err != nil {
			return resolvedScope{}, err
		}
		out = resolvedScope{scopeKey: keys.CaseID, fragments: query.CaseFragments(keys.CaseID)}

	case models.ScopeCaseFile:
		if _, err := s.repo.GetCase(ctx, keys.CaseID); err != nil {
			return resolvedScope{}, err
		}
		file, err := s.repo.GetCaseFile(ctx, keys.CaseID, keys.FileID)
		if err != nil {
			return resolvedScope{}, err
		}
		out = resolvedScope{
			scopeKey: keys.CaseID + keys.FileID,
			fragments: query.CaseFileFragments(query.CaseFileParams{
				CaseID:   keys.CaseID,
				FileID:   keys.FileID,
				FileName: file.FileName,
				FilePath: file.FilePath,
				S3Key:    file.S3Key,
			}),
		}

	case models.ScopeDataVault:
		if _, err := s.repo.GetDataVault(ctx, keys.DataVaultID); err != nil {
			return resolvedScope{}, err
		}
		out = resolvedScope{scopeKey: keys.DataVaultID, fragments: query.DataVaultFragments(keys.DataVaultID)}

	case models.ScopeDataVaultFile:
		if _, err := s.repo.GetDataVault(ctx, keys.DataVaultID); err != nil {
			return resolvedScope{}, err
		}
		file, err := s.repo.GetDataVaultFile(ctx, keys.DataVaultID, keys.FileID)
		if err != nil {
			return resolvedScope{}, err
		}
		out = resolvedScope{
			scopeKey: keys.DataVaultID + keys.FileID,
			fragments: query.DataVaultFileFragments(query.DataVaultFileParams{
				DataVaultID: keys.DataVaultID,
				FileID:      keys.FileID,
				FileName:    file.FileName,
				FilePath:    file.FilePath,
				S3Key:       file.S3Key,
			}),
		}

	case models.ScopeUser:
		if _, err := s.repo.GetUser(ctx, keys.UserID); err != nil {
			return resolvedScope{}, err
		}
		out = resolvedScope{scopeKey: keys.UserID, fragments: query.UserFragments(keys.UserID)}

	case models.ScopeSystem:
		out = resolvedScope{scopeKey: models.ScopeKeySystem}

	default:
		return resolvedScope{}, fmt.Errorf("%w: unknown audit scope %q", apperrors.ErrValidation, scope)
	}

	s.resolved.Add(cacheKey, out)
	return out, nil
}

func validateKeys(scope models.ResourceScope, keys models.ScopeKeys) error {
	requireUlid := func(name, v string) error {
		if !validate.Ulid(v) {
			return fmt.Errorf("%w: %s must be a ULID", apperrors.ErrValidation, name)
		}
		return nil
	}
	switch scope {
	case models.ScopeCase:
		return requireUlid("caseId", keys.CaseID)
	case models.ScopeCaseFile:
		if err := requireUlid("caseId", keys.CaseID); err != nil {
			return err
		}
		return requireUlid("fileId", keys.FileID)
	case models.ScopeDataVault:
		return requireUlid("dataVaultId", keys.DataVaultID)
	case models.ScopeDataVaultFile:
		if err := requireUlid("dataVaultId", keys.DataVaultID); err != nil {
			return err
		}
		return requireUlid("fileId", keys.FileID)
	case models.ScopeUser:
		return requireUlid("userId", keys.UserID)
	case models.ScopeSystem:
		return nil
	default:
		return fmt.Errorf("%w: unknown audit scope %q", apperrors.ErrValidation, scope)
	}
}
