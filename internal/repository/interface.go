package repository

import (
	"context"

	"github.com/evidentia/evidentia-backend/internal/models"
)

// CaseRepository looks up case records for audit authorization.
type CaseRepository interface {
	GetCase(ctx context.Context, caseID string) (*models.CaseRecord, error)
}

// CaseFileRepository looks up case-file records. The returned record is the
// only permitted source of file name, path and storage key for queries.
type CaseFileRepository interface {
	GetCaseFile(ctx context.Context, caseID, fileID string) (*models.CaseFileRecord, error)
}

// DataVaultRepository looks up data vault records.
type DataVaultRepository interface {
	GetDataVault(ctx context.Context, dataVaultID string) (*models.DataVaultRecord, error)
}

// DataVaultFileRepository looks up data-vault-file records.
type DataVaultFileRepository interface {
	GetDataVaultFile(ctx context.Context, dataVaultID, fileID string) (*models.DataVaultFileRecord, error)
}

// UserRepository looks up user records.
type UserRepository interface {
	GetUser(ctx context.Context, userUlid string) (*models.UserRecord, error)
}

// AuditJobRepository persists audit jobs. GetAuditJob is keyed by the full
// (id, scope, scopeKey) triple so a job id presented against a mismatched
// scope resolves to nothing.
type AuditJobRepository interface {
	CreateAuditJob(ctx context.Context, job *models.AuditJob) error
	GetAuditJob(ctx context.Context, id string, scope models.ResourceScope, scopeKey string) (*models.AuditJob, error)
}

// Store aggregates everything the audit service needs from persistence.
type Store interface {
	CaseRepository
	CaseFileRepository
	DataVaultRepository
	DataVaultFileRepository
	UserRepository
	AuditJobRepository
}
