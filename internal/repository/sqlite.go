package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/evidentia/evidentia-backend/internal/apperrors"
	"github.com/evidentia/evidentia-backend/internal/models"
)

// SQLiteRepository implements Store using SQLite.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository opens the database at dbPath.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// RunMigrations runs database migrations.
func (r *SQLiteRepository) RunMigrations(migrationSQL string) error {
	_, err := r.db.Exec(migrationSQL)
	return err
}

func (r *SQLiteRepository) GetCase(ctx context.Context, caseID string) (*models.CaseRecord, error) {
	var rec models.CaseRecord
	err := instrumentQuery("get_case", func() error {
		return r.db.GetContext(ctx, &rec, `SELECT * FROM cases WHERE ulid = ?`, caseID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: case %s", apperrors.ErrNotFound, caseID)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteRepository) GetCaseFile(ctx context.Context, caseID, fileID string) (*models.CaseFileRecord, error) {
	var rec models.CaseFileRecord
	err := instrumentQuery("get_case_file", func() error {
		return r.db.GetContext(ctx, &rec,
			`SELECT * FROM case_files WHERE case_ulid = ? AND ulid = ?`, caseID, fileID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: case file %s in case %s", apperrors.ErrNotFound, fileID, caseID)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteRepository) GetDataVault(ctx context.Context, dataVaultID string) (*models.DataVaultRecord, error) {
	var rec models.DataVaultRecord
	err := instrumentQuery("get_data_vault", func() error {
		return r.db.GetContext(ctx, &rec, `SELECT * FROM data_vaults WHERE ulid = ?`, dataVaultID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: data vault %s", apperrors.ErrNotFound, dataVaultID)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteRepository) GetDataVaultFile(ctx context.Context, dataVaultID, fileID string) (*models.DataVaultFileRecord, error) {
	var rec models.DataVaultFileRecord
	err := instrumentQuery("get_data_vault_file", func() error {
		return r.db.GetContext(ctx, &rec,
			`SELECT * FROM data_vault_files WHERE data_vault_ulid = ? AND ulid = ?`, dataVaultID, fileID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: data vault file %s in vault %s", apperrors.ErrNotFound, fileID, dataVaultID)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, userUlid string) (*models.UserRecord, error) {
	var rec models.UserRecord
	err := instrumentQuery("get_user", func() error {
		return r.db.GetContext(ctx, &rec, `SELECT * FROM users WHERE ulid = ?`, userUlid)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userUlid)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateAuditJob inserts the job record. Jobs are append-only: never
// updated, never deleted by this subsystem.
func (r *SQLiteRepository) CreateAuditJob(ctx context.Context, job *models.AuditJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}
	return instrumentQuery("create_audit_job", func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO audit_jobs (id, query_id, scope, scope_key, submitted_at) VALUES (?, ?, ?, ?, ?)`,
			job.ID, job.QueryID, job.Scope, job.ScopeKey, job.SubmittedAt)
		return err
	})
}

// GetAuditJob fetches a job by id, scope and scope key. A job that exists
// under a different scope or scope key is reported as not found.
func (r *SQLiteRepository) GetAuditJob(ctx context.Context, id string, scope models.ResourceScope, scopeKey string) (*models.AuditJob, error) {
	var job models.AuditJob
	err := instrumentQuery("get_audit_job", func() error {
		return r.db.GetContext(ctx, &job,
			`SELECT * FROM audit_jobs WHERE id = ? AND scope = ? AND scope_key = ?`, id, scope, scopeKey)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: audit job", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateCase inserts a case record. Entity lifecycle belongs to the wider
// application; these writers exist for provisioning and tests.
func (r *SQLiteRepository) CreateCase(ctx context.Context, rec *models.CaseRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cases (ulid, name, status, created_at) VALUES (?, ?, ?, ?)`,
		rec.Ulid, rec.Name, rec.Status, rec.CreatedAt)
	return err
}

func (r *SQLiteRepository) CreateCaseFile(ctx context.Context, rec *models.CaseFileRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO case_files (ulid, case_ulid, file_name, file_path, s3_key, sha256, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Ulid, rec.CaseUlid, rec.FileName, rec.FilePath, rec.S3Key, rec.SHA256, rec.CreatedAt)
	return err
}

func (r *SQLiteRepository) CreateDataVault(ctx context.Context, rec *models.DataVaultRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO data_vaults (ulid, name, created_at) VALUES (?, ?, ?)`,
		rec.Ulid, rec.Name, rec.CreatedAt)
	return err
}

func (r *SQLiteRepository) CreateDataVaultFile(ctx context.Context, rec *models.DataVaultFileRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO data_vault_files (ulid, data_vault_ulid, file_name, file_path, s3_key, sha256, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Ulid, rec.DataVaultUlid, rec.FileName, rec.FilePath, rec.S3Key, rec.SHA256, rec.CreatedAt)
	return err
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, rec *models.UserRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (ulid, username, first_name, last_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.Ulid, rec.Username, rec.FirstName, rec.LastName, rec.CreatedAt)
	return err
}
