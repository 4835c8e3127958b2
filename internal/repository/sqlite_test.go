package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/evidentia/evidentia-backend/internal/apperrors"
	"github.com/evidentia/evidentia-backend/internal/models"
	"github.com/evidentia/evidentia-backend/migrations"
)

const (
	caseUlid  = "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	fileUlid  = "01BX5ZZKBKACTAV9WEVGEMMVRY"
	vaultUlid = "01HN2PKWX3T6M8Q0V9J4S5D7E2"
	otherUlid = "01J0R3W5N8XQZC2B4D6F8G9H0K"
)

func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	if err := repo.RunMigrations(migrations.InitialSchema); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestGetCase(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateCase(ctx, &models.CaseRecord{Ulid: caseUlid, Name: "Crossing Incident", Status: "ACTIVE"}); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	rec, err := repo.GetCase(ctx, caseUlid)
	if err != nil {
		t.Fatalf("GetCase: %v", err)
	}
	if rec.Name != "Crossing Incident" {
		t.Errorf("Name = %q", rec.Name)
	}

	_, err = repo.GetCase(ctx, otherUlid)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing case: err = %v, want ErrNotFound", err)
	}
}

func TestGetCaseFile_ScopedToCase(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateCase(ctx, &models.CaseRecord{Ulid: caseUlid, Name: "c", Status: "ACTIVE"}); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	file := &models.CaseFileRecord{
		Ulid:     fileUlid,
		CaseUlid: caseUlid,
		FileName: "evidence.bin",
		FilePath: "/drives/c/",
		S3Key:    "cases/" + caseUlid + "/" + fileUlid,
		SHA256:   "abc123",
	}
	if err := repo.CreateCaseFile(ctx, file); err != nil {
		t.Fatalf("CreateCaseFile: %v", err)
	}

	rec, err := repo.GetCaseFile(ctx, caseUlid, fileUlid)
	if err != nil {
		t.Fatalf("GetCaseFile: %v", err)
	}
	if rec.S3Key != file.S3Key {
		t.Errorf("S3Key = %q", rec.S3Key)
	}

	// The file exists, but not under this case.
	_, err = repo.GetCaseFile(ctx, otherUlid, fileUlid)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("file under wrong case: err = %v, want ErrNotFound", err)
	}
}

func TestAuditJob_Roundtrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	job := &models.AuditJob{
		QueryID:  "exec-1",
		Scope:    models.ScopeCase,
		ScopeKey: caseUlid,
	}
	if err := repo.CreateAuditJob(ctx, job); err != nil {
		t.Fatalf("CreateAuditJob: %v", err)
	}
	if job.ID == "" {
		t.Fatalf("job id should be assigned on create")
	}

	got, err := repo.GetAuditJob(ctx, job.ID, models.ScopeCase, caseUlid)
	if err != nil {
		t.Fatalf("GetAuditJob: %v", err)
	}
	if got.QueryID != "exec-1" {
		t.Errorf("QueryID = %q", got.QueryID)
	}
	if got.SubmittedAt.IsZero() {
		t.Errorf("SubmittedAt should be set")
	}
}

// A job id retrieved under any other scope or scope key reads as missing.
func TestAuditJob_ScopeMismatchIsNotFound(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	job := &models.AuditJob{QueryID: "exec-1", Scope: models.ScopeCase, ScopeKey: caseUlid}
	if err := repo.CreateAuditJob(ctx, job); err != nil {
		t.Fatalf("CreateAuditJob: %v", err)
	}

	cases := []struct {
		name     string
		scope    models.ResourceScope
		scopeKey string
	}{
		{"different case", models.ScopeCase, otherUlid},
		{"different scope kind", models.ScopeDataVault, caseUlid},
		{"system scope", models.ScopeSystem, models.ScopeKeySystem},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := repo.GetAuditJob(ctx, job.ID, c.scope, c.scopeKey)
			if !errors.Is(err, apperrors.ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestDataVaultFile_Roundtrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateDataVault(ctx, &models.DataVaultRecord{Ulid: vaultUlid, Name: "intake"}); err != nil {
		t.Fatalf("CreateDataVault: %v", err)
	}
	file := &models.DataVaultFileRecord{
		Ulid:          fileUlid,
		DataVaultUlid: vaultUlid,
		FileName:      "dump.e01",
		FilePath:      "/images/",
		S3Key:         "vaults/" + vaultUlid + "/" + fileUlid,
	}
	if err := repo.CreateDataVaultFile(ctx, file); err != nil {
		t.Fatalf("CreateDataVaultFile: %v", err)
	}

	rec, err := repo.GetDataVaultFile(ctx, vaultUlid, fileUlid)
	if err != nil {
		t.Fatalf("GetDataVaultFile: %v", err)
	}
	if rec.FileName != "dump.e01" {
		t.Errorf("FileName = %q", rec.FileName)
	}
}

func TestGetUser(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &models.UserRecord{Ulid: otherUlid, Username: "analyst", FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	rec, err := repo.GetUser(ctx, otherUlid)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if rec.Username != "analyst" {
		t.Errorf("Username = %q", rec.Username)
	}
}
