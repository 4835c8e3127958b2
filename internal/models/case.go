package models

import "time"

// CaseRecord is the persisted shape of an investigation case, as seen by the
// audit subsystem. Entity lifecycle management lives elsewhere; the audit
// subsystem only looks records up to authorize and key queries.
type CaseRecord struct {
	Ulid      string    `json:"ulid" db:"ulid"`
	Name      string    `json:"name" db:"name"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CaseFileRecord is the persisted shape of a file inside a case. FileName,
// FilePath and S3Key are the authoritative values used to key audit queries;
// caller-supplied equivalents are never trusted.
type CaseFileRecord struct {
	Ulid      string    `json:"ulid" db:"ulid"`
	CaseUlid  string    `json:"case_ulid" db:"case_ulid"`
	FileName  string    `json:"file_name" db:"file_name"`
	FilePath  string    `json:"file_path" db:"file_path"`
	S3Key     string    `json:"s3_key" db:"s3_key"`
	SHA256    string    `json:"sha256" db:"sha256"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
