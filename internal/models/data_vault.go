package models

import "time"

// DataVaultRecord is the persisted shape of a bulk-ingest data vault.
type DataVaultRecord struct {
	Ulid      string    `json:"ulid" db:"ulid"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DataVaultFileRecord is the persisted shape of a file inside a data vault.
type DataVaultFileRecord struct {
	Ulid          string    `json:"ulid" db:"ulid"`
	DataVaultUlid string    `json:"data_vault_ulid" db:"data_vault_ulid"`
	FileName      string    `json:"file_name" db:"file_name"`
	FilePath      string    `json:"file_path" db:"file_path"`
	S3Key         string    `json:"s3_key" db:"s3_key"`
	SHA256        string    `json:"sha256" db:"sha256"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
