package models

import "time"

// ResourceScope is the resource class an audit query is restricted to.
type ResourceScope string

const (
	ScopeCase          ResourceScope = "CASE"
	ScopeCaseFile      ResourceScope = "CASE_FILE"
	ScopeDataVault     ResourceScope = "DATA_VAULT"
	ScopeDataVaultFile ResourceScope = "DATA_VAULT_FILE"
	ScopeUser          ResourceScope = "USER"
	ScopeSystem        ResourceScope = "SYSTEM"
)

// ScopeKeySystem is the canonical scope key recorded for system-wide jobs,
// which have no resource identifier of their own.
const ScopeKeySystem = "SYSTEM"

// ScopeKeys carries the caller-supplied identifiers for a scoped audit
// request. Only the fields relevant to the scope are consulted; file name,
// path and storage key are always re-derived from the persisted record and
// never read from the caller.
type ScopeKeys struct {
	CaseID      string `json:"caseId,omitempty"`
	DataVaultID string `json:"dataVaultId,omitempty"`
	FileID      string `json:"fileId,omitempty"`
	UserID      string `json:"userId,omitempty"`
}

// TimeWindow restricts an audit query to events whose occurrence time falls
// between From and To, both in unix seconds, inclusive.
type TimeWindow struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// DefaultWindow is the window used when the caller supplies none: the whole
// history up to now.
func DefaultWindow() TimeWindow {
	return TimeWindow{From: 0, To: time.Now().Unix()}
}

// IsZero reports whether the window was left unset by the caller.
func (w TimeWindow) IsZero() bool { return w.From == 0 && w.To == 0 }

// AuditJob is one asynchronous batch-query execution. Created at submit
// time, immutable, never deleted by this subsystem; the engine owns result
// lifetime. ScopeKey is the canonical resource identifier the job was
// submitted for and is required to match at fetch time.
type AuditJob struct {
	ID          string        `json:"id" db:"id"`
	QueryID     string        `json:"query_id" db:"query_id"`
	Scope       ResourceScope `json:"scope" db:"scope"`
	ScopeKey    string        `json:"scope_key" db:"scope_key"`
	SubmittedAt time.Time     `json:"submitted_at" db:"submitted_at"`
}

// AuditEntry is one normalized output row, merged from the application event
// family and the infrastructure (CloudTrail-style) event family. Fields
// declared always-present in the output schema are empty strings when both
// source families lack a value, never absent.
type AuditEntry struct {
	DateTimeUTC        string `json:"dateTimeUtc"`
	EventType          string `json:"eventType"`
	Result             string `json:"result"`
	RequestPath        string `json:"requestPath"`
	SourceComponent    string `json:"sourceComponent"`
	SourceIPAddress    string `json:"sourceIpAddress"`
	IdentityIDType     string `json:"identityIdType"`
	Username           string `json:"username"`
	Role               string `json:"role"`
	UserUlid           string `json:"userUlid"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	IdentityPoolUserID string `json:"identityPoolUserId"`
	AuthCode           string `json:"authCode"`
	IDToken            string `json:"idToken"`
	CaseID             string `json:"caseId"`
	FileID             string `json:"fileId"`
	DataVaultID        string `json:"dataVaultId"`
	FileSHA256         string `json:"fileSha256"`
	TargetUserID       string `json:"targetUserId"`
	CaseActions        string `json:"caseActions"`
	EventID            string `json:"eventId"`
}

// AuditResult is the human-facing retrieval payload. While the job is not in
// a terminal state only Status is set and the caller is expected to re-poll.
type AuditResult struct {
	Status string `json:"status"`
	// CSV holds the formatted result once Status is SUCCEEDED.
	CSV []byte `json:"-"`
	// DownloadName is the suggested attachment filename for the CSV.
	DownloadName string `json:"downloadName,omitempty"`
	// SourceIPCondition is the CIDR the download is restricted to, recorded
	// for the delivery layer. Empty when source-IP validation is disabled.
	SourceIPCondition string `json:"sourceIpCondition,omitempty"`
}
