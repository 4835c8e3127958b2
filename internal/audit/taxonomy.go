// Package audit defines the event taxonomy, the producer-side writer, and
// the result normalizer for the audit trail.
package audit

// EventResult is the outcome recorded with every audited event.
type EventResult string

const (
	ResultSuccess     EventResult = "success"
	ResultFailure     EventResult = "failure"
	ResultSuccessWarn EventResult = "success with warning"
)

// EventSource is the component of the system where the event occurred.
type EventSource string

const (
	SourceAPIGateway EventSource = "APIGateway"
	SourceAWSConsole EventSource = "AWS Console"
)

// UnidentifiedUser is recorded when no identifying information is available.
const UnidentifiedUser = "UNIDENTIFIED_USER"

// EventType is the closed enumeration of audit event kinds.
type EventType string

const (
	EventCreateCase                EventType = "CreateCase"
	EventCreateDataVault           EventType = "CreateDataVault"
	EventGetDataVaults             EventType = "GetDataVaults"
	EventGetDataVaultDetails       EventType = "GetDataVaultDetails"
	EventUpdateDataVaultDetails    EventType = "UpdateDataVaultDetails"
	EventGetDataVaultFiles         EventType = "GetDataVaultFiles"
	EventCreateDataVaultTask       EventType = "CreateDataVaultTask"
	EventCreateDataVaultExecution  EventType = "CreateDataVaultExecution"
	EventGetDataVaultExecutions    EventType = "GetDataVaultExecutions"
	EventGetDataVaultFileDetail    EventType = "GetDataVaultFileDetail"
	EventGetDataVaultTasks         EventType = "GetDataVaultTask"
	EventGetDataSyncTasks          EventType = "GetDataSyncTask"
	EventGetMyCases                EventType = "GetMyCases"
	EventGetAllCases               EventType = "GetAllCases"
	EventGetCaseDetails            EventType = "GetCaseDetails"
	EventGetCaseActions            EventType = "GetCaseActions"
	EventUpdateCaseDetails         EventType = "UpdateCaseDetails"
	EventUpdateCaseStatus          EventType = "UpdateCaseStatus"
	EventDeleteCase                EventType = "DeleteCase"
	EventCreateCaseOwner           EventType = "CreateCaseOwner"
	EventGetUsersFromCase          EventType = "GetUsersFromCase"
	EventInviteUserToCase          EventType = "InviteUserToCase"
	EventRemoveUserFromCase        EventType = "RemoveUserFromCase"
	EventModifyUserCasePermissions EventType = "ModifyUserCasePermissions"
	EventInitiateCaseFileUpload    EventType = "InitiateCaseFileUpload"
	EventCompleteCaseFileUpload    EventType = "CompleteCaseFileUpload"
	EventGetLoginURL               EventType = "GetLoginUrl"
	EventGetLogoutURL              EventType = "GetLogoutUrl"
	EventGetAuthToken              EventType = "GetAuthenticationToken"
	EventRefreshAuthToken          EventType = "RefreshIdToken"
	EventRevokeAuthToken           EventType = "RevokeAuthToken"
	EventGetAllUsers               EventType = "GetAllUsers"
	EventDownloadCaseFile          EventType = "DownloadCaseFile"
	EventRestoreCaseFile           EventType = "RestoreCaseFile"
	EventGetCaseFiles              EventType = "GetCaseFiles"
	EventGetCaseFileDetail         EventType = "GetCaseFileDetail"
	EventGetCaseAudit              EventType = "GetCaseAudit"
	EventRequestCaseAudit          EventType = "RequestCaseAudit"
	EventGetCaseFileAudit          EventType = "GetCaseFileAudit"
	EventRequestCaseFileAudit      EventType = "RequestCaseFileAudit"
	EventGetDataVaultAudit         EventType = "GetDataVaultAudit"
	EventRequestDataVaultAudit     EventType = "RequestDataVaultAudit"
	EventGetDataVaultFileAudit     EventType = "GetDataVaultFileAudit"
	EventRequestDataVaultFileAudit EventType = "RequestDataVaultFileAudit"
	EventGetAvailableEndpoints     EventType = "GetAvailableEndpoints"
	EventGetScopedCaseInformation  EventType = "GetScopedCaseInformation"
	EventGetUserAudit              EventType = "GetUserAudit"
	EventRequestUserAudit          EventType = "RequestUserAudit"
	EventGetSystemAudit            EventType = "GetSystemAudit"
	EventRequestSystemAudit        EventType = "RequestSystemAudit"
	EventAwsAPICall                EventType = "AwsApiCall"
	EventUnknown                   EventType = "UnknownEvent"
)

// IdentityType describes how far along the authentication progression the
// actor got when the event was recorded.
type IdentityType string

const (
	IdentityCognitoID    IdentityType = "CognitoId"
	IdentityCognitoToken IdentityType = "CognitoToken"
	IdentityFullUser     IdentityType = "FullUser"
	IdentityAuthCode     IdentityType = "AuthCodeRequestor"
	IdentityIDToken      IdentityType = "TokenRequestor"
	IdentityUnidentified IdentityType = "UnidentifiedRequestor"
	IdentityLoginURL     IdentityType = "LoginUrlRequestor"
	IdentityLogoutURL    IdentityType = "LogoutUrlRequestor"
)

// ActorIdentity is the structured description of who performed an action.
// Fields fill in as the authentication progression advances; an event early
// in the flow may carry only IDType and SourceIP.
type ActorIdentity struct {
	IDType         IdentityType `json:"idType"`
	SourceIP       string       `json:"sourceIp"`
	IDPoolUserID   string       `json:"idPoolUserId,omitempty"`
	Username       string       `json:"username,omitempty"`
	FirstName      string       `json:"firstName,omitempty"`
	LastName       string       `json:"lastName,omitempty"`
	UserUlid       string       `json:"userUlid,omitempty"`
	DeaRole        string       `json:"deaRole,omitempty"`
	UserPoolUserID string       `json:"userPoolUserId,omitempty"`
	AuthCode       string       `json:"authCode,omitempty"`
	IDToken        string       `json:"idToken,omitempty"`
}

// CJISAuditEventBody is the application-level audit record. Every audited
// event carries: date and time, the component where the event occurred, the
// type of event, the actor identity, and the outcome.
type CJISAuditEventBody struct {
	DateTime        string        `json:"dateTime"`
	RequestPath     string        `json:"requestPath"`
	SourceComponent EventSource   `json:"sourceComponent"`
	EventType       EventType     `json:"eventType"`
	ActorIdentity   ActorIdentity `json:"actorIdentity"`
	Result          EventResult   `json:"result"`
	FileHash        string        `json:"fileHash,omitempty"`
	CaseID          string        `json:"caseId,omitempty"`
	FileID          string        `json:"fileId,omitempty"`
	DataVaultID     string        `json:"dataVaultId,omitempty"`
	TargetUserID    string        `json:"targetUserId,omitempty"`
	// CaseActions is a ":"-joined action list so it stays one CSV cell.
	CaseActions string `json:"caseActions,omitempty"`
	EventID     string `json:"eventID"`
}

// RequiredFields lists the event body fields that must be present before an
// event may be written.
var RequiredFields = []string{"dateTime", "requestPath", "sourceComponent", "eventType", "actorIdentity", "result"}
