package audit

import (
	"encoding/csv"
	"io"

	"github.com/evidentia/evidentia-backend/internal/engine"
	"github.com/evidentia/evidentia-backend/internal/models"
)

// The log store holds two event families with different schemas: the
// application events written by this system and the infrastructure events
// ingested from the platform's own trail. Each output column takes the
// first non-empty value from a prioritized candidate list, starting with
// the already-coalesced alias for rows that passed through the engine's
// SELECT, then the current field name, then the legacy one.
var coalesceColumns = []struct {
	header     string
	candidates []string
}{
	{"dateTimeUtc", []string{"DateTimeUTC", "dateTime", "eventTime"}},
	{"eventType", []string{"Event_Type", "eventType", "eventSource"}},
	{"result", []string{"Result", "result"}},
	{"requestPath", []string{"Request_Path", "requestPath", "eventName"}},
	{"sourceComponent", []string{"Source_Component", "sourceComponent", "eventSource"}},
	{"sourceIpAddress", []string{"Source_IP_Address", "sourceIPAddress", "actorIdentity.sourceIp"}},
	{"identityIdType", []string{"Identity_ID_Type", "actorIdentity.idType", "userIdentity.type"}},
	{"username", []string{"Username", "actorIdentity.username", "userIdentity.userName", "userIdentity.sessionContext.sessionIssuer.userName"}},
	{"role", []string{"Role", "actorIdentity.deaRole"}},
	{"userUlid", []string{"DEA_User_ID", "actorIdentity.userUlid"}},
	{"firstName", []string{"First_Name", "actorIdentity.firstName"}},
	{"lastName", []string{"Last_Name", "actorIdentity.lastName"}},
	{"identityPoolUserId", []string{"Identity_Pool_User_ID", "actorIdentity.idPoolUserId"}},
	{"authCode", []string{"Auth_Code", "actorIdentity.authCode"}},
	{"idToken", []string{"ID_Token", "actorIdentity.idToken"}},
	{"caseId", []string{"Case_ID", "caseId"}},
	{"fileId", []string{"File_ID", "fileId"}},
	{"dataVaultId", []string{"DataVault_ID", "dataVaultId"}},
	{"fileSha256", []string{"File_SHA_256", "fileHash"}},
	{"targetUserId", []string{"Target_User_ID", "targetUserId"}},
	{"caseActions", []string{"Case_Actions", "caseActions"}},
	{"eventId", []string{"eventID"}},
}

// Normalize merges raw engine rows from both event families into the single
// output row shape. Row order is preserved exactly as produced by the
// query's ORDER BY; Normalize never re-sorts. Columns with no value in
// either family come out as empty strings.
func Normalize(rows []engine.Row) []models.AuditEntry {
	entries := make([]models.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, normalizeRow(row))
	}
	return entries
}

func normalizeRow(row engine.Row) models.AuditEntry {
	values := make([]string, len(coalesceColumns))
	for i, col := range coalesceColumns {
		for _, candidate := range col.candidates {
			if v, ok := row[candidate]; ok && v != "" {
				values[i] = v
				break
			}
		}
	}
	return models.AuditEntry{
		DateTimeUTC:        values[0],
		EventType:          values[1],
		Result:             values[2],
		RequestPath:        values[3],
		SourceComponent:    values[4],
		SourceIPAddress:    values[5],
		IdentityIDType:     values[6],
		Username:           values[7],
		Role:               values[8],
		UserUlid:           values[9],
		FirstName:          values[10],
		LastName:           values[11],
		IdentityPoolUserID: values[12],
		AuthCode:           values[13],
		IDToken:            values[14],
		CaseID:             values[15],
		FileID:             values[16],
		DataVaultID:        values[17],
		FileSHA256:         values[18],
		TargetUserID:       values[19],
		CaseActions:        values[20],
		EventID:            values[21],
	}
}

// CSVHeader is the fixed output column order. Clients parse by header name,
// but historical clients parse by position, so the order is part of the
// external contract.
func CSVHeader() []string {
	header := make([]string, len(coalesceColumns))
	for i, col := range coalesceColumns {
		header[i] = col.header
	}
	return header
}

// WriteCSV serializes entries as UTF-8 delimited text with a header row,
// preserving entry order.
func WriteCSV(w io.Writer, entries []models.AuditEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader()); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.DateTimeUTC,
			e.EventType,
			e.Result,
			e.RequestPath,
			e.SourceComponent,
			e.SourceIPAddress,
			e.IdentityIDType,
			e.Username,
			e.Role,
			e.UserUlid,
			e.FirstName,
			e.LastName,
			e.IdentityPoolUserID,
			e.AuthCode,
			e.IDToken,
			e.CaseID,
			e.FileID,
			e.DataVaultID,
			e.FileSHA256,
			e.TargetUserID,
			e.CaseActions,
			e.EventID,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
