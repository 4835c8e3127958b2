package audit

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidentia/evidentia-backend/internal/engine"
)

func TestNormalize_ApplicationEvent(t *testing.T) {
	rows := []engine.Row{{
		"dateTime":               "2026-02-01T10:00:00Z",
		"eventType":              "DownloadCaseFile",
		"result":                 "success",
		"requestPath":            "/cases/x/files/y/contents",
		"sourceComponent":        "APIGateway",
		"actorIdentity.sourceIp": "10.0.0.9",
		"actorIdentity.idType":   "FullUser",
		"actorIdentity.username": "analyst",
		"actorIdentity.userUlid": "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		"caseId":                 "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		"fileId":                 "01BX5ZZKBKACTAV9WEVGEMMVRY",
		"fileHash":               "abc123",
		"eventID":                "e-1",
	}}

	entries := Normalize(rows)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "2026-02-01T10:00:00Z", e.DateTimeUTC)
	assert.Equal(t, "DownloadCaseFile", e.EventType)
	assert.Equal(t, "success", e.Result)
	assert.Equal(t, "10.0.0.9", e.SourceIPAddress)
	assert.Equal(t, "analyst", e.Username)
	assert.Equal(t, "01BX5ZZKBKACTAV9WEVGEMMVRY", e.FileID)
	assert.Equal(t, "abc123", e.FileSHA256)
	assert.Equal(t, "e-1", e.EventID)
}

// A trail event carries none of the application field names; every output
// column must fall back to the legacy candidates, and eventType in
// particular falls back to the event's source.
func TestNormalize_TrailEventFallsBack(t *testing.T) {
	rows := []engine.Row{{
		"eventTime":             "2026-02-01T11:00:00Z",
		"eventSource":           "s3.amazonaws.com",
		"eventName":             "GetObject",
		"sourceIPAddress":       "192.168.1.4",
		"userIdentity.type":     "AssumedRole",
		"userIdentity.userName": "svc-ingest",
		"eventID":               "e-2",
	}}

	entries := Normalize(rows)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "2026-02-01T11:00:00Z", e.DateTimeUTC)
	assert.Equal(t, "s3.amazonaws.com", e.EventType)
	assert.Equal(t, "GetObject", e.RequestPath)
	assert.Equal(t, "s3.amazonaws.com", e.SourceComponent)
	assert.Equal(t, "192.168.1.4", e.SourceIPAddress)
	assert.Equal(t, "AssumedRole", e.IdentityIDType)
	assert.Equal(t, "svc-ingest", e.Username)
	assert.Equal(t, "", e.CaseID, "columns absent from both families stay empty")
}

// Rows already shaped by the engine's SELECT carry the output aliases; the
// alias wins over any raw field also present.
func TestNormalize_AliasTakesPriority(t *testing.T) {
	rows := []engine.Row{{
		"DateTimeUTC": "2026-02-01T12:00:00Z",
		"eventTime":   "1999-01-01T00:00:00Z",
		"Event_Type":  "CreateCase",
		"Username":    "analyst",
	}}

	e := Normalize(rows)[0]
	assert.Equal(t, "2026-02-01T12:00:00Z", e.DateTimeUTC)
	assert.Equal(t, "CreateCase", e.EventType)
	assert.Equal(t, "analyst", e.Username)
}

func TestNormalize_PreservesRowOrder(t *testing.T) {
	rows := []engine.Row{
		{"dateTime": "2026-02-01T13:00:00Z", "eventID": "later"},
		{"dateTime": "2026-02-01T09:00:00Z", "eventID": "earlier"},
	}

	entries := Normalize(rows)
	require.Len(t, entries, 2)
	assert.Equal(t, "later", entries[0].EventID)
	assert.Equal(t, "earlier", entries[1].EventID, "normalization must not re-sort")
}

func TestWriteCSV_HeaderAndColumnOrder(t *testing.T) {
	entries := Normalize([]engine.Row{{
		"dateTime":  "2026-02-01T10:00:00Z",
		"eventType": "CreateCase",
		"result":    "success",
		"eventID":   "e-1",
	}})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header := records[0]
	require.Len(t, header, 22)
	assert.Equal(t, "dateTimeUtc", header[0])
	assert.Equal(t, "eventType", header[1])
	assert.Equal(t, "eventId", header[21])

	row := records[1]
	require.Len(t, row, 22)
	assert.Equal(t, "2026-02-01T10:00:00Z", row[0])
	assert.Equal(t, "CreateCase", row[1])
	assert.Equal(t, "e-1", row[21])
}

func TestWriteCSV_EmptyResultStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0], 22)
}
