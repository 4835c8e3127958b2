// Package query builds the Athena-dialect SQL that audit retrievals run
// against the log store. The store holds two structurally different event
// families (application events and platform trail events), so the SELECT
// list coalesces every output column across current and legacy field names.
//
// Identifier-derived values are never spliced into the query text. Each
// fragment carries them as bound arguments behind ? placeholders, and Build
// returns the flattened argument list alongside the text for the engine's
// execution parameters. The service layer still ULID-validates every id
// before it gets here; the parameters are the injection boundary, the
// validation is a format check.
package query

import (
	"fmt"
	"strings"

	"github.com/evidentia/evidentia-backend/internal/models"
)

// StoreRef identifies the log-store database and table queried.
type StoreRef struct {
	Database string
	Table    string
}

// queryFields coalesces each output column across the two event families:
// first non-null wins, with the application field taking priority over the
// trail field.
const queryFields = "COALESCE(dateTime, eventTime) AS DateTimeUTC," +
	"COALESCE(eventType, eventSource) AS Event_Type," +
	"COALESCE(result, '') AS Result," +
	"COALESCE(requestPath, eventName) AS Request_Path," +
	"COALESCE(sourceComponent, eventSource) AS Source_Component," +
	"COALESCE(sourceIPAddress, actorIdentity.sourceIp) AS Source_IP_Address," +
	"COALESCE(actorIdentity.idType, userIdentity.type) AS Identity_ID_Type," +
	"COALESCE(actorIdentity.username, userIdentity.userName, userIdentity.sessionContext.sessionIssuer.userName) as Username," +
	"COALESCE(actorIdentity.deaRole, '') AS Role," +
	"COALESCE(actorIdentity.userUlid, '') AS DEA_User_ID," +
	"COALESCE(actorIdentity.firstName, '') AS First_Name," +
	"COALESCE(actorIdentity.lastName, '') AS Last_Name," +
	"COALESCE(actorIdentity.idPoolUserId, '') AS Identity_Pool_User_ID," +
	"COALESCE(actorIdentity.authCode, '') AS Auth_Code," +
	"COALESCE(actorIdentity.idToken, '') AS ID_Token," +
	"COALESCE(caseId, '') AS Case_ID," +
	"COALESCE(fileId, '') AS File_ID," +
	"COALESCE(dataVaultId, '') AS DataVault_ID," +
	"COALESCE(fileHash, '') AS File_SHA_256," +
	"COALESCE(targetUserId, '') AS Target_User_ID," +
	"COALESCE(caseActions, '') AS Case_Actions," +
	"COALESCE(eventID, '') AS eventID"

// Sort by DateTimeUTC, the time when the event actually occurred, rather
// than the moment it appeared in the log store.
const orderByClause = "ORDER BY from_iso8601_timestamp(DateTimeUTC) ASC"

func timeClause(window models.TimeWindow) string {
	return fmt.Sprintf(
		"from_iso8601_timestamp(COALESCE(dateTime, eventTime)) between from_unixtime(%d) and from_unixtime(%d)",
		window.From, window.To)
}

// Build produces the query text and bound arguments for one audit
// retrieval. With no where fragments the query is system-wide: a single
// SELECT restricted only by the time window. With fragments it emits one
// SELECT per fragment joined by UNION ALL, each fragment AND-ed with the
// shared time filter, and one trailing ORDER BY after the union. One SELECT
// per fragment is deliberate: the store's historical indexing schemes are
// inconsistent, and OR-ing all conditions into one predicate against the
// semi-structured key column breaks the query planner.
//
// Arguments are returned in placeholder order across the unioned SELECTs.
// The window bounds are unix integers produced locally, not identifiers,
// so they stay in the text.
func Build(store StoreRef, clauses []Clause, window models.TimeWindow) (string, []string) {
	table := fmt.Sprintf("%q.%q", store.Database, store.Table)
	tc := timeClause(window)
	if len(clauses) == 0 {
		return fmt.Sprintf("SELECT %s FROM %s where %s %s;", queryFields, table, tc, orderByClause), nil
	}

	selects := make([]string, 0, len(clauses))
	var args []string
	for _, clause := range clauses {
		selects = append(selects,
			fmt.Sprintf("SELECT %s FROM %s where %s and %s", queryFields, table, clause.Text, tc))
		args = append(args, clause.Args...)
	}
	return strings.Join(selects, " UNION ALL ") + " " + orderByClause + ";", args
}
