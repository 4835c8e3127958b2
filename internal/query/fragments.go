package query

// A single resource can be addressable under several historically
// inconsistent indexing schemes: a flat attribute on application events,
// the table's primary-key encoding, two secondary-index encodings, and for
// files an object-storage path. Each scheme gets its own WHERE clause;
// Build unions them instead of OR-ing into one predicate.
//
// The flat clauses intentionally keep the operators exactly as observed in
// production queries (equality for the case and data-vault clauses, fileId
// LIKE only on the data-vault-file clause). Whether that asymmetry
// tolerates trailing separators on purpose is unresolved with the system
// owner; do not unify it.

// Clause is one WHERE fragment: placeholder text plus the values bound to
// it, in placeholder order. Identifier-derived values never appear in the
// text itself; they travel as execution parameters.
type Clause struct {
	Text string
	Args []string
}

// CaseFileParams carries the attributes needed to key a case-file query.
// All of them must come from the persisted file record.
type CaseFileParams struct {
	CaseID   string
	FileID   string
	FileName string
	FilePath string
	S3Key    string
}

// DataVaultFileParams is the data-vault analog of CaseFileParams.
type DataVaultFileParams struct {
	DataVaultID string
	FileID      string
	FileName    string
	FilePath    string
	S3Key       string
}

// CaseFragments returns the WHERE clauses for a whole-case audit: the flat
// attribute match and the keyed-index match, including the fan-out over
// batch request items for multi-item operations.
func CaseFragments(caseID string) []Clause {
	return []Clause{
		{Text: "caseId = ?", Args: []string{caseID}},
		keyedResourceClause("CASE", caseID),
	}
}

// DataVaultFragments returns the WHERE clauses for a whole-vault audit.
func DataVaultFragments(dataVaultID string) []Clause {
	return []Clause{
		{Text: "dataVaultId = ?", Args: []string{dataVaultID}},
		keyedResourceClause("DATAVAULT", dataVaultID),
	}
}

// CaseFileFragments returns the three WHERE clauses for a case-file audit:
// flat ids, keyed-index patterns, and the object-storage event match on the
// file's storage key.
func CaseFileFragments(p CaseFileParams) []Clause {
	return []Clause{
		{Text: "caseId = ? and fileId = ?", Args: []string{p.CaseID, p.FileID}},
		keyedFileClause("CASE", p.CaseID, p.FileID, p.FilePath, p.FileName),
		storageEventClause(p.S3Key),
	}
}

// DataVaultFileFragments returns the three WHERE clauses for a
// data-vault-file audit.
func DataVaultFileFragments(p DataVaultFileParams) []Clause {
	return []Clause{
		{Text: "dataVaultId = ? and fileId LIKE ?", Args: []string{p.DataVaultID, p.FileID}},
		keyedFileClause("DATAVAULT", p.DataVaultID, p.FileID, p.FilePath, p.FileName),
		storageEventClause(p.S3Key),
	}
}

// UserFragments returns the single WHERE clause for a per-user audit, keyed
// on the actor identity of application events.
func UserFragments(userUlid string) []Clause {
	return []Clause{{Text: "actorIdentity.userUlid = ?", Args: []string{userUlid}}}
}

func keyedResourceClause(prefix, id string) Clause {
	keyed := prefix + "#" + id + "#"
	anywhere := "%" + id + "%"
	return Clause{
		Text: "eventsource = 'dynamodb.amazonaws.com' and (" +
			"requestParameters.key.PK LIKE ? or " +
			"requestParameters.key.GSI1PK LIKE ? or " +
			"requestParameters.key.GSI2PK LIKE ? or " +
			"any_match(requestparameters.requestItems, element -> " +
			"element.key.PK like ? or element.key.GSI1PK like ? or element.key.GSI2PK like ?))",
		Args: []string{keyed, keyed + "%", keyed + "%", anywhere, anywhere, anywhere},
	}
}

func keyedFileClause(prefix, resourceID, fileID, filePath, fileName string) Clause {
	resourceKey := prefix + "#" + resourceID + "#"
	fileKey := "FILE#" + fileID + "#"
	return Clause{
		Text: "eventsource = 'dynamodb.amazonaws.com' and (" +
			"(requestParameters.key.PK LIKE ? and requestParameters.key.SK LIKE ?) or " +
			"(requestParameters.key.GSI1PK LIKE ? and requestParameters.key.GSI1SK LIKE ?) or " +
			"(requestParameters.key.GSI2PK LIKE ?) or " +
			"any_match(requestparameters.requestItems, element -> " +
			"element.key.PK LIKE ? and element.key.SK LIKE ?))",
		Args: []string{
			resourceKey, fileKey,
			prefix + "#" + resourceID + "#" + filePath + "#", "FILE#" + fileName + "#",
			prefix + "#" + resourceID + "#" + filePath + fileName + "#",
			resourceKey, fileKey,
		},
	}
}

func storageEventClause(s3Key string) Clause {
	return Clause{
		Text: `eventsource = 's3.amazonaws.com' and resources."0".ARN like ?`,
		Args: []string{"%" + s3Key},
	}
}
