// Package validate provides input validation for path and body parameters.
// Resource ids are bound into downstream queries as parameters, but they
// still gate repository lookups and scope keys, so everything here is
// strict allow-listing: fixed length, fixed alphabet.
package validate

// UlidLen is the length of every resource identifier in the system.
const UlidLen = 26

// Ulid reports whether id is a well-formed ULID: 26 chars of Crockford
// base32 (digits and uppercase letters excluding I, L, O, U).
func Ulid(id string) bool {
	if len(id) != UlidLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'H':
		case r == 'J' || r == 'K' || r == 'M' || r == 'N':
		case r >= 'P' && r <= 'T':
		case r >= 'V' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

// Window reports whether a time window is well-formed: non-negative bounds
// with from not after to.
func Window(from, to int64) bool {
	return from >= 0 && to >= 0 && from <= to
}

// SubnetBits reports whether bits is a valid IPv4 prefix length.
func SubnetBits(bits int) bool {
	return bits >= 0 && bits <= 32
}
