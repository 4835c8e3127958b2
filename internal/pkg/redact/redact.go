// Package redact masks sensitive values before audit events are persisted.
// Key names are kept so the record still shows which fields were present.
package redact

const maskedValue = "***REDACTED***"

// DefaultMaskFields is the fixed list of field names that must never be
// stored in clear text in an audit record.
var DefaultMaskFields = []string{"password", "accessKey", "idToken", "X-Amz-Security-Token"}

// MaskFields walks obj recursively and replaces the value of any key whose
// name appears in fields (in place). Nested maps and slices of maps are
// descended into; other values are left untouched.
func MaskFields(obj map[string]any, fields []string) {
	if obj == nil {
		return
	}
	masked := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		masked[f] = struct{}{}
	}
	maskWalk(obj, masked)
}

func maskWalk(obj map[string]any, masked map[string]struct{}) {
	for k, v := range obj {
		if _, ok := masked[k]; ok {
			obj[k] = maskedValue
			continue
		}
		switch child := v.(type) {
		case map[string]any:
			maskWalk(child, masked)
		case []any:
			for _, item := range child {
				if m, ok := item.(map[string]any); ok {
					maskWalk(m, masked)
				}
			}
		}
	}
}
