// Package interests holds the pure in-memory half of the digest pipeline:
// topic normalization and latest-interest selection. Nothing here touches
// the catalog, so every reduction is unit-testable without a live store.
package interests

import (
	"encoding/json"
	"strings"
)

// Normalize coerces a stored topics value into a canonical string slice.
// Interest rows were written by different frontend versions, so the raw
// value may be a JSON string array, a JSON-encoded string holding either a
// nested JSON array or a comma-separated list, or absent entirely.
//
// Normalize never fails; the worst case is an empty slice. It is idempotent:
// re-encoding the result and normalizing again yields the same slice.
func Normalize(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}
	}

	// Already a string array: return unchanged, order preserved.
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	// A JSON string: its content may itself be a JSON array, otherwise
	// treat it as a comma-separated list.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var nested []string
		if err := json.Unmarshal([]byte(s), &nested); err == nil {
			return nested
		}
		return splitTopics(s)
	}

	// Any other shape (object, number, mixed array) carries no usable topics.
	return []string{}
}

func splitTopics(s string) []string {
	parts := strings.Split(s, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
