package common

import (
	"github.com/google/uuid"
)

// NewDigestID generates a unique digest record ID. Plain UUID format so the
// value can be written to a uuid-typed column as-is.
func NewDigestID() string {
	return uuid.New().String()
}
