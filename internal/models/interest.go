package models

import (
	"encoding/json"
	"time"
)

// InterestRow is one interest record as stored in the catalog. Topics is kept
// raw because historical rows were written by different frontend versions:
// some hold a JSON string array, some a JSON-encoded string, some a plain
// comma-separated string. Normalization happens in services/interests.
type InterestRow struct {
	UserID    string          `json:"user_id" badgerhold:"index"`
	Email     string          `json:"email"`
	Topics    json.RawMessage `json:"topics"`
	UpdatedAt time.Time       `json:"updated_at" badgerhold:"index"`
}

// Candidate is a deduplicated interest row selected for digest generation:
// one per distinct user, newest updated_at wins, topics already normalized.
// Candidates are derived per run and never stored.
type Candidate struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Topics    []string  `json:"topics"`
	UpdatedAt time.Time `json:"updated_at"`
}
