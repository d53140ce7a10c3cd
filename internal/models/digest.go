package models

import "time"

// DigestRecord is one generated digest for one user. Records are insert-only:
// a new row is written per successful generation, history is kept, and the
// newest generated_at wins for display. Overlapping runs may produce
// duplicate records for the same user; that is accepted.
type DigestRecord struct {
	ID          string    `json:"id" badgerhold:"key"`
	UserID      string    `json:"user_id" badgerhold:"index"`
	Email       string    `json:"email"`
	SummaryText string    `json:"summary_text"`
	GeneratedAt time.Time `json:"generated_at"`
}
