package models

import "time"

// RunResult describes the outcome of one digest run. It is returned to the
// trigger caller and logged; it is never persisted.
//
// Processed is a pointer so that failed runs omit the field entirely:
// only completed and empty runs report a count.
type RunResult struct {
	OK        bool      `json:"ok"`
	StartedAt time.Time `json:"startedAt"`
	Processed *int      `json:"processed,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}
