package interfaces

import (
	"context"
	"fmt"

	"github.com/ternarybob/briefing/internal/models"
)

// CatalogService is the durable record store for interests and digests.
// Implementations authenticate with a privileged service credential: reads
// and writes bypass the per-row ownership checks imposed on end-user
// sessions, so the core must only ever be pointed at its own tables.
type CatalogService interface {
	// QueryLatestInterests returns up to limit interest rows ordered newest
	// first by updated_at. The page is bounded: a user whose most recent row
	// falls outside the window is silently excluded from the run
	// (bounded staleness, accepted by design).
	QueryLatestInterests(ctx context.Context, limit int) ([]models.InterestRow, error)

	// InsertDigest writes one digest record as a single atomic insert.
	InsertDigest(ctx context.Context, record *models.DigestRecord) error

	Close() error
}

// ReadError is returned when an interests fetch fails. A read failure aborts
// the whole run.
type ReadError struct {
	Status int
	Body   string
	Err    error
}

func (e *ReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog read failed: %v", e.Err)
	}
	return fmt.Sprintf("catalog read failed: status %d: %s", e.Status, e.Body)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is returned when a digest insert fails. In batch mode the
// affected candidate is skipped; in single-target mode it fails the run.
type WriteError struct {
	Status int
	Body   string
	Err    error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog write failed: %v", e.Err)
	}
	return fmt.Sprintf("catalog write failed: status %d: %s", e.Status, e.Body)
}

func (e *WriteError) Unwrap() error { return e.Err }
