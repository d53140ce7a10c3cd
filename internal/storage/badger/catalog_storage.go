package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/interfaces"
	"github.com/ternarybob/briefing/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// CatalogStorage implements the CatalogService interface on an embedded
// Badger store. Interest rows are keyed by user id, digests by their id.
type CatalogStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCatalogStorage creates a new CatalogStorage instance
func NewCatalogStorage(db *BadgerDB, logger arbor.ILogger) *CatalogStorage {
	return &CatalogStorage{
		db:     db,
		logger: logger,
	}
}

// QueryLatestInterests returns up to limit interest rows, newest first.
func (s *CatalogStorage) QueryLatestInterests(ctx context.Context, limit int) ([]models.InterestRow, error) {
	var rows []models.InterestRow
	query := badgerhold.Where("UserID").Ne("").SortBy("UpdatedAt").Reverse().Limit(limit)
	if err := s.db.Store().Find(&rows, query); err != nil {
		return nil, &interfaces.ReadError{Err: fmt.Errorf("failed to query interests: %w", err)}
	}
	return rows, nil
}

// InsertDigest writes one digest record.
func (s *CatalogStorage) InsertDigest(ctx context.Context, record *models.DigestRecord) error {
	if record.ID == "" {
		return &interfaces.WriteError{Err: fmt.Errorf("digest ID is required")}
	}
	if err := s.db.Store().Insert(record.ID, record); err != nil {
		return &interfaces.WriteError{Err: fmt.Errorf("failed to insert digest: %w", err)}
	}
	return nil
}

// SaveInterest upserts an interest row keyed by user id. Used by seeding
// and by tests.
func (s *CatalogStorage) SaveInterest(row *models.InterestRow) error {
	if row.UserID == "" {
		return fmt.Errorf("interest user ID is required")
	}
	if err := s.db.Store().Upsert(row.UserID, row); err != nil {
		return fmt.Errorf("failed to save interest: %w", err)
	}
	return nil
}

// GetDigestsByUser returns all digests stored for a user, for inspection
// during local development.
func (s *CatalogStorage) GetDigestsByUser(userID string) ([]models.DigestRecord, error) {
	var records []models.DigestRecord
	err := s.db.Store().Find(&records, badgerhold.Where("UserID").Eq(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to find digests: %w", err)
	}
	return records, nil
}

// Close closes the underlying database.
func (s *CatalogStorage) Close() error {
	return s.db.Close()
}
