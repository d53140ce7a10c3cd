package catalog

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/interfaces"
	"github.com/ternarybob/briefing/internal/storage/badger"
)

// NewCatalogService creates the configured catalog backend.
func NewCatalogService(cfg *common.CatalogConfig, logger arbor.ILogger) (interfaces.CatalogService, error) {
	logger.Info().Str("backend", cfg.Backend).Msg("Initializing catalog service")

	switch cfg.Backend {
	case "supabase":
		return NewSupabaseCatalog(&cfg.Supabase, logger)
	case "badger":
		db, err := badger.NewBadgerDB(logger, &cfg.Badger)
		if err != nil {
			return nil, err
		}
		storage := badger.NewCatalogStorage(db, logger)
		if err := badger.LoadInterestsFromFile(storage, cfg.Badger.SeedFile, logger); err != nil {
			db.Close()
			return nil, err
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unsupported catalog backend: %s", cfg.Backend)
	}
}
