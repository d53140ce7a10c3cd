package badger

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/models"
)

// LoadInterestsFromFile seeds the embedded catalog from a JSON file holding
// an array of interest rows. Missing file is non-fatal so a fresh checkout
// still starts.
func LoadInterestsFromFile(storage *CatalogStorage, path string, logger arbor.ILogger) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug().Str("path", path).Msg("Seed file does not exist, skipping")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var rows []models.InterestRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	loadedCount := 0
	for i := range rows {
		if rows[i].UserID == "" {
			logger.Warn().Int("index", i).Msg("Skipping seed row without user_id")
			continue
		}
		if err := storage.SaveInterest(&rows[i]); err != nil {
			logger.Warn().Err(err).Str("user_id", rows[i].UserID).Msg("Failed to seed interest row")
			continue
		}
		loadedCount++
	}

	logger.Info().Int("loaded", loadedCount).Str("path", path).Msg("Seeded interest rows")

	return nil
}
