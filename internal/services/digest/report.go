package digest

import (
	"fmt"
	"time"

	"github.com/ternarybob/briefing/internal/models"
)

// reportEmpty builds the result for a run that found no candidates. An
// empty catalog is not an error.
func reportEmpty(startedAt time.Time, targetEmail string) *models.RunResult {
	message := "No interests found"
	if targetEmail != "" {
		message = fmt.Sprintf("No interests found for %s", targetEmail)
	}
	processed := 0
	return &models.RunResult{
		OK:        true,
		StartedAt: startedAt,
		Processed: &processed,
		Message:   message,
	}
}

// reportCompleted builds the result for a finished run.
func reportCompleted(startedAt time.Time, processed int) *models.RunResult {
	return &models.RunResult{
		OK:        true,
		StartedAt: startedAt,
		Processed: &processed,
		Message:   fmt.Sprintf("Generated %d digests", processed),
	}
}

// reportFailed builds the result for a run that aborted before completing.
func reportFailed(startedAt time.Time, err error) *models.RunResult {
	return &models.RunResult{
		OK:        false,
		StartedAt: startedAt,
		Error:     err.Error(),
	}
}
