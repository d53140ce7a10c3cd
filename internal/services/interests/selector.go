package interests

import (
	"strings"

	"github.com/ternarybob/briefing/internal/models"
)

// SelectLatest reduces a page of interest rows, ordered newest-first by the
// catalog query, to at most one candidate per user: the first row seen for a
// user id wins. Rows without a user id are skipped. When targetEmail is
// non-empty the result is further filtered to candidates whose email matches
// case-insensitively after trimming; no match yields an empty slice, which
// callers must treat as "nothing to do" rather than an error.
//
// The input page is bounded upstream, so a user whose newest row was pushed
// out of the window by other users' updates is silently excluded from the
// run. That bounded staleness is accepted; the selector never re-sorts and
// ties in updated_at keep their input order.
func SelectLatest(rows []models.InterestRow, targetEmail string) []models.Candidate {
	seen := make(map[string]struct{}, len(rows))
	candidates := make([]models.Candidate, 0, len(rows))

	for _, row := range rows {
		if row.UserID == "" {
			continue
		}
		if _, ok := seen[row.UserID]; ok {
			continue
		}
		seen[row.UserID] = struct{}{}

		candidates = append(candidates, models.Candidate{
			UserID:    row.UserID,
			Email:     row.Email,
			Topics:    Normalize(row.Topics),
			UpdatedAt: row.UpdatedAt,
		})
	}

	if targetEmail == "" {
		return candidates
	}

	needle := strings.ToLower(strings.TrimSpace(targetEmail))
	matched := make([]models.Candidate, 0, 1)
	for _, c := range candidates {
		if c.Email != "" && strings.ToLower(strings.TrimSpace(c.Email)) == needle {
			matched = append(matched, c)
		}
	}
	return matched
}
