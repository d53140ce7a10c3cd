package llm

import (
	"fmt"

	"github.com/ternarybob/briefing/internal/interfaces"
)

// UpstreamError is returned when the completion API responds with a
// non-success status or with no usable text. The raw status and body are
// kept so callers can log exactly what the upstream said. No provider in
// this package retries; re-invoking the trigger is the caller's decision.
type UpstreamError struct {
	Provider interfaces.ProviderType
	Status   int
	Body     string
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error %d: %s", e.Provider, e.Status, e.Body)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}
