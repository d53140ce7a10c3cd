// Package digest drives digest generation runs: building prompts, calling
// the completion provider, persisting results, and assembling run reports.
package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/interfaces"
	"github.com/ternarybob/briefing/internal/models"
)

// DefaultMaxTopics caps how many topics are sent per generation call.
const DefaultMaxTopics = 12

// systemPersona is the fixed persona for every digest completion.
const systemPersona = "You are a concise research assistant. Summaries must stay under 120 words, mention at most three highlights, and sound upbeat but factual."

// Generator produces one digest text per candidate via the completion
// service. It performs no retries; failures propagate to the runner.
type Generator struct {
	llm       interfaces.CompletionService
	logger    arbor.ILogger
	maxTopics int
}

// NewGenerator creates a new digest generator. maxTopics <= 0 falls back to
// DefaultMaxTopics.
func NewGenerator(llm interfaces.CompletionService, maxTopics int, logger arbor.ILogger) *Generator {
	if maxTopics <= 0 {
		maxTopics = DefaultMaxTopics
	}
	return &Generator{
		llm:       llm,
		logger:    logger,
		maxTopics: maxTopics,
	}
}

// Generate builds the digest prompt for one candidate and invokes the
// completion service. Topics are deduplicated in first-seen order and
// truncated to the configured maximum before the call. A candidate with no
// topics still generates: the prompt simply carries no topic list, which
// produces low-value but harmless output.
func (g *Generator) Generate(ctx context.Context, candidate models.Candidate) (string, error) {
	topics := dedupeTopics(candidate.Topics)
	if len(topics) > g.maxTopics {
		topics = topics[:g.maxTopics]
	}

	response, err := g.llm.Complete(ctx, &interfaces.CompletionRequest{
		SystemPrompt: systemPersona,
		UserPrompt:   buildPrompt(candidate.Email, topics),
	})
	if err != nil {
		return "", fmt.Errorf("digest generation for %s failed: %w", candidate.Email, err)
	}

	return response.Text, nil
}

// dedupeTopics removes duplicates while preserving first-seen order. The
// store does not guarantee deduplication, so it must happen here.
func dedupeTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	result := make([]string, 0, len(topics))
	for _, topic := range topics {
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		result = append(result, topic)
	}
	return result
}

// buildPrompt renders the deterministic instruction prompt: the user's email
// plus a numbered topic list.
func buildPrompt(email string, topics []string) string {
	var list strings.Builder
	for i, topic := range topics {
		if i > 0 {
			list.WriteString("\n")
		}
		fmt.Fprintf(&list, "%d. %s", i+1, topic)
	}

	return fmt.Sprintf("The user (%s) cares about these topics:\n%s\n\nWrite a short daily digest covering timely developments or tips for those topics. Mention each topic only if you have something concrete to say.", email, list.String())
}

// summaryPreview trims a digest down to a loggable prefix.
func summaryPreview(text string) string {
	const max = 80
	if len(text) <= max {
		return text
	}
	return text[:max]
}
