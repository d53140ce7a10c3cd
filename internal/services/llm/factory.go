package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/interfaces"
)

// NewCompletionService creates the configured completion provider.
func NewCompletionService(ctx context.Context, cfg *common.LLMConfig, logger arbor.ILogger) (interfaces.CompletionService, error) {
	logger.Info().Str("provider", cfg.Provider).Msg("Initializing completion service")

	switch interfaces.ProviderType(cfg.Provider) {
	case interfaces.ProviderOpenAI:
		return NewOpenAIService(&cfg.OpenAI, logger)
	case interfaces.ProviderClaude:
		return NewClaudeService(&cfg.Claude, logger)
	case interfaces.ProviderGemini:
		return NewGeminiService(ctx, &cfg.Gemini, logger)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}
}
