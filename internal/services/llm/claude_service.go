package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/interfaces"
)

// ClaudeService implements the CompletionService interface using the
// Anthropic Claude API.
type ClaudeService struct {
	config *common.ClaudeConfig
	logger arbor.ILogger
	client *anthropic.Client
}

// NewClaudeService creates a new Claude completion service instance.
func NewClaudeService(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set via ANTHROPIC_API_KEY or llm.claude.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "claude-haiku-3-5-20241022"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 1024
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	service := &ClaudeService{
		config: config,
		logger: logger,
		client: &client,
	}

	logger.Debug().
		Str("model", config.Model).
		Int("max_tokens", config.MaxTokens).
		Msg("Claude completion service initialized")

	return service, nil
}

// Complete generates a single completion for the given request.
func (s *ClaudeService) Complete(ctx context.Context, request *interfaces.CompletionRequest) (*interfaces.CompletionResponse, error) {
	if request == nil || request.UserPrompt == "" {
		return nil, fmt.Errorf("user prompt cannot be empty for completion")
	}

	model := request.Model
	if model == "" {
		model = s.config.Model
	}
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.config.MaxTokens
	}
	temperature := request.Temperature
	if temperature == 0 {
		temperature = s.config.Temperature
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.UserPrompt)),
		},
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(float64(temperature))
	}
	if request.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: request.SystemPrompt},
		}
	}

	startTime := time.Now()
	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &UpstreamError{
			Provider: interfaces.ProviderClaude,
			Message:  err.Error(),
		}
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(response.String())
	if text == "" {
		return nil, &UpstreamError{
			Provider: interfaces.ProviderClaude,
			Message:  "empty content",
		}
	}

	s.logger.Debug().
		Str("model", model).
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Claude completion succeeded")

	return &interfaces.CompletionResponse{
		Text:     text,
		Provider: interfaces.ProviderClaude,
		Model:    model,
	}, nil
}

// GetProviderType returns the provider identifier.
func (s *ClaudeService) GetProviderType() interfaces.ProviderType {
	return interfaces.ProviderClaude
}

// Close releases resources held by the service.
func (s *ClaudeService) Close() error {
	s.client = nil
	return nil
}
