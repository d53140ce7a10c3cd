package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements the CompletionService interface using the
// Google Gemini API.
type GeminiService struct {
	config *common.GeminiConfig
	logger arbor.ILogger
	client *genai.Client
}

// NewGeminiService creates a new Gemini completion service instance.
func NewGeminiService(ctx context.Context, config *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set via GEMINI_API_KEY or llm.gemini.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config: config,
		logger: logger,
		client: client,
	}

	logger.Debug().
		Str("model", config.Model).
		Msg("Gemini completion service initialized")

	return service, nil
}

// Complete generates a single completion for the given request.
func (s *GeminiService) Complete(ctx context.Context, request *interfaces.CompletionRequest) (*interfaces.CompletionResponse, error) {
	if request == nil || request.UserPrompt == "" {
		return nil, fmt.Errorf("user prompt cannot be empty for completion")
	}

	model := request.Model
	if model == "" {
		model = s.config.Model
	}
	temperature := request.Temperature
	if temperature == 0 {
		temperature = s.config.Temperature
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if request.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(request.SystemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(request.UserPrompt)},
		},
	}

	startTime := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, &UpstreamError{
			Provider: interfaces.ProviderGemini,
			Message:  err.Error(),
		}
	}

	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	text := strings.TrimSpace(response.String())
	if text == "" {
		return nil, &UpstreamError{
			Provider: interfaces.ProviderGemini,
			Message:  "empty content",
		}
	}

	s.logger.Debug().
		Str("model", model).
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini completion succeeded")

	return &interfaces.CompletionResponse{
		Text:     text,
		Provider: interfaces.ProviderGemini,
		Model:    model,
	}, nil
}

// GetProviderType returns the provider identifier.
func (s *GeminiService) GetProviderType() interfaces.ProviderType {
	return interfaces.ProviderGemini
}

// Close releases resources held by the service.
func (s *GeminiService) Close() error {
	s.client = nil
	return nil
}
