package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/interfaces"
)

// OpenAIService implements the CompletionService interface against the
// OpenAI chat completions API. The wire format is spoken directly so that
// upstream failures can be surfaced with their exact HTTP status and body.
type OpenAIService struct {
	config  *common.OpenAIConfig
	logger  arbor.ILogger
	client  *http.Client
	baseURL string
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Messages    []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIService creates a new OpenAI completion service instance.
func NewOpenAIService(config *common.OpenAIConfig, logger arbor.ILogger) (*OpenAIService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (set via OPENAI_API_KEY or llm.openai.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "gpt-5"
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	service := &OpenAIService{
		config:  config,
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Msg("OpenAI completion service initialized")

	return service, nil
}

// Complete generates a single completion for the given request.
func (s *OpenAIService) Complete(ctx context.Context, request *interfaces.CompletionRequest) (*interfaces.CompletionResponse, error) {
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
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.config.MaxTokens
	}

	messages := make([]openAIMessage, 0, 2)
	if request.SystemPrompt != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: request.SystemPrompt})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: request.UserPrompt})

	payload, err := json.Marshal(openAIRequest{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages:    messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	startTime := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			Provider: interfaces.ProviderOpenAI,
			Status:   resp.StatusCode,
			Body:     string(body),
		}
	}

	var completion openAIResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}

	var text string
	if len(completion.Choices) > 0 {
		text = strings.TrimSpace(completion.Choices[0].Message.Content)
	}
	if text == "" {
		return nil, &UpstreamError{
			Provider: interfaces.ProviderOpenAI,
			Message:  "empty content",
		}
	}

	s.logger.Debug().
		Str("model", model).
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("OpenAI completion succeeded")

	return &interfaces.CompletionResponse{
		Text:     text,
		Provider: interfaces.ProviderOpenAI,
		Model:    model,
	}, nil
}

// GetProviderType returns the provider identifier.
func (s *OpenAIService) GetProviderType() interfaces.ProviderType {
	return interfaces.ProviderOpenAI
}

// Close releases resources held by the service.
func (s *OpenAIService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
