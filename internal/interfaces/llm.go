package interfaces

import "context"

// ProviderType identifies a completion provider implementation.
type ProviderType string

const (
	// ProviderOpenAI uses the OpenAI chat completions API
	ProviderOpenAI ProviderType = "openai"
	// ProviderClaude uses the Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses the Google Gemini API
	ProviderGemini ProviderType = "gemini"
)

// CompletionRequest is a provider-agnostic single-turn completion request.
type CompletionRequest struct {
	Model        string
	Temperature  float32
	MaxTokens    int
	SystemPrompt string
	UserPrompt   string
}

// CompletionResponse is a provider-agnostic completion result.
type CompletionResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// CompletionService generates text completions from an external LLM API.
// Implementations perform no retries; a failed call surfaces to the caller.
type CompletionService interface {
	Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)
	GetProviderType() ProviderType
	Close() error
}
