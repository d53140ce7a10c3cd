package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/interfaces"
)

func newTestOpenAIService(t *testing.T, handler http.HandlerFunc) (*OpenAIService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service, err := NewOpenAIService(&common.OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "gpt-5",
		Temperature: 0.4,
		MaxTokens:   512,
		Timeout:     "10s",
	}, arbor.NewLogger())
	require.NoError(t, err)

	return service, server
}

func TestOpenAICompleteRequestShape(t *testing.T) {
	var captured openAIRequest
	var capturedAuth string

	service, _ := newTestOpenAIService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		capturedAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "A digest."}},
			},
		})
	})

	response, err := service.Complete(context.Background(), &interfaces.CompletionRequest{
		SystemPrompt: "You are a concise research assistant.",
		UserPrompt:   "Write a digest.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", capturedAuth)
	assert.Equal(t, "gpt-5", captured.Model)
	assert.InDelta(t, 0.4, captured.Temperature, 0.0001)
	// Configured max_tokens applies when the request leaves it unset
	assert.Equal(t, 512, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "Write a digest.", captured.Messages[1].Content)

	assert.Equal(t, "A digest.", response.Text)
	assert.Equal(t, interfaces.ProviderOpenAI, response.Provider)
}

func TestOpenAICompleteUpstreamError(t *testing.T) {
	service, _ := newTestOpenAIService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	})

	_, err := service.Complete(context.Background(), &interfaces.CompletionRequest{
		UserPrompt: "Write a digest.",
	})
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.Status)
	assert.Contains(t, upstream.Body, "rate limited")
}

func TestOpenAICompleteEmptyContent(t *testing.T) {
	service, _ := newTestOpenAIService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{},
		})
	})

	_, err := service.Complete(context.Background(), &interfaces.CompletionRequest{
		UserPrompt: "Write a digest.",
	})
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "empty content", upstream.Message)
}

func TestOpenAIRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIService(&common.OpenAIConfig{Timeout: "10s"}, arbor.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
