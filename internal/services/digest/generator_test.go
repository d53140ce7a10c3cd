package digest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/interfaces"
	"github.com/ternarybob/briefing/internal/models"
	"github.com/ternarybob/briefing/internal/services/llm"
)

// fakeCompletion records requests and returns canned responses.
type fakeCompletion struct {
	requests []*interfaces.CompletionRequest
	text     string
	err      error
	failFor  map[string]error // keyed by substring of the user prompt
}

func (f *fakeCompletion) Complete(ctx context.Context, request *interfaces.CompletionRequest) (*interfaces.CompletionResponse, error) {
	f.requests = append(f.requests, request)
	for needle, err := range f.failFor {
		if strings.Contains(request.UserPrompt, needle) {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	text := f.text
	if text == "" {
		text = "A short digest."
	}
	return &interfaces.CompletionResponse{Text: text, Provider: interfaces.ProviderOpenAI, Model: "test"}, nil
}

func (f *fakeCompletion) GetProviderType() interfaces.ProviderType { return interfaces.ProviderOpenAI }
func (f *fakeCompletion) Close() error                             { return nil }

func TestGenerateTruncatesTopics(t *testing.T) {
	topics := make([]string, 0, 20)
	for i := 1; i <= 20; i++ {
		topics = append(topics, fmt.Sprintf("topic-%02d", i))
	}

	fake := &fakeCompletion{}
	generator := NewGenerator(fake, 0, arbor.NewLogger())

	_, err := generator.Generate(context.Background(), models.Candidate{
		UserID: "u1",
		Email:  "a@x.com",
		Topics: topics,
	})
	require.NoError(t, err)
	require.Len(t, fake.requests, 1)

	prompt := fake.requests[0].UserPrompt
	for i := 1; i <= 12; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("%d. topic-%02d", i, i))
	}
	assert.NotContains(t, prompt, "topic-13")
	assert.NotContains(t, prompt, "13.")
}

func TestGenerateDedupesFirstSeen(t *testing.T) {
	fake := &fakeCompletion{}
	generator := NewGenerator(fake, 12, arbor.NewLogger())

	_, err := generator.Generate(context.Background(), models.Candidate{
		UserID: "u1",
		Email:  "a@x.com",
		Topics: []string{"ai", "climate", "ai", "rust", "climate"},
	})
	require.NoError(t, err)
	require.Len(t, fake.requests, 1)

	prompt := fake.requests[0].UserPrompt
	assert.Contains(t, prompt, "1. ai")
	assert.Contains(t, prompt, "2. climate")
	assert.Contains(t, prompt, "3. rust")
	assert.Equal(t, 1, strings.Count(prompt, "ai\n"))
}

func TestGeneratePromptContents(t *testing.T) {
	fake := &fakeCompletion{}
	generator := NewGenerator(fake, 12, arbor.NewLogger())

	_, err := generator.Generate(context.Background(), models.Candidate{
		UserID: "u1",
		Email:  "a@x.com",
		Topics: []string{"ai"},
	})
	require.NoError(t, err)
	require.Len(t, fake.requests, 1)

	request := fake.requests[0]
	assert.Contains(t, request.SystemPrompt, "concise research assistant")
	assert.Contains(t, request.SystemPrompt, "120 words")
	assert.Contains(t, request.UserPrompt, "The user (a@x.com) cares about these topics:")
	assert.Contains(t, request.UserPrompt, "timely developments or tips")
}

func TestGeneratePropagatesUpstreamError(t *testing.T) {
	fake := &fakeCompletion{
		err: &llm.UpstreamError{Provider: interfaces.ProviderOpenAI, Message: "empty content"},
	}
	generator := NewGenerator(fake, 12, arbor.NewLogger())

	_, err := generator.Generate(context.Background(), models.Candidate{
		UserID: "u1",
		Email:  "a@x.com",
		Topics: []string{"ai"},
	})
	require.Error(t, err)

	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "empty content", upstream.Message)
}
