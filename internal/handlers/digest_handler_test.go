package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/interfaces"
	"github.com/ternarybob/briefing/internal/models"
	"github.com/ternarybob/briefing/internal/services/digest"
	"github.com/ternarybob/briefing/internal/services/scheduler"
)

type stubCatalog struct {
	rows []models.InterestRow
}

func (s *stubCatalog) QueryLatestInterests(ctx context.Context, limit int) ([]models.InterestRow, error) {
	return s.rows, nil
}

func (s *stubCatalog) InsertDigest(ctx context.Context, record *models.DigestRecord) error {
	return nil
}

func (s *stubCatalog) Close() error { return nil }

type stubCompletion struct{}

func (s *stubCompletion) Complete(ctx context.Context, request *interfaces.CompletionRequest) (*interfaces.CompletionResponse, error) {
	return &interfaces.CompletionResponse{Text: "A digest.", Provider: interfaces.ProviderOpenAI, Model: "test"}, nil
}

func (s *stubCompletion) GetProviderType() interfaces.ProviderType { return interfaces.ProviderOpenAI }
func (s *stubCompletion) Close() error                             { return nil }

func newTestDigestHandler(rows []models.InterestRow) *DigestHandler {
	logger := arbor.NewLogger()
	generator := digest.NewGenerator(&stubCompletion{}, 12, logger)
	runner := digest.NewRunner(&stubCatalog{rows: rows}, generator, &common.DigestConfig{FetchLimit: 250, Pause: "0"}, logger)
	return NewDigestHandler(runner, scheduler.NewService(logger), logger)
}

func TestRunHandlerPostRequiresEmail(t *testing.T) {
	handler := newTestDigestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/digest/run", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.RunHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email is required")
}

func TestRunHandlerPostQueryFallback(t *testing.T) {
	rows := []models.InterestRow{
		{
			UserID:    "u1",
			Email:     "a@x.com",
			Topics:    json.RawMessage(`["ai"]`),
			UpdatedAt: time.Now(),
		},
	}
	handler := newTestDigestHandler(rows)

	req := httptest.NewRequest(http.MethodPost, "/api/digest/run?email=a@x.com", nil)
	rec := httptest.NewRecorder()

	handler.RunHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result models.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.OK)
}

func TestRunHandlerPostInvalidBody(t *testing.T) {
	handler := newTestDigestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/digest/run", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	handler.RunHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunHandlerPostSingleTarget(t *testing.T) {
	rows := []models.InterestRow{
		{
			UserID:    "u1",
			Email:     "a@x.com",
			Topics:    json.RawMessage(`["ai"]`),
			UpdatedAt: time.Now(),
		},
	}
	handler := newTestDigestHandler(rows)

	req := httptest.NewRequest(http.MethodPost, "/api/digest/run", strings.NewReader(`{"email":"a@x.com"}`))
	rec := httptest.NewRecorder()

	handler.RunHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result models.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.OK)
	require.NotNil(t, result.Processed)
	assert.Equal(t, 1, *result.Processed)
}

func TestRunHandlerGetBatchWithEmptyCatalog(t *testing.T) {
	handler := newTestDigestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/digest/run", nil)
	rec := httptest.NewRecorder()

	handler.RunHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result models.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.OK)
	assert.Equal(t, "No interests found", result.Message)
}

func TestRunHandlerMethodNotAllowed(t *testing.T) {
	handler := newTestDigestHandler(nil)

	req := httptest.NewRequest(http.MethodPut, "/api/digest/run", nil)
	rec := httptest.NewRecorder()

	handler.RunHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusHandler(t *testing.T) {
	handler := newTestDigestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/digest/status", nil)
	rec := httptest.NewRecorder()

	handler.StatusHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var statuses map[string]*interfaces.JobStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	assert.Empty(t, statuses)
}
