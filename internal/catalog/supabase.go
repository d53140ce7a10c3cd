// Package catalog provides the record store backends for interest rows and
// generated digests.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/interfaces"
	"github.com/ternarybob/briefing/internal/models"
)

// SupabaseCatalog talks to a Supabase project through its PostgREST
// endpoint. Requests carry the service role key in both the apikey and
// Authorization headers, so row-level security is bypassed.
type SupabaseCatalog struct {
	config  *common.SupabaseConfig
	logger  arbor.ILogger
	client  *http.Client
	baseURL string
}

// NewSupabaseCatalog creates a catalog backed by Supabase PostgREST.
func NewSupabaseCatalog(config *common.SupabaseConfig, logger arbor.ILogger) (*SupabaseCatalog, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("Supabase base URL is required (set via SUPABASE_URL or catalog.supabase.base_url in config)")
	}
	if config.ServiceRoleKey == "" {
		return nil, fmt.Errorf("Supabase service role key is required (set via SUPABASE_SERVICE_ROLE_KEY or catalog.supabase.service_role_key in config)")
	}

	if config.InterestsTable == "" {
		config.InterestsTable = "interests"
	}
	if config.DigestsTable == "" {
		config.DigestsTable = "daily_summaries"
	}

	timeout := 30 * time.Second
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
		}
		timeout = parsed
	}

	service := &SupabaseCatalog{
		config:  config,
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
	}

	logger.Debug().
		Str("interests_table", config.InterestsTable).
		Str("digests_table", config.DigestsTable).
		Dur("timeout", timeout).
		Msg("Supabase catalog initialized")

	return service, nil
}

// QueryLatestInterests fetches the newest interest rows, newest first.
func (s *SupabaseCatalog) QueryLatestInterests(ctx context.Context, limit int) ([]models.InterestRow, error) {
	query := url.Values{}
	query.Set("select", "user_id,email,topics,updated_at")
	query.Set("order", "updated_at.desc")
	query.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, s.config.InterestsTable, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &interfaces.ReadError{Err: err}
	}
	s.setAuthHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &interfaces.ReadError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &interfaces.ReadError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &interfaces.ReadError{Status: resp.StatusCode, Body: string(body)}
	}

	var rows []models.InterestRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &interfaces.ReadError{Err: fmt.Errorf("failed to decode interest rows: %w", err)}
	}

	s.logger.Debug().Int("rows", len(rows)).Msg("Fetched interest rows")

	return rows, nil
}

// InsertDigest writes one digest record as a single PostgREST insert.
func (s *SupabaseCatalog) InsertDigest(ctx context.Context, record *models.DigestRecord) error {
	payload, err := json.Marshal(supabaseDigestRow{
		ID:          record.ID,
		UserID:      record.UserID,
		Email:       record.Email,
		SummaryText: record.SummaryText,
		GeneratedAt: record.GeneratedAt,
	})
	if err != nil {
		return &interfaces.WriteError{Err: fmt.Errorf("failed to encode digest record: %w", err)}
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, s.config.DigestsTable)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return &interfaces.WriteError{Err: err}
	}
	s.setAuthHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return &interfaces.WriteError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &interfaces.WriteError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &interfaces.WriteError{Status: resp.StatusCode, Body: string(body)}
	}

	return nil
}

// Close releases resources held by the catalog.
func (s *SupabaseCatalog) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// setAuthHeaders attaches the service role credential. PostgREST expects it
// both as the apikey header and as a bearer token.
func (s *SupabaseCatalog) setAuthHeaders(req *http.Request) {
	req.Header.Set("apikey", s.config.ServiceRoleKey)
	req.Header.Set("Authorization", "Bearer "+s.config.ServiceRoleKey)
}

// supabaseDigestRow is the insert payload. The id is generated by the core,
// not the database; only created_at is assigned server-side.
type supabaseDigestRow struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	SummaryText string    `json:"summary_text"`
	GeneratedAt time.Time `json:"generated_at"`
}
