package digest

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/interfaces"
	"github.com/ternarybob/briefing/internal/models"
	"github.com/ternarybob/briefing/internal/services/interests"
	"golang.org/x/time/rate"
)

// Runner executes digest runs end to end: fetch interests, select
// candidates, generate and persist one digest per candidate. A Runner is
// safe for concurrent use; each Run call is independent.
type Runner struct {
	catalog        interfaces.CatalogService
	generator      *Generator
	logger         arbor.ILogger
	fetchLimit     int
	maxUsersPerRun int
	limiter        *rate.Limiter
}

// NewRunner creates a digest runner from the digest configuration. A
// positive pause installs a rate limiter that spaces completion calls; a
// zero pause disables pacing entirely.
func NewRunner(catalog interfaces.CatalogService, generator *Generator, cfg *common.DigestConfig, logger arbor.ILogger) *Runner {
	var limiter *rate.Limiter
	if pause := cfg.PauseDuration(); pause > 0 {
		limiter = rate.NewLimiter(rate.Every(pause), 1)
	}

	fetchLimit := cfg.FetchLimit
	if fetchLimit <= 0 {
		fetchLimit = 250
	}

	return &Runner{
		catalog:        catalog,
		generator:      generator,
		logger:         logger,
		fetchLimit:     fetchLimit,
		maxUsersPerRun: cfg.MaxUsersPerRun,
		limiter:        limiter,
	}
}

// Run performs one digest run. When targetEmail is non-empty, only that
// user's latest interest record is processed and any failure fails the run.
// Batch runs tolerate per-candidate failures: a candidate whose generation
// or persistence fails is logged and skipped, and the run still reports
// success with the count of digests actually written.
func (r *Runner) Run(ctx context.Context, targetEmail string) *models.RunResult {
	startedAt := time.Now().UTC()

	r.logger.Info().
		Str("target_email", targetEmail).
		Int("fetch_limit", r.fetchLimit).
		Msg("Digest run started")

	rows, err := r.catalog.QueryLatestInterests(ctx, r.fetchLimit)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to query interests")
		return reportFailed(startedAt, err)
	}

	candidates := interests.SelectLatest(rows, targetEmail)
	if len(candidates) == 0 {
		r.logger.Info().Str("target_email", targetEmail).Msg("No candidates for digest run")
		return reportEmpty(startedAt, targetEmail)
	}

	if targetEmail != "" {
		candidates = candidates[:1]
	} else if r.maxUsersPerRun > 0 && len(candidates) > r.maxUsersPerRun {
		candidates = candidates[:r.maxUsersPerRun]
	}

	// The limiter bucket refills while the runner sits idle between runs.
	// Drain it so the pause applies between the first two candidates too.
	if r.limiter != nil {
		r.limiter.Allow()
	}

	processed := 0
	for _, candidate := range candidates {
		err := r.processCandidate(ctx, candidate)
		if err != nil {
			if targetEmail != "" {
				return reportFailed(startedAt, err)
			}
			r.logger.Warn().
				Err(err).
				Str("email", candidate.Email).
				Msg("Skipping candidate after failure")
		} else {
			processed++
		}

		if err := r.pace(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("Digest run interrupted")
			return reportFailed(startedAt, err)
		}
	}

	r.logger.Info().
		Int("processed", processed).
		Int("candidates", len(candidates)).
		Dur("duration", time.Since(startedAt)).
		Msg("Digest run completed")

	return reportCompleted(startedAt, processed)
}

// processCandidate generates and persists a single digest.
func (r *Runner) processCandidate(ctx context.Context, candidate models.Candidate) error {
	summary, err := r.generator.Generate(ctx, candidate)
	if err != nil {
		return err
	}

	record := &models.DigestRecord{
		ID:          common.NewDigestID(),
		UserID:      candidate.UserID,
		Email:       candidate.Email,
		SummaryText: summary,
		GeneratedAt: time.Now().UTC(),
	}
	if err := r.catalog.InsertDigest(ctx, record); err != nil {
		return err
	}

	r.logger.Info().
		Str("email", candidate.Email).
		Str("preview", summaryPreview(summary)).
		Msg("Summary saved")

	return nil
}

// pace waits for the next limiter slot between candidates. A nil limiter
// means pacing is disabled.
func (r *Runner) pace(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}
