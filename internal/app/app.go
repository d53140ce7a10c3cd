// Package app wires the application components together.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/catalog"
	"github.com/ternarybob/briefing/internal/common"
	"github.com/ternarybob/briefing/internal/handlers"
	"github.com/ternarybob/briefing/internal/interfaces"
	"github.com/ternarybob/briefing/internal/services/digest"
	"github.com/ternarybob/briefing/internal/services/llm"
	"github.com/ternarybob/briefing/internal/services/scheduler"
)

// DigestJobName is the scheduler name of the recurring digest run.
const DigestJobName = "daily-digest"

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Core services
	CatalogService    interfaces.CatalogService
	CompletionService interfaces.CompletionService
	SchedulerService  interfaces.SchedulerService
	Runner            *digest.Runner

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	DigestHandler *handlers.DigestHandler
}

// New creates the application with all services wired
func New(ctx context.Context, config *common.Config) (*App, error) {
	logger := common.GetLogger()

	catalogService, err := catalog.NewCatalogService(&config.Catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog service: %w", err)
	}

	completionService, err := llm.NewCompletionService(ctx, &config.LLM, logger)
	if err != nil {
		catalogService.Close()
		return nil, fmt.Errorf("failed to initialize completion service: %w", err)
	}

	generator := digest.NewGenerator(completionService, config.Digest.MaxTopics, logger)
	runner := digest.NewRunner(catalogService, generator, &config.Digest, logger)

	schedulerService := scheduler.NewService(logger)

	a := &App{
		Config:            config,
		Logger:            logger,
		CatalogService:    catalogService,
		CompletionService: completionService,
		SchedulerService:  schedulerService,
		Runner:            runner,
		APIHandler:        handlers.NewAPIHandler(),
		DigestHandler:     handlers.NewDigestHandler(runner, schedulerService, logger),
	}

	if err := a.registerJobs(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// registerJobs registers the recurring digest run. The scheduled run has no
// target email and its result is logged, not returned to any caller.
func (a *App) registerJobs(ctx context.Context) error {
	err := a.SchedulerService.RegisterJob(
		DigestJobName,
		a.Config.Digest.Schedule,
		"Generate daily interest digests for all users",
		func() error {
			result := a.Runner.Run(ctx, "")
			if !result.OK {
				return fmt.Errorf("digest run failed: %s", result.Error)
			}
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register digest job: %w", err)
	}
	return nil
}

// StartScheduler starts the background scheduler
func (a *App) StartScheduler() error {
	return a.SchedulerService.Start()
}

// Close releases all application resources
func (a *App) Close() error {
	if a.SchedulerService != nil && a.SchedulerService.IsRunning() {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler")
		}
	}

	if a.CompletionService != nil {
		a.CompletionService.Close()
	}

	if a.CatalogService != nil {
		if err := a.CatalogService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close catalog service")
			return err
		}
	}

	return nil
}
