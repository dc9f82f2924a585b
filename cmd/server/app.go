package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/costscope/costscope-api/internal/config"
	"github.com/costscope/costscope-api/internal/events"
	"github.com/costscope/costscope-api/internal/platform/gemini"
	"github.com/costscope/costscope-api/internal/platform/postgres"
	"github.com/costscope/costscope-api/internal/service"
	"github.com/costscope/costscope-api/internal/service/auth"
	"github.com/costscope/costscope-api/internal/store"
	"github.com/costscope/costscope-api/internal/task"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	resourceStore store.ResourceStore
	cacheStore    store.RecommendationCacheStore

	jwtService       auth.JWTService
	passwordVerifier *auth.BcryptVerifier

	registry        *task.Registry
	runner          *task.Runner
	eventEmitter    *events.InMemoryEventEmitter
	userService     service.UserService
	analysisService service.AnalysisService
}

// newApplication builds the full dependency graph: database, stores, auth
// services, the in-memory task registry, the background runner, and the
// analysis service. The runner is started before returning.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	resourceStore := postgres.NewPostgresResourceStore(db, logger)
	cacheStore := postgres.NewPostgresRecommendationCacheStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwordVerifier := auth.NewBcryptVerifier()

	userService, err := service.NewUserService(
		db, userStore, passwordVerifier, passwordVerifier, jwtService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	generator, err := gemini.NewGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation generator: %w", err)
	}

	registry := task.NewRegistry(logger)

	runner := task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	if err := runner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	eventEmitter := events.NewInMemoryEventEmitter(logger)
	eventEmitter.RegisterHandler(events.NewLoggingHandler(logger))

	analysisService, err := service.NewAnalysisService(
		resourceStore,
		cacheStore,
		generator,
		registry,
		runner,
		eventEmitter,
		logger,
	)
	if err != nil {
		runner.Stop()
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		resourceStore:    resourceStore,
		cacheStore:       cacheStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		registry:         registry,
		runner:           runner,
		eventEmitter:     eventEmitter,
		userService:      userService,
		analysisService:  analysisService,
	}, nil
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	app.runner.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection",
			slog.String("error", err.Error()))
	}
}
