package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/inbox-ai/internal/ai"
	"github.com/phrazzld/inbox-ai/internal/config"
	"github.com/phrazzld/inbox-ai/internal/events"
	"github.com/phrazzld/inbox-ai/internal/platform/postgres"
	"github.com/phrazzld/inbox-ai/internal/service"
	"github.com/phrazzld/inbox-ai/internal/service/auth"
	"github.com/phrazzld/inbox-ai/internal/store"
	"github.com/phrazzld/inbox-ai/internal/task"
)

// application holds the shared dependencies of the server and owns their
// shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	results   store.ResultStore
	cache     *ai.CachingService
	processor *task.Processor
	emitter   *events.InMemoryEventEmitter

	operations    service.OperationService
	tokens        auth.TokenService
	authenticator *auth.ClientAuthenticator

	relayDone chan error
}

// newApplication wires the processor, its event pipeline and the services the
// HTTP layer depends on, and starts the processor. db may be nil.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, aiService ai.Service) (*application, error) {
	if aiService == nil {
		return nil, errors.New("AI service cannot be nil")
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokens, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.authenticator = auth.NewClientAuthenticator(cfg.Auth, auth.BcryptVerifier{})
	logger.Info("authentication initialized",
		"client_id", cfg.Auth.ClientID,
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	if db != nil {
		app.results = postgres.NewResultStore(db)
	} else {
		app.results = store.NewMemoryResultStore(cfg.Database.MemoryResultLimit)
	}

	// a nil *CachingService must not reach the service as a non-nil interface
	var hitRate service.HitRateReporter
	if cfg.LLM.CacheTTL > 0 {
		app.cache = ai.NewCachingService(aiService, cfg.LLM.CacheTTL, logger)
		app.cache.Start()
		aiService = app.cache
		hitRate = app.cache
	}

	app.processor = task.NewProcessor(processorConfig(cfg.Processor), aiService, logger)

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.emitter.RegisterHandler(service.NewResultRecorder(app.results, logger), events.TypeOperationResult)

	app.operations, err = service.NewOperationService(app.processor, app.results, hitRate, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation service: %w", err)
	}

	app.startProcessor()

	logger.Info("application initialized successfully")
	return app, nil
}

// processorConfig converts the loaded configuration to processor tunables.
// Values left at zero fall back to the processor defaults.
func processorConfig(cfg config.ProcessorConfig) task.Config {
	c := task.DefaultConfig()
	c.MaxConcurrentOperations = cfg.MaxConcurrentOperations
	c.MaxQueueSize = cfg.MaxQueueSize
	c.OperationTimeout = cfg.OperationTimeout
	c.BatchSize = cfg.BatchSize
	c.ProgressUpdateInterval = cfg.ProgressUpdateInterval
	c.EnableStreaming = cfg.EnableStreaming
	c.MaxRetries = cfg.MaxRetries
	c.BatchItemDelay = cfg.BatchItemDelay
	return c
}

// startProcessor starts dispatching and relays the processor's streams into
// the event emitter until the streams close.
func (app *application) startProcessor() {
	progress, results := app.processor.Start()
	relay := task.NewEventRelay(app.emitter, app.logger)

	app.relayDone = make(chan error, 1)
	go func() {
		app.relayDone <- relay.Run(context.Background(), progress, results)
	}()
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives, then
// shuts everything down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup lets running operations finish, waits for their results to be
// recorded and releases the database. Queued operations are abandoned.
func (app *application) cleanup(ctx context.Context) {
	if app.processor != nil {
		if err := app.processor.Shutdown(ctx); err != nil {
			app.logger.Error("processor shutdown incomplete", "error", err)
		} else if app.relayDone != nil {
			select {
			case err := <-app.relayDone:
				if err != nil {
					app.logger.Error("event relay stopped with error", "error", err)
				}
			case <-ctx.Done():
				app.logger.Error("timed out waiting for event relay", "error", ctx.Err())
			}
		}

		if stats := app.processor.Stats(); stats.CurrentQueueSize > 0 {
			app.logger.Warn("queued operations abandoned at shutdown", "queue_len", stats.CurrentQueueSize)
		}
	}

	if app.cache != nil {
		app.cache.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
