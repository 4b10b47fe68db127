package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/leitner/internal/config"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/platform/deckfile"
	"github.com/phrazzld/leitner/internal/platform/memory"
	"github.com/phrazzld/leitner/internal/platform/postgres"
	"github.com/phrazzld/leitner/internal/service/review"
	"github.com/phrazzld/leitner/internal/store"
)

// application holds the dependencies built from the configuration and
// releases them in cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is only set for the postgres driver.
	db *sql.DB

	decks   store.DeckStore
	reviews review.Service
}

// newApplication selects the deck store named by the configuration and
// builds the review service on top of it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	scheduler, err := leitner.NewServiceWithParams(&leitner.Params{
		HardStep: cfg.Scheduler.HardStep,
		EasyStep: cfg.Scheduler.EasyStep,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		app.decks = memory.NewDeckStore(logger)

	case config.DriverFile:
		decks, err := deckfile.NewDeckStore(cfg.Storage.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open deck file: %w", err)
		}
		app.decks = decks

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Storage.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.decks = postgres.NewPostgresDeckStore(db, logger)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	app.reviews = review.NewService(app.decks, scheduler, logger)

	logger.Debug("application initialized", slog.String("storage_driver", cfg.Storage.Driver))
	return app, nil
}

// cleanup releases the store and the database connection.
func (app *application) cleanup() {
	if app.decks != nil {
		if err := app.decks.Close(); err != nil {
			app.logger.Error("error closing deck store", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
}
