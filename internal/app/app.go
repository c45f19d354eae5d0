// Package app aggregates the application's long-lived services. Commands
// and the TUI consume App instead of cherry-picking raw dependencies.
package app

import (
	"github.com/rs/zerolog"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/config"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/eventbus"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/logging"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/window"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/db"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/importer"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/stores"
)

// App is the central entry point for all reader operations.
type App struct {
	Config    *config.Config
	DB        *db.DB
	Bus       *eventbus.EventBus
	Verses    *stores.VerseStore
	Positions *stores.PositionStore
	Importer  *importer.Importer
	Log       zerolog.Logger
}

// New constructs an App from an open database and loaded config.
func New(cfg *config.Config, database *db.DB, bus *eventbus.EventBus, logger zerolog.Logger) *App {
	initialPage := cfg.Window.InitialPageSize
	if initialPage <= 0 {
		initialPage = window.DefaultConfig().InitialPageSize
	}
	return &App{
		Config:    cfg,
		DB:        database,
		Bus:       bus,
		Verses:    stores.NewVerseStore(database, initialPage),
		Positions: stores.NewPositionStore(database),
		Importer:  importer.New(database, logging.Component("importer")),
		Log:       logger,
	}
}
