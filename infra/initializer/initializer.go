// Package initializer constructs the dependency bundle for the server: the
// logger, the database connection and schema, the unit of work, and the event
// bus.
package initializer

import (
	"fmt"
	"log/slog"

	"github.com/ximedes/conto/infra"
	infraeventbus "github.com/ximedes/conto/infra/eventbus"
	infrarepo "github.com/ximedes/conto/infra/repository"
	"github.com/ximedes/conto/pkg/config"
)

// InitializeDependencies builds the shared dependency bundle from config.
func InitializeDependencies(cfg *config.App) (config.Deps, error) {
	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := infra.NewDBConnection(cfg.DB.Url, cfg.Env)
	if err != nil {
		return config.Deps{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return config.Deps{}, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return config.Deps{
		Uow:      infrarepo.NewUoW(db),
		EventBus: infraeventbus.NewWithMemory(logger),
		Logger:   logger,
		Config:   cfg,
	}, nil
}
