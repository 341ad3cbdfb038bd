package config

import (
	"log/slog"

	"github.com/ximedes/conto/pkg/eventbus"
	"github.com/ximedes/conto/pkg/repository"
)

// Deps bundles the shared dependencies wired into every service.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Logger   *slog.Logger
	Config   *App
}
