package main

import (
	"context"
	"fmt"

	log "github.com/charmbracelet/log"
	"github.com/ximedes/conto/infra/initializer"
	"github.com/ximedes/conto/pkg/config"
	accountsvc "github.com/ximedes/conto/pkg/service/account"
	authsvc "github.com/ximedes/conto/pkg/service/auth"
	transfersvc "github.com/ximedes/conto/pkg/service/transfer"
	usersvc "github.com/ximedes/conto/pkg/service/user"
	"github.com/ximedes/conto/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	accountSvc := accountsvc.New(deps)
	transferSvc := transfersvc.New(deps)
	transferSvc.RegisterHandlers(deps.EventBus)

	if _, err := accountSvc.EnsureRootAccount(context.Background()); err != nil {
		return fmt.Errorf("failed to bootstrap root account: %w", err)
	}

	app := webapi.SetupApp(webapi.Services{
		Account:  accountSvc,
		Transfer: transferSvc,
		Auth:     authsvc.New(deps),
		User:     usersvc.New(deps),
	}, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	deps.Logger.Info("starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)
	return app.Listen(addr)
}
