package app

import (
	"context"

	"go.uber.org/zap"

	"powercalc/backend/services/backend-emulator/internal/config"
	httpserver "powercalc/backend/services/backend-emulator/internal/http"
	"powercalc/backend/services/backend-emulator/internal/http/handlers"
	"powercalc/backend/services/backend-emulator/internal/password"
	"powercalc/backend/services/backend-emulator/internal/repository"
	"powercalc/backend/services/backend-emulator/internal/service"
)

// App wires dependencies for the emulator.
type App struct {
	server *httpserver.Server
	logger *zap.Logger
}

// New builds application graph.
func New(cfg *config.Config, logger *zap.Logger) *App {
	repo := repository.NewMemory()
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenTTL())
	authSvc := service.NewAuthService(repo, password.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, cfg.Auth.Autoconfirm, logger)
	rowsSvc := service.NewRowsService(repo, logger)

	router := httpserver.NewRouter(httpserver.Routes{
		Auth:    handlers.NewAuthHandlers(authSvc, logger),
		Rest:    handlers.NewRestHandlers(rowsSvc, tokens, cfg.Auth.AnonKey, logger),
		Health:  handlers.NewHealthHandler(),
		AnonKey: cfg.Auth.AnonKey,
	})

	return &App{
		server: httpserver.NewServer(cfg.HTTPAddress(), router, logger),
		logger: logger,
	}
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}
