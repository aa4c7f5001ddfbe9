package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"powercalc/backend/libs/logging"
	"powercalc/backend/libs/telemetry"
	"powercalc/backend/services/calculator-web/internal/app"
	"powercalc/backend/services/calculator-web/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("calculator-web")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	shutdown := telemetry.Setup(ctx, "calculator-web", logger)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init calculator web", zap.Error(err))
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("calculator web stopped with error", zap.Error(err))
	}
}
