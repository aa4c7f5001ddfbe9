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
	"powercalc/backend/services/backend-emulator/internal/app"
	"powercalc/backend/services/backend-emulator/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("backend-emulator")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	shutdown := telemetry.Setup(ctx, "backend-emulator", logger)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	if err := app.New(cfg, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("backend emulator stopped with error", zap.Error(err))
	}
}
