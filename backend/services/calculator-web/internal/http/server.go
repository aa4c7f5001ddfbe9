package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"powercalc/backend/services/calculator-web/internal/http/middleware"
)

// Server wraps http.Server with middleware and tracing.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer builds HTTP server; middlewares run outermost first.
func NewServer(addr string, handler http.Handler, logger *zap.Logger, middlewares ...func(http.Handler) http.Handler) *Server {
	h := otelhttp.NewHandler(middleware.Chain(handler, middlewares...), "calculator-web")
	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      h,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the fully wrapped handler.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting calculator web", zap.String("addr", s.server.Addr))
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
