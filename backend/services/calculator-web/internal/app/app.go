package app

import (
	"context"
	"database/sql"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"powercalc/backend/libs/calcstore"
	"powercalc/backend/libs/db"
	"powercalc/backend/libs/gateway"
	libredis "powercalc/backend/libs/redis"
	"powercalc/backend/libs/sessions"
	"powercalc/backend/libs/supabase"
	"powercalc/backend/services/calculator-web/internal/config"
	httpserver "powercalc/backend/services/calculator-web/internal/http"
	"powercalc/backend/services/calculator-web/internal/http/handlers"
	"powercalc/backend/services/calculator-web/internal/http/middleware"
)

// App wires calculator-web dependencies.
type App struct {
	server  *httpserver.Server
	gateway *gateway.Gateway
	pool    *sql.DB
	redis   *goredis.Client
	logger  *zap.Logger
}

// New constructs the application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	var store sessions.Store = sessions.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		client, err := libredis.NewClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.redis = client
		store = sessions.NewRedisStore(client, cfg.SessionTTL())
	}

	var storeFn func(*supabase.Client) calcstore.Store
	if cfg.Data.Driver == config.DriverPostgres {
		pool, err := db.Open(ctx, cfg.Data.PostgresDSN)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.pool = pool
		pg := calcstore.NewPostgresStore(pool, cfg.Data.ListLimit)
		if cfg.Data.Migrate {
			if err := pg.EnsureSchema(ctx); err != nil {
				a.Close()
				return nil, err
			}
		}
		storeFn = func(*supabase.Client) calcstore.Store { return pg }
	}

	gwCfg := gateway.Config{
		URL:       cfg.Backend.URL,
		AnonKey:   cfg.Backend.AnonKey,
		LoginPath: cfg.Web.LoginPath,
		JWTSecret: cfg.Backend.JWTSecret,
	}
	httpClient := supabase.NewDefaultHTTPClient(cfg.BackendTimeout())
	a.gateway = gateway.New(gwCfg, gateway.NewSupabaseFactory(gwCfg, httpClient, storeFn), store, logger)
	if err := a.gateway.Initialize(); err != nil {
		a.Close()
		return nil, err
	}

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:         handlers.NewAuthHandlers(a.gateway, logger),
		CalculationsHandlers: handlers.NewCalculationsHandlers(a.gateway, logger),
		HealthHandler:        handlers.NewHealthHandler(),
		Static:               http.FileServer(http.Dir(cfg.Web.StaticDir)),
		RequireAuth:          middleware.RequireAuthMiddleware(a.gateway),
	})

	a.server = httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.SessionMiddleware(cfg.Web.CookieName, cfg.Web.CookieSecure),
	)
	return a, nil
}

// Run starts serving HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.pool != nil {
		if err := a.pool.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
