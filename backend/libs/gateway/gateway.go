// Package gateway is the facade UI code uses to authenticate people and to
// save and list their calculations against the hosted backend.
//
// Every operation degrades instead of failing hard: getters return nil,
// data operations return a *Failure, auth operations an AuthResult.
package gateway

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"powercalc/backend/libs/calcstore"
	"powercalc/backend/libs/models"
	"powercalc/backend/libs/sessions"
	"powercalc/backend/libs/supabase"
)

// expiryMargin refreshes sessions this long before their access token expires.
const expiryMargin = 10 * time.Second

// DefaultLoginPath is where RequireAuth sends anonymous visitors.
const DefaultLoginPath = "login.html"

// Config holds the backend endpoint and the login destination.
type Config struct {
	URL       string
	AnonKey   string
	LoginPath string
	// JWTSecret, when set, makes the gateway verify access tokens it decodes.
	JWTSecret string
}

// AuthAPI is the auth surface consumed from the backend SDK.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*supabase.SignUpResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Backend is the constructed client handle.
type Backend struct {
	Auth  AuthAPI
	Store calcstore.Store
}

// Factory constructs the Backend on first use.
type Factory func() (Backend, error)

// NewSupabaseFactory builds the backend from cfg. storeFn picks the row store;
// nil keeps rows in the hosted table.
func NewSupabaseFactory(cfg Config, httpClient supabase.HTTPDoer, storeFn func(*supabase.Client) calcstore.Store) Factory {
	return func() (Backend, error) {
		client, err := supabase.NewClient(cfg.URL, cfg.AnonKey, httpClient)
		if err != nil {
			return Backend{}, err
		}
		var store calcstore.Store = calcstore.NewRESTStore(client.Rest)
		if storeFn != nil {
			store = storeFn(client)
		}
		return Backend{Auth: client.Auth, Store: store}, nil
	}
}

// Gateway is safe for concurrent use. The backend handle is built at most
// once; a failed build is retried on the next call.
type Gateway struct {
	cfg      Config
	factory  Factory
	sessions sessions.Store
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	backend *Backend

	refreshes singleflight.Group
}

// New wires a gateway. A nil store keeps sessions in memory; a nil
// logger discards logs.
func New(cfg Config, factory Factory, store sessions.Store, logger *zap.Logger) *Gateway {
	if strings.TrimSpace(cfg.LoginPath) == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	if store == nil {
		store = sessions.NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		cfg:      cfg,
		factory:  factory,
		sessions: store,
		logger:   logger,
		now:      time.Now,
	}
}

// LoginPath returns the destination used by RequireAuth.
func (g *Gateway) LoginPath() string { return g.cfg.LoginPath }

// Initialize constructs the backend handle if it is not built yet.
func (g *Gateway) Initialize() error {
	_, err := g.client()
	return err
}

func (g *Gateway) client() (*Backend, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.backend != nil {
		return g.backend, nil
	}
	if g.factory == nil {
		err := errors.New("no backend factory configured")
		g.logger.Error("backend client unavailable", zap.Error(err))
		return nil, unavailable("backend client", err)
	}

	b, err := g.factory()
	if err == nil && (b.Auth == nil || b.Store == nil) {
		err = errors.New("factory returned an incomplete backend")
	}
	if err != nil {
		g.logger.Error("backend client unavailable", zap.Error(err))
		return nil, unavailable("backend client", err)
	}

	g.backend = &b
	g.logger.Debug("backend client initialized", zap.String("url", g.cfg.URL))
	return g.backend, nil
}
