package gateway

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"powercalc/backend/libs/models"
	"powercalc/backend/libs/sessions"
	"powercalc/backend/libs/supabase"
)

// AuthResult is returned by SignUp and SignIn. Error carries the backend's
// or the runtime's message when Success is false.
type AuthResult struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
	Kind    ErrorKind    `json:"-"`
}

func failedAuth(f *Failure) AuthResult {
	return AuthResult{Success: false, Error: f.Message, Kind: f.Kind}
}

// AuthGate is the outcome of RequireAuth. When Allowed is false the caller
// should navigate to RedirectTo.
type AuthGate struct {
	Allowed    bool
	RedirectTo string
	User       *models.User
}

// GetSession returns the session of the current browser context, refreshing
// it when the access token is about to expire. Anonymous contexts get nil, nil.
// Concurrent refreshes of one context share a single backend call.
func (g *Gateway) GetSession(ctx context.Context) (*models.Session, error) {
	b, err := g.client()
	if err != nil {
		return nil, err
	}

	key := SessionKeyFromContext(ctx)
	session, err := g.loadSession(ctx, key)
	if err != nil || session == nil {
		return nil, err
	}
	if !session.ExpiresWithin(g.now(), expiryMargin) {
		return session, nil
	}

	v, err, _ := g.refreshes.Do(key, func() (any, error) {
		return g.refresh(ctx, b, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Session), nil
}

func (g *Gateway) loadSession(ctx context.Context, key string) (*models.Session, error) {
	session, err := g.sessions.Load(ctx, key)
	if errors.Is(err, sessions.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		g.logger.Error("error checking auth", zap.String("session_key", key), zap.Error(err))
		return nil, unavailable("session store", err)
	}
	return session, nil
}

// refresh re-reads the stored session first: a caller that waited on the
// store may find it already rotated.
func (g *Gateway) refresh(ctx context.Context, b *Backend, key string) (*models.Session, error) {
	current, err := g.loadSession(ctx, key)
	if err != nil || current == nil {
		return nil, err
	}
	if !current.ExpiresWithin(g.now(), expiryMargin) {
		return current, nil
	}

	refreshed, err := b.Auth.RefreshSession(ctx, current.RefreshToken)
	if err != nil {
		f := classify(err)
		g.logger.Error("error refreshing session", zap.String("kind", f.Kind.String()), zap.Error(err))
		if f.Kind != KindBackend && f.Kind != KindNotAuthenticated {
			return nil, f
		}
		// Another process sharing the store may have rotated the token.
		latest, loadErr := g.loadSession(ctx, key)
		if loadErr == nil && latest != nil && latest.RefreshToken != current.RefreshToken {
			return latest, nil
		}
		if delErr := g.sessions.Delete(ctx, key); delErr != nil {
			g.logger.Warn("failed to drop rejected session", zap.Error(delErr))
		}
		return nil, f
	}
	if refreshed.User == nil {
		refreshed.User = current.User
	}
	if err := g.saveSession(ctx, refreshed); err != nil {
		return nil, err
	}
	return refreshed, nil
}

// GetCurrentUser returns the user behind the current session as the
// backend sees it, or nil for anonymous contexts.
func (g *Gateway) GetCurrentUser(ctx context.Context) (*models.User, error) {
	_, user, err := g.authenticated(ctx)
	return user, err
}

func (g *Gateway) authenticated(ctx context.Context) (*models.Session, *models.User, error) {
	b, err := g.client()
	if err != nil {
		return nil, nil, err
	}

	session, err := g.GetSession(ctx)
	if err != nil || session == nil {
		return nil, nil, err
	}

	user, err := b.Auth.GetUser(ctx, session.AccessToken)
	if err != nil {
		f := classify(err)
		g.logger.Error("error getting user", zap.String("kind", f.Kind.String()), zap.Error(err))
		return nil, nil, f
	}
	return session, user, nil
}

// SignUp registers a new account with fullName stored as profile metadata.
// Backends that confirm accounts automatically also sign the context in.
func (g *Gateway) SignUp(ctx context.Context, email, password, fullName string) AuthResult {
	b, err := g.client()
	if err != nil {
		return failedAuth(classify(err))
	}

	res, err := b.Auth.SignUp(ctx, email, password, map[string]any{models.FullNameKey: fullName})
	if err != nil {
		f := classify(err)
		g.logger.Error("signup error", zap.String("kind", f.Kind.String()), zap.Error(err))
		return failedAuth(f)
	}

	user := res.User
	if res.Session != nil {
		if user == nil {
			user = res.Session.User
		}
		if err := g.saveSession(ctx, res.Session); err != nil {
			return failedAuth(classify(err))
		}
	}

	userID := ""
	if user != nil {
		userID = user.ID
	}
	g.logger.Info("user signed up", zap.String("user_id", userID), zap.Bool("session", res.Session != nil))
	return AuthResult{Success: true, User: user}
}

// SignIn exchanges credentials for a session. Nothing is stored on failure.
func (g *Gateway) SignIn(ctx context.Context, email, password string) AuthResult {
	b, err := g.client()
	if err != nil {
		return failedAuth(classify(err))
	}

	session, err := b.Auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		f := classify(err)
		g.logger.Error("login error", zap.String("kind", f.Kind.String()), zap.Error(err))
		return failedAuth(f)
	}

	if err := g.saveSession(ctx, session); err != nil {
		return failedAuth(classify(err))
	}
	return AuthResult{Success: true, User: session.User}
}

// SignOut ends the current session. A nil error means signed out.
func (g *Gateway) SignOut(ctx context.Context) error {
	b, err := g.client()
	if err != nil {
		return err
	}

	key := SessionKeyFromContext(ctx)
	session, err := g.sessions.Load(ctx, key)
	if errors.Is(err, sessions.ErrNotFound) {
		return nil
	}
	if err != nil {
		g.logger.Error("error signing out", zap.Error(err))
		return unavailable("session store", err)
	}

	if err := b.Auth.SignOut(ctx, session.AccessToken); err != nil && !alreadySignedOut(err) {
		f := classify(err)
		g.logger.Error("error signing out", zap.String("kind", f.Kind.String()), zap.Error(err))
		return f
	}

	if err := g.sessions.Delete(ctx, key); err != nil {
		g.logger.Error("error signing out", zap.Error(err))
		return unavailable("session store", err)
	}
	return nil
}

// alreadySignedOut matches backend answers meaning the token is already gone.
func alreadySignedOut(err error) bool {
	return errors.Is(err, supabase.ErrSessionMissing) ||
		supabase.IsStatus(err, http.StatusUnauthorized) ||
		supabase.IsStatus(err, http.StatusForbidden) ||
		supabase.IsStatus(err, http.StatusNotFound)
}

// RequireAuth gates a protected view. Anonymous contexts get a redirect
// intent towards the login destination.
func (g *Gateway) RequireAuth(ctx context.Context) AuthGate {
	user, _ := g.GetCurrentUser(ctx)
	if user == nil {
		return AuthGate{Allowed: false, RedirectTo: g.cfg.LoginPath}
	}
	return AuthGate{Allowed: true, User: user}
}

func (g *Gateway) saveSession(ctx context.Context, session *models.Session) error {
	if session.ExpiresAt == 0 {
		claims, err := supabase.ParseClaims(session.AccessToken, g.cfg.JWTSecret)
		switch {
		case err != nil:
			g.logger.Warn("access token expiry unknown, session will not refresh locally", zap.Error(err))
		case claims.ExpiresAt != nil:
			session.ExpiresAt = claims.ExpiresAt.Unix()
		}
	}

	key := SessionKeyFromContext(ctx)
	if err := g.sessions.Save(ctx, key, session); err != nil {
		g.logger.Error("failed to persist session", zap.String("session_key", key), zap.Error(err))
		return unavailable("session store", err)
	}
	return nil
}
