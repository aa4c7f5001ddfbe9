package supabase

import (
	"context"
	"net/http"
	"time"

	"powercalc/backend/libs/models"
)

const authPrefix = "/auth/v1"

// AuthClient talks to the backend's auth API.
type AuthClient struct {
	base *BaseClient
	now  func() time.Time
}

// NewAuthClient returns an auth client sharing base.
func NewAuthClient(base *BaseClient) *AuthClient {
	return &AuthClient{base: base, now: time.Now}
}

// SignUpResult carries the created user and, when the backend confirms
// accounts automatically, a ready session.
type SignUpResult struct {
	User    *models.User
	Session *models.Session
}

// signUpBody decodes both response shapes: a session envelope, or a bare user.
type signUpBody struct {
	models.Session
	models.User
}

// SignUp registers email/password with metadata stored on the user profile.
func (c *AuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*SignUpResult, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}

	var body signUpBody
	if err := c.base.do(ctx, request{method: http.MethodPost, path: authPrefix + "/signup", body: payload}, &body); err != nil {
		return nil, err
	}

	if body.Session.AccessToken != "" {
		session := body.Session
		c.stampExpiry(&session)
		return &SignUpResult{User: session.User, Session: &session}, nil
	}
	user := body.User
	return &SignUpResult{User: &user}, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	payload := map[string]string{"email": email, "password": password}
	return c.token(ctx, "password", payload)
}

// RefreshSession exchanges a refresh token for a new session.
func (c *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	if refreshToken == "" {
		return nil, ErrSessionMissing
	}
	return c.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *AuthClient) token(ctx context.Context, grant string, payload any) (*models.Session, error) {
	var session models.Session
	path := authPrefix + "/token?grant_type=" + grant
	if err := c.base.do(ctx, request{method: http.MethodPost, path: path, body: payload}, &session); err != nil {
		return nil, err
	}
	c.stampExpiry(&session)
	return &session, nil
}

// GetUser returns the user behind accessToken.
func (c *AuthClient) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, ErrSessionMissing
	}
	var user models.User
	if err := c.base.do(ctx, request{method: http.MethodGet, path: authPrefix + "/user", token: accessToken}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut revokes the session behind accessToken.
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrSessionMissing
	}
	return c.base.do(ctx, request{method: http.MethodPost, path: authPrefix + "/logout", token: accessToken}, nil)
}

// stampExpiry fills ExpiresAt from ExpiresIn when the backend omitted it.
func (c *AuthClient) stampExpiry(s *models.Session) {
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = c.now().Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	}
}
