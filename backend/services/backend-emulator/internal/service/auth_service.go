package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"powercalc/backend/libs/models"
	"powercalc/backend/services/backend-emulator/internal/password"
	"powercalc/backend/services/backend-emulator/internal/repository"
)

// Hasher defines password hashing contract.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// AuthService implements the account and session endpoints.
type AuthService struct {
	repo        *repository.Memory
	hasher      Hasher
	tokens      *TokenService
	autoconfirm bool
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService builds AuthService. With autoconfirm, sign-up confirms the
// account and opens a session right away.
func NewAuthService(repo *repository.Memory, hasher Hasher, tokens *TokenService, autoconfirm bool, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		autoconfirm: autoconfirm,
		logger:      logger,
		now:         time.Now,
	}
}

// Signup registers a user. The session is nil unless accounts are
// confirmed automatically.
func (s *AuthService) Signup(ctx context.Context, email, plain string, metadata map[string]any) (*models.User, *models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, nil, errInvalidEmail
	}

	hash, err := s.hasher.Hash(plain)
	if errors.Is(err, password.ErrTooShort) {
		return nil, nil, errWeakPassword
	}
	if err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	rec := repository.UserRecord{
		User: models.User{
			ID:           uuid.NewString(),
			Aud:          authenticated,
			Role:         authenticated,
			Email:        email,
			UserMetadata: metadata,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		PasswordHash: hash,
	}
	if s.autoconfirm {
		rec.EmailConfirmedAt = &now
	}

	if err := s.repo.CreateUser(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, nil, errUserExists
		}
		return nil, nil, err
	}
	s.logger.Info("user signed up", zap.String("user_id", rec.ID), zap.Bool("confirmed", s.autoconfirm))

	if !s.autoconfirm {
		return &rec.User, nil, nil
	}
	session, err := s.openSession(ctx, &rec.User, uuid.NewString())
	if err != nil {
		return nil, nil, err
	}
	return &rec.User, session, nil
}

// PasswordGrant signs a user in with email and password.
func (s *AuthService) PasswordGrant(ctx context.Context, email, plain string) (*models.Session, error) {
	rec, err := s.repo.UserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(rec.PasswordHash, plain); err != nil {
		return nil, errInvalidCredentials
	}
	if rec.EmailConfirmedAt == nil {
		return nil, errEmailNotConfirmed
	}
	return s.openSession(ctx, &rec.User, uuid.NewString())
}

// RefreshGrant exchanges a refresh token for a new session in the same
// login. Each refresh token works once.
func (s *AuthService) RefreshGrant(ctx context.Context, refreshToken string) (*models.Session, error) {
	rt, err := s.repo.ConsumeRefreshToken(ctx, refreshToken)
	if errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return nil, errRefreshNotFound
	}
	if err != nil {
		return nil, err
	}
	if rt.Revoked {
		return nil, errRefreshUsed
	}
	if _, err := s.repo.SessionUser(ctx, rt.SessionID); err != nil {
		return nil, errRefreshUsed
	}

	rec, err := s.repo.UserByID(ctx, rt.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, &rec.User, rt.SessionID)
}

// User resolves the user behind a live access token.
func (s *AuthService) User(ctx context.Context, accessToken string) (*models.User, string, error) {
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return nil, "", badJWT(err)
	}
	if _, err := s.repo.SessionUser(ctx, claims.SessionID); err != nil {
		return nil, "", errSessionNotFound
	}
	rec, err := s.repo.UserByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", errUserNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return &rec.User, claims.SessionID, nil
}

// Logout ends the session of accessToken.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	user, sessionID, err := s.User(ctx, accessToken)
	if err != nil {
		return err
	}
	if err := s.repo.CloseSession(ctx, sessionID); err != nil {
		return errSessionNotFound
	}
	s.logger.Info("user signed out", zap.String("user_id", user.ID))
	return nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, sessionID string) (*models.Session, error) {
	access, expiresAt, err := s.tokens.Sign(user, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.OpenSession(ctx, sessionID, user.ID); err != nil {
		return nil, err
	}
	refresh := uuid.NewString()
	if err := s.repo.SaveRefreshToken(ctx, repository.RefreshToken{Token: refresh, UserID: user.ID, SessionID: sessionID}); err != nil {
		return nil, err
	}
	return &models.Session{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.expiresIn / time.Second),
		ExpiresAt:    expiresAt.Unix(),
		RefreshToken: refresh,
		User:         user,
	}, nil
}
