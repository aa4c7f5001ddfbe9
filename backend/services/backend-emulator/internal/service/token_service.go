package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"powercalc/backend/libs/models"
	"powercalc/backend/libs/supabase"
)

// Audience and role stamped on user tokens.
const authenticated = "authenticated"

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewTokenService returns configured token service.
func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return &TokenService{secret: []byte(secret), expiresIn: expiresIn, now: time.Now}
}

// Sign issues an access token for user in sessionID.
func (t *TokenService) Sign(user *models.User, sessionID string) (string, time.Time, error) {
	if user == nil || user.ID == "" {
		return "", time.Time{}, errors.New("token: user id is required")
	}

	now := t.now().UTC()
	expiresAt := now.Add(t.expiresIn)
	claims := supabase.Claims{
		Email:        user.Email,
		Role:         authenticated,
		SessionID:    sessionID,
		UserMetadata: user.UserMetadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{authenticated},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of a user token.
func (t *TokenService) Verify(token string) (*supabase.Claims, error) {
	claims, err := supabase.ParseClaims(token, string(t.secret))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token: missing sub claim")
	}
	return claims, nil
}
