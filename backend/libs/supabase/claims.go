package supabase

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a backend access token.
type Claims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	SessionID    string         `json:"session_id,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes an access token. With a non-empty secret the HS256
// signature and expiry are verified; without one the payload is read as is.
func ParseClaims(token, secret string) (*Claims, error) {
	if token == "" {
		return nil, ErrSessionMissing
	}

	claims := &Claims{}
	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("decode access token: %w", err)
		}
		return claims, nil
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("verify access token: invalid")
	}
	return claims, nil
}
