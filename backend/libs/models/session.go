package models

import "time"

// Session is the token set issued by the backend on sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// Expiry returns the absolute expiry, or the zero time when unknown.
func (s *Session) Expiry() time.Time {
	if s == nil || s.ExpiresAt <= 0 {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0)
}

// ExpiresWithin reports whether the access token expires before now+margin.
// Sessions without a known expiry never expire locally.
func (s *Session) ExpiresWithin(now time.Time, margin time.Duration) bool {
	exp := s.Expiry()
	if exp.IsZero() {
		return false
	}
	return !now.Add(margin).Before(exp)
}
