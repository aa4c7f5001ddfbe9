package models

import "time"

// User is the identity record owned by the hosted backend.
type User struct {
	ID               string         `json:"id"`
	Aud              string         `json:"aud,omitempty"`
	Role             string         `json:"role,omitempty"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// FullNameKey is the profile metadata key written at sign-up.
const FullNameKey = "full_name"

// FullName returns the profile name supplied at sign-up, if any.
func (u *User) FullName() string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	name, _ := u.UserMetadata[FullNameKey].(string)
	return name
}
