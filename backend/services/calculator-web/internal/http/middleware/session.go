package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"powercalc/backend/libs/gateway"
)

const sessionCookieMaxAge = 30 * 24 * time.Hour

// SessionMiddleware gives every browser a random cookie and scopes gateway
// calls made on the request context to it.
func SessionMiddleware(cookieName string, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if c, err := r.Cookie(cookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					key = c.Value
				}
			}
			if key == "" {
				key = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    key,
					Path:     "/",
					MaxAge:   int(sessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(gateway.WithSessionKey(r.Context(), key)))
		})
	}
}

// Gate is the part of the gateway RequireAuthMiddleware needs.
type Gate interface {
	RequireAuth(ctx context.Context) gateway.AuthGate
}

// RequireAuthMiddleware redirects anonymous visitors to the login page.
func RequireAuthMiddleware(gate Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := gate.RequireAuth(r.Context())
			if !result.Allowed {
				http.Redirect(w, r, result.RedirectTo, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
