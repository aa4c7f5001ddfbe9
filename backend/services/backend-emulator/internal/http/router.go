package httpserver

import (
	"crypto/subtle"
	"net/http"

	"powercalc/backend/services/backend-emulator/internal/http/handlers"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Auth    *handlers.AuthHandlers
	Rest    http.Handler
	Health  http.HandlerFunc
	AnonKey string
}

// NewRouter wires all HTTP routes. Everything but /health needs the apikey
// header.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	keyed := requireAPIKey(routes.AnonKey)

	mux.Handle("/auth/v1/signup", keyed(method(http.MethodPost, routes.Auth.Signup)))
	mux.Handle("/auth/v1/token", keyed(method(http.MethodPost, routes.Auth.Token)))
	mux.Handle("/auth/v1/user", keyed(method(http.MethodGet, routes.Auth.User)))
	mux.Handle("/auth/v1/logout", keyed(method(http.MethodPost, routes.Auth.Logout)))
	mux.Handle("/rest/v1/", keyed(routes.Rest))
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}

func requireAPIKey(anonKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("apikey")
			if key == "" {
				key = r.URL.Query().Get("apikey")
			}
			switch {
			case key == "":
				writeKeyError(w, "No API key found in request")
			case subtle.ConstantTimeCompare([]byte(key), []byte(anonKey)) != 1:
				writeKeyError(w, "Invalid API key")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func writeKeyError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}`))
}
