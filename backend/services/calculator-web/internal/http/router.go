package httpserver

import (
	"net/http"

	"powercalc/backend/services/calculator-web/internal/http/handlers"
	"powercalc/backend/services/calculator-web/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers         *handlers.AuthHandlers
	CalculationsHandlers *handlers.CalculationsHandlers
	HealthHandler        http.HandlerFunc
	// Static serves pages; paths under /app/ pass through RequireAuth first.
	Static      http.Handler
	RequireAuth func(http.Handler) http.Handler
}

// NewRouter wires HTTP routes.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", method(http.MethodGet, deps.HealthHandler))

	mux.Handle("/api/auth/signup", method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Signup)))
	mux.Handle("/api/auth/login", method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Login)))
	mux.Handle("/api/auth/logout", method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Logout)))
	mux.Handle("/api/auth/session", method(http.MethodGet, http.HandlerFunc(deps.AuthHandlers.Session)))
	mux.Handle("/api/me", method(http.MethodGet, http.HandlerFunc(deps.AuthHandlers.Me)))

	mux.Handle("/api/calculations", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.CalculationsHandlers.List(w, r)
		case http.MethodPost:
			deps.CalculationsHandlers.Create(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	if deps.Static != nil {
		protected := deps.Static
		if deps.RequireAuth != nil {
			protected = middleware.Chain(deps.Static, deps.RequireAuth)
		}
		mux.Handle("/app/", method(http.MethodGet, protected))
		mux.Handle("/", method(http.MethodGet, deps.Static))
	}

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
