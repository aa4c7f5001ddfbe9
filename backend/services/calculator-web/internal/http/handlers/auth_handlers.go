package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"powercalc/backend/libs/gateway"
)

// AuthHandlers serves sign-up, sign-in, sign-out and session lookups.
type AuthHandlers struct {
	gw     Gateway
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(gw Gateway, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{gw: gw, logger: logger}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.writeAuthResult(w, h.gw.SignUp(r.Context(), req.Email, req.Password, req.FullName))
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.writeAuthResult(w, h.gw.SignIn(r.Context(), req.Email, req.Password))
}

func (h *AuthHandlers) writeAuthResult(w http.ResponseWriter, res gateway.AuthResult) {
	status := http.StatusOK
	if !res.Success {
		status = statusFor(res.Kind)
	}
	writeJSON(w, status, res)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gw.SignOut(r.Context()); err != nil {
		writeError(w, statusFor(gateway.KindOf(err)), failureMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Session handles GET /api/auth/session. Tokens never leave the server.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.gw.GetSession(r.Context())
	if err != nil {
		writeError(w, statusFor(gateway.KindOf(err)), failureMessage(err))
		return
	}
	if session == nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"expires_at":    session.ExpiresAt,
		"user":          session.User,
	})
}

// Me handles GET /api/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.gw.GetCurrentUser(r.Context())
	if err != nil {
		writeError(w, statusFor(gateway.KindOf(err)), failureMessage(err))
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success":  false,
			"error":    "not authenticated",
			"redirect": h.gw.LoginPath(),
		})
		return
	}
	writeJSON(w, http.StatusOK, user)
}
