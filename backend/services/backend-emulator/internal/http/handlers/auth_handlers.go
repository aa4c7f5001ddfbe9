package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"powercalc/backend/services/backend-emulator/internal/service"
)

// AuthHandlers serves the /auth/v1 endpoints.
type AuthHandlers struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(auth *service.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{auth: auth, logger: logger}
}

// Signup handles POST /auth/v1/signup. Confirmed sign-ups answer with a
// session, unconfirmed ones with the bare user.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Data     map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": http.StatusBadRequest, "error_code": "bad_json", "msg": "Could not parse request body as JSON"})
		return
	}

	user, session, err := h.auth.Signup(r.Context(), req.Email, req.Password, req.Data)
	if err != nil {
		h.logger.Debug("signup rejected", zap.Error(err))
		writeAuthError(w, err)
		return
	}
	if session != nil {
		writeJSON(w, http.StatusOK, session)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Token handles POST /auth/v1/token for the password and refresh_token grants.
func (h *AuthHandlers) Token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": http.StatusBadRequest, "error_code": "bad_json", "msg": "Could not parse request body as JSON"})
		return
	}

	switch grant := r.URL.Query().Get("grant_type"); grant {
	case "password":
		session, err := h.auth.PasswordGrant(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	case "refresh_token":
		session, err := h.auth.RefreshGrant(r.Context(), req.RefreshToken)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": http.StatusBadRequest, "error_code": "validation_failed", "msg": "unsupported_grant_type"})
	}
}

// User handles GET /auth/v1/user.
func (h *AuthHandlers) User(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.auth.User(r.Context(), bearerToken(r))
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /auth/v1/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
