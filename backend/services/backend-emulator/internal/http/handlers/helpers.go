package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"powercalc/backend/services/backend-emulator/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// writeAuthError renders the auth API envelope.
func writeAuthError(w http.ResponseWriter, err error) {
	status, code, msg := http.StatusInternalServerError, "unexpected_failure", "Unexpected failure, please check server logs for more information"
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status, code, msg = svcErr.Status, svcErr.Code, svcErr.Message
	}
	writeJSON(w, status, map[string]any{"code": status, "error_code": code, "msg": msg})
}

// writeRowError renders the row API envelope.
func writeRowError(w http.ResponseWriter, err error) {
	status, code, msg := http.StatusInternalServerError, "XX000", "internal error"
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status, code, msg = svcErr.Status, svcErr.Code, svcErr.Message
	}
	writeJSON(w, status, map[string]any{"code": code, "details": nil, "hint": nil, "message": msg})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		token, _ = strings.CutPrefix(header, "bearer ")
	}
	return strings.TrimSpace(token)
}
