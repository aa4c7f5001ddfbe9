package handlers

import "net/http"

// NewHealthHandler returns liveness probe handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
