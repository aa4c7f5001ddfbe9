package handlers

import (
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"powercalc/backend/libs/supabase"
	"powercalc/backend/services/backend-emulator/internal/service"
)

const maxRowBody = 1 << 20

// RestHandlers serves /rest/v1/<table>.
type RestHandlers struct {
	rows    *service.RowsService
	tokens  *service.TokenService
	anonKey string
	logger  *zap.Logger
}

// NewRestHandlers returns handler struct. Requests bearing anonKey instead of
// a user token run as the anonymous role.
func NewRestHandlers(rows *service.RowsService, tokens *service.TokenService, anonKey string, logger *zap.Logger) *RestHandlers {
	return &RestHandlers{rows: rows, tokens: tokens, anonKey: anonKey, logger: logger}
}

// ServeHTTP dispatches GET to select and POST to insert.
func (h *RestHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table := strings.Trim(strings.TrimPrefix(r.URL.Path, "/rest/v1/"), "/")

	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		rows, err := h.rows.Select(r.Context(), caller, table, r.URL.Query())
		if err != nil {
			writeRowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxRowBody))
		if err != nil {
			writeRowError(w, err)
			return
		}
		if err := h.rows.Insert(r.Context(), caller, table, body); err != nil {
			h.logger.Debug("insert rejected", zap.String("table", table), zap.Error(err))
			writeRowError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// caller resolves the request role. A nil claim set with ok means anonymous.
func (h *RestHandlers) caller(w http.ResponseWriter, r *http.Request) (*supabase.Claims, bool) {
	token := bearerToken(r)
	if token == "" || token == h.anonKey {
		return nil, true
	}
	claims, err := h.tokens.Verify(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": "PGRST301", "details": err.Error(), "hint": nil, "message": "JWT could not be verified"})
		return nil, false
	}
	return claims, true
}
