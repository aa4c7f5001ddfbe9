package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"powercalc/backend/libs/gateway"
)

// CalculationsHandlers saves and lists the signed-in user's calculations.
type CalculationsHandlers struct {
	gw     Gateway
	logger *zap.Logger
}

// NewCalculationsHandlers returns handler struct.
func NewCalculationsHandlers(gw Gateway, logger *zap.Logger) *CalculationsHandlers {
	return &CalculationsHandlers{gw: gw, logger: logger}
}

// Create handles POST /api/calculations. Fields may be JSON strings or
// numbers; their text is handed to the gateway unchanged.
func (h *CalculationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	hours := fieldText(body["hours"])
	power := fieldText(body["power"])
	costPerKwh := fieldText(body["cost_per_kwh"])
	totalCost, ok := body["total_cost"]
	total := fieldText(totalCost)
	if !ok || total == "" {
		total = EstimateTotalCost(hours, power, costPerKwh)
	}

	err := h.gw.SaveCalculation(r.Context(), hours, power, costPerKwh, total)
	if err != nil {
		payload := map[string]any{"success": false, "error": failureMessage(err)}
		var f *gateway.Failure
		if errors.As(err, &f) && f.UserMessage != "" {
			payload["alert"] = f.UserMessage
		}
		if gateway.KindOf(err) == gateway.KindNotAuthenticated {
			payload["redirect"] = h.gw.LoginPath()
		}
		writeJSON(w, statusFor(gateway.KindOf(err)), payload)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "total_cost": total})
}

// List handles GET /api/calculations.
func (h *CalculationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.gw.FetchCalculations(r.Context())
	if err != nil {
		payload := map[string]any{"calculations": rows, "error": failureMessage(err)}
		if gateway.KindOf(err) == gateway.KindNotAuthenticated {
			payload["redirect"] = h.gw.LoginPath()
		}
		writeJSON(w, statusFor(gateway.KindOf(err)), payload)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"calculations": rows})
}

// fieldText returns the text of a JSON string or the literal of any other
// scalar; null and absent fields are empty.
func fieldText(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}

// EstimateTotalCost prices hours of use at power watts: kWh times cost.
func EstimateTotalCost(hours, power, costPerKwh string) string {
	kwh := gateway.ParseDecimal(hours) * gateway.ParseDecimal(power) / 1000
	return strconv.FormatFloat(kwh*gateway.ParseDecimal(costPerKwh), 'f', -1, 64)
}
