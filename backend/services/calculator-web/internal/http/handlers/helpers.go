package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"powercalc/backend/libs/gateway"
	"powercalc/backend/libs/models"
)

// Gateway is the backend facade the handlers drive.
type Gateway interface {
	SignUp(ctx context.Context, email, password, fullName string) gateway.AuthResult
	SignIn(ctx context.Context, email, password string) gateway.AuthResult
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*models.Session, error)
	GetCurrentUser(ctx context.Context) (*models.User, error)
	SaveCalculation(ctx context.Context, hours, power, costPerKwh, totalCost string) error
	FetchCalculations(ctx context.Context) ([]models.Calculation, error)
	LoginPath() string
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// statusFor maps a degraded gateway outcome to an HTTP status.
func statusFor(kind gateway.ErrorKind) int {
	switch kind {
	case gateway.KindNone:
		return http.StatusOK
	case gateway.KindNotAuthenticated:
		return http.StatusUnauthorized
	case gateway.KindBackend:
		return http.StatusBadRequest
	case gateway.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func failureMessage(err error) string {
	var f *gateway.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
