package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a domain error reported by the backend (non-2xx response).
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend %d: %s", e.StatusCode, e.Message)
}

// TransportError wraps failures that happen before a backend verdict:
// network errors, unreadable or malformed responses.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// ErrSessionMissing is returned by calls that need an access token when none is held.
var ErrSessionMissing = errors.New("auth session missing")

// IsStatus reports whether err wraps an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// errorBody covers both the auth and the row API error envelopes.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	apiErr.Code = eb.ErrorCode
	if apiErr.Code == "" {
		var code string
		if json.Unmarshal(eb.Code, &code) == nil {
			apiErr.Code = code
		}
	}
	if apiErr.Code == "" && eb.ErrorDescription != "" {
		apiErr.Code = eb.Error
	}

	for _, candidate := range []string{eb.Msg, eb.Message, eb.ErrorDescription, eb.Error} {
		if candidate != "" {
			apiErr.Message = candidate
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
