package service

import (
	"fmt"
	"net/http"
)

// Error is a failure reported to clients with its HTTP status and a
// machine readable code.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func newError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

var (
	errInvalidCredentials = newError(http.StatusBadRequest, "invalid_credentials", "Invalid login credentials")
	errEmailNotConfirmed  = newError(http.StatusBadRequest, "email_not_confirmed", "Email not confirmed")
	errUserExists         = newError(http.StatusUnprocessableEntity, "user_already_exists", "User already registered")
	errInvalidEmail       = newError(http.StatusBadRequest, "validation_failed", "Unable to validate email address: invalid format")
	errWeakPassword       = newError(http.StatusUnprocessableEntity, "weak_password", "Password should be at least 6 characters.")
	errRefreshNotFound    = newError(http.StatusBadRequest, "refresh_token_not_found", "Invalid Refresh Token: Refresh Token Not Found")
	errRefreshUsed        = newError(http.StatusBadRequest, "refresh_token_already_used", "Invalid Refresh Token: Already Used")
	errSessionNotFound    = newError(http.StatusForbidden, "session_not_found", "Session from session_id claim in JWT does not exist")
	errUserNotFound       = newError(http.StatusForbidden, "user_not_found", "User from sub claim in JWT does not exist")
)

func badJWT(err error) *Error {
	return newError(http.StatusForbidden, "bad_jwt", "invalid JWT: unable to parse or verify signature, "+err.Error())
}

// Row API failures use Postgres error codes.
func rowSecurity(status int, table string) *Error {
	return newError(status, "42501", fmt.Sprintf("new row violates row-level security policy for table %q", table))
}

func unknownTable(table string) *Error {
	return newError(http.StatusNotFound, "42P01", fmt.Sprintf("relation \"public.%s\" does not exist", table))
}

func unknownColumn(table, column string) *Error {
	return newError(http.StatusBadRequest, "42703", fmt.Sprintf("column %s.%s does not exist", table, column))
}

func badFilter(raw string) *Error {
	return newError(http.StatusBadRequest, "PGRST100", fmt.Sprintf("failed to parse filter (%s)", raw))
}

func badBody(err error) *Error {
	return newError(http.StatusBadRequest, "PGRST102", "Empty or invalid json: "+err.Error())
}
