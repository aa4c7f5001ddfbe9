package gateway

import (
	"errors"
	"fmt"

	"powercalc/backend/libs/supabase"
)

// ErrorKind tells callers why an operation degraded.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindNotAuthenticated: no signed-in user for a protected operation.
	KindNotAuthenticated
	// KindBackend: the backend answered with a domain error.
	KindBackend
	// KindTransport: network failure or malformed response.
	KindTransport
	// KindUnavailable: the client or the session store could not be used.
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindBackend:
		return "backend"
	case KindTransport:
		return "transport"
	case KindUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrNotAuthenticated is wrapped by failures of protected operations
// attempted without a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Failure is the error every gateway operation degrades to.
type Failure struct {
	Kind    ErrorKind
	Message string
	// UserMessage, when set, is meant to be shown to the person at the screen.
	UserMessage string
	Err         error
}

func (f *Failure) Error() string {
	return "gateway: " + f.Kind.String() + ": " + f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

// KindOf returns the kind of a *Failure in err's chain, KindNone for nil
// and KindTransport for anything else.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindTransport
}

func classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	var apiErr *supabase.APIError
	switch {
	case errors.As(err, &apiErr):
		return &Failure{Kind: KindBackend, Message: apiErr.Message, Err: err}
	case errors.Is(err, supabase.ErrSessionMissing):
		return &Failure{Kind: KindNotAuthenticated, Message: err.Error(), Err: err}
	default:
		return &Failure{Kind: KindTransport, Message: err.Error(), Err: err}
	}
}

func notAuthenticated(userMessage string) *Failure {
	return &Failure{
		Kind:        KindNotAuthenticated,
		Message:     ErrNotAuthenticated.Error(),
		UserMessage: userMessage,
		Err:         ErrNotAuthenticated,
	}
}

func unavailable(what string, err error) *Failure {
	return &Failure{Kind: KindUnavailable, Message: what + ": " + err.Error(), Err: err}
}
