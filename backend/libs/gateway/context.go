package gateway

import "context"

// DefaultSessionKey scopes operations when the context carries no key.
const DefaultSessionKey = "default"

type sessionKeyCtx struct{}

// WithSessionKey selects the browser context whose session operations on
// ctx read and write.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyCtx{}, key)
}

// SessionKeyFromContext returns the key set by WithSessionKey or DefaultSessionKey.
func SessionKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(sessionKeyCtx{}).(string); ok && key != "" {
		return key
	}
	return DefaultSessionKey
}
