package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"powercalc/backend/libs/gateway"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"a", "b", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	var key string
	h := SessionMiddleware("sid", false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		key = gateway.SessionKeyFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %v", cookies)
	}
	if cookies[0].Value != key {
		t.Fatalf("context key %q, cookie %q", key, cookies[0].Value)
	}
}

func TestSessionMiddlewareReusesValidCookie(t *testing.T) {
	existing := uuid.NewString()
	var key string
	h := SessionMiddleware("sid", false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		key = gateway.SessionKeyFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: existing})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if key != existing {
		t.Fatalf("key = %q, want %q", key, existing)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("cookie was reissued")
	}
}

func TestSessionMiddlewareReplacesForgedCookie(t *testing.T) {
	var key string
	h := SessionMiddleware("sid", false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		key = gateway.SessionKeyFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if _, err := uuid.Parse(key); err != nil {
		t.Fatalf("key %q is not a uuid", key)
	}
}

type gateFunc func(ctx context.Context) gateway.AuthGate

func (f gateFunc) RequireAuth(ctx context.Context) gateway.AuthGate { return f(ctx) }

func TestRequireAuthMiddleware(t *testing.T) {
	allowed := false
	gate := gateFunc(func(context.Context) gateway.AuthGate {
		if allowed {
			return gateway.AuthGate{Allowed: true}
		}
		return gateway.AuthGate{RedirectTo: "/login.html"}
	})
	h := RequireAuthMiddleware(gate)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login.html" {
		t.Fatalf("status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}

	allowed = true
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}
