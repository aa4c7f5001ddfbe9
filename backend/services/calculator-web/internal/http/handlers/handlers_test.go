package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"powercalc/backend/libs/gateway"
	"powercalc/backend/libs/models"
)

type fakeGateway struct {
	signUp      func(email, password, fullName string) gateway.AuthResult
	signIn      func(email, password string) gateway.AuthResult
	signOut     func() error
	session     func() (*models.Session, error)
	currentUser func() (*models.User, error)
	save        func(hours, power, costPerKwh, totalCost string) error
	fetch       func() ([]models.Calculation, error)
}

func (f *fakeGateway) SignUp(_ context.Context, email, password, fullName string) gateway.AuthResult {
	return f.signUp(email, password, fullName)
}

func (f *fakeGateway) SignIn(_ context.Context, email, password string) gateway.AuthResult {
	return f.signIn(email, password)
}

func (f *fakeGateway) SignOut(context.Context) error { return f.signOut() }

func (f *fakeGateway) GetSession(context.Context) (*models.Session, error) { return f.session() }

func (f *fakeGateway) GetCurrentUser(context.Context) (*models.User, error) { return f.currentUser() }

func (f *fakeGateway) SaveCalculation(_ context.Context, hours, power, costPerKwh, totalCost string) error {
	return f.save(hours, power, costPerKwh, totalCost)
}

func (f *fakeGateway) FetchCalculations(context.Context) ([]models.Calculation, error) {
	return f.fetch()
}

func (f *fakeGateway) LoginPath() string { return "/login.html" }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestSignupPassesFullName(t *testing.T) {
	var gotName string
	gw := &fakeGateway{signUp: func(email, password, fullName string) gateway.AuthResult {
		gotName = fullName
		return gateway.AuthResult{Success: true, User: &models.User{ID: "u1", Email: email}}
	}}
	h := NewAuthHandlers(gw, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{"email":"a@b.c","password":"pw","full_name":"Ada"}`))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotName != "Ada" {
		t.Fatalf("full name = %q", gotName)
	}
	if body := decodeBody(t, rec); body["success"] != true {
		t.Fatalf("body = %v", body)
	}
}

func TestLoginFailureStatus(t *testing.T) {
	gw := &fakeGateway{signIn: func(string, string) gateway.AuthResult {
		return gateway.AuthResult{Success: false, Error: "Invalid credentials", Kind: gateway.KindBackend}
	}}
	h := NewAuthHandlers(gw, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.c","password":"bad"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Invalid credentials" {
		t.Fatalf("body = %v", body)
	}
}

func TestLoginRejectsMalformedJSON(t *testing.T) {
	h := NewAuthHandlers(&fakeGateway{}, zap.NewNop())
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSessionHidesTokens(t *testing.T) {
	gw := &fakeGateway{session: func() (*models.Session, error) {
		return &models.Session{AccessToken: "secret-access", RefreshToken: "secret-refresh", ExpiresAt: 42, User: &models.User{ID: "u1"}}, nil
	}}
	h := NewAuthHandlers(gw, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("token leaked: %s", rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["authenticated"] != true || body["expires_at"] != float64(42) {
		t.Fatalf("body = %v", body)
	}
}

func TestSessionAnonymous(t *testing.T) {
	gw := &fakeGateway{session: func() (*models.Session, error) { return nil, nil }}
	rec := httptest.NewRecorder()
	NewAuthHandlers(gw, zap.NewNop()).Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	if body := decodeBody(t, rec); body["authenticated"] != false {
		t.Fatalf("body = %v", body)
	}
}

func TestMeAnonymousRedirects(t *testing.T) {
	gw := &fakeGateway{currentUser: func() (*models.User, error) { return nil, nil }}
	rec := httptest.NewRecorder()
	NewAuthHandlers(gw, zap.NewNop()).Me(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["redirect"] != "/login.html" {
		t.Fatalf("body = %v", body)
	}
}

func TestLogoutError(t *testing.T) {
	gw := &fakeGateway{signOut: func() error {
		return &gateway.Failure{Kind: gateway.KindTransport, Message: "connection refused"}
	}}
	rec := httptest.NewRecorder()
	NewAuthHandlers(gw, zap.NewNop()).Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "connection refused" {
		t.Fatalf("body = %v", body)
	}
}

func TestCreateAcceptsStringsAndNumbers(t *testing.T) {
	var got [4]string
	gw := &fakeGateway{save: func(hours, power, costPerKwh, totalCost string) error {
		got = [4]string{hours, power, costPerKwh, totalCost}
		return nil
	}}
	h := NewCalculationsHandlers(gw, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/calculations", strings.NewReader(`{"hours":"2","power":100,"cost_per_kwh":"0.15","total_cost":30}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if got != [4]string{"2", "100", "0.15", "30"} {
		t.Fatalf("forwarded = %v", got)
	}
}

func TestCreateEstimatesMissingTotal(t *testing.T) {
	var total string
	gw := &fakeGateway{save: func(_, _, _, totalCost string) error {
		total = totalCost
		return nil
	}}
	rec := httptest.NewRecorder()
	NewCalculationsHandlers(gw, zap.NewNop()).Create(rec, httptest.NewRequest(http.MethodPost, "/api/calculations", strings.NewReader(`{"hours":"10","power":"500","cost_per_kwh":"0.2"}`)))

	if total != "1" {
		t.Fatalf("total = %q", total)
	}
	if body := decodeBody(t, rec); body["total_cost"] != "1" {
		t.Fatalf("body = %v", body)
	}
}

func TestCreateAnonymousCarriesAlert(t *testing.T) {
	gw := &fakeGateway{save: func(string, string, string, string) error {
		return &gateway.Failure{Kind: gateway.KindNotAuthenticated, Message: "not authenticated", UserMessage: gateway.SaveLoginAlert}
	}}
	rec := httptest.NewRecorder()
	NewCalculationsHandlers(gw, zap.NewNop()).Create(rec, httptest.NewRequest(http.MethodPost, "/api/calculations", strings.NewReader(`{"hours":"1"}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["alert"] != gateway.SaveLoginAlert || body["redirect"] != "/login.html" {
		t.Fatalf("body = %v", body)
	}
}

func TestListEmptyOnFailure(t *testing.T) {
	gw := &fakeGateway{fetch: func() ([]models.Calculation, error) {
		return []models.Calculation{}, &gateway.Failure{Kind: gateway.KindBackend, Message: "permission denied"}
	}}
	rec := httptest.NewRecorder()
	NewCalculationsHandlers(gw, zap.NewNop()).List(rec, httptest.NewRequest(http.MethodGet, "/api/calculations", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	rows, ok := body["calculations"].([]any)
	if !ok || len(rows) != 0 {
		t.Fatalf("calculations = %#v", body["calculations"])
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[gateway.ErrorKind]int{
		gateway.KindNone:             http.StatusOK,
		gateway.KindNotAuthenticated: http.StatusUnauthorized,
		gateway.KindBackend:          http.StatusBadRequest,
		gateway.KindTransport:        http.StatusBadGateway,
		gateway.KindUnavailable:      http.StatusServiceUnavailable,
	}
	for kind, want := range cases {
		if got := statusFor(kind); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestEstimateTotalCost(t *testing.T) {
	if got := EstimateTotalCost("2", "100", "0.15"); got != "0.03" {
		t.Fatalf("got %q", got)
	}
	if got := EstimateTotalCost("abc", "100", "0.15"); got != "NaN" {
		t.Fatalf("got %q", got)
	}
}
