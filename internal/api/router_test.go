package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

var (
	shopper = &domain.User{ID: "u1", Name: "Ama", Email: "ama@example.com"}
	owner   = &domain.User{ID: "a1", Name: "Admin", Email: "admin@example.com", IsAdmin: true}
)

type stubVerifier struct{}

func (stubVerifier) VerifySession(_ context.Context, token string) (*domain.User, error) {
	switch token {
	case "user-token":
		return shopper, nil
	case "admin-token":
		return owner, nil
	}
	return nil, domain.ErrInvalidToken
}

func (stubVerifier) VerifyReset(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrInvalidToken
}

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	if email == shopper.Email && password == "secret" {
		return "user-token", shopper, nil
	}
	return "", nil, domain.ErrInvalidCredentials
}

func (stubAuth) Register(context.Context, string, string, string) (string, *domain.User, error) {
	return "", nil, domain.ErrUserExists
}

func (stubAuth) IssueSessionToken(*domain.User) (string, error) { return "user-token", nil }

type stubUsers struct{ ports.UserService }

func (stubUsers) List(context.Context) ([]*domain.User, error) {
	return []*domain.User{shopper, owner}, nil
}

func (stubUsers) Delete(_ context.Context, id string) error {
	if id == shopper.ID {
		return nil
	}
	return domain.ErrUserNotFound
}

type stubPayments struct{}

func (stubPayments) Collect(context.Context, ports.CollectPaymentInput) (*domain.Transaction, error) {
	return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, errors.New("dial tcp: connection refused"))
}

func newTestRouter() *echo.Echo {
	return NewRouter(Dependencies{
		Auth:           stubAuth{},
		Verifier:       stubVerifier{},
		Users:          stubUsers{},
		Payments:       stubPayments{},
		PayPalClientID: "sb",
		Logger:         zerolog.Nop(),
		Registerer:     prometheus.NewRegistry(),
	})
}

func do(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Root(t *testing.T) {
	rec := do(newTestRouter(), http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "API is running..." {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_AdminRoutes(t *testing.T) {
	e := newTestRouter()

	rec := do(e, http.MethodGet, "/api/users", "user-token", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
	if rec.Body.String() != "{\"error\":\"not authorized as an admin\"}\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/api/users", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Unauthenticated(t *testing.T) {
	e := newTestRouter()

	for _, token := range []string{"", "forged"} {
		rec := do(e, http.MethodGet, "/api/users/profile", token, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401, got %d", token, rec.Code)
		}
	}
}

func TestRouter_LoginFailuresAreIndistinguishable(t *testing.T) {
	e := newTestRouter()

	unknown := do(e, http.MethodPost, "/api/users/login", "", `{"email":"ghost@example.com","password":"secret"}`)
	wrong := do(e, http.MethodPost, "/api/users/login", "", `{"email":"ama@example.com","password":"nope"}`)

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", unknown.Body.String(), wrong.Body.String())
	}
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	rec := do(newTestRouter(), http.MethodPost, "/api/users", "", `{"name":"Ama","email":"ama@example.com","password":"pw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_DeleteMissingUser(t *testing.T) {
	e := newTestRouter()

	rec := do(e, http.MethodDelete, "/api/users/ffffffffffffffffffffffff", "admin-token", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = do(e, http.MethodDelete, "/api/users/u1", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_UpstreamFailureIsOpaque(t *testing.T) {
	rec := do(newTestRouter(), http.MethodPost, "/api/config/momo", "", `{"reqAmount":"10","payerNumber":"4673"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("upstream cause leaked: %s", rec.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := do(newTestRouter(), http.MethodGet, "/api/nothing-here", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), `{"error":`) {
		t.Fatalf("expected JSON error envelope, got %q", rec.Body.String())
	}
}

func TestRouter_PayPalClientID(t *testing.T) {
	rec := do(newTestRouter(), http.MethodGet, "/api/config/paypal", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "sb" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
