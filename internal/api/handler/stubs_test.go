package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ananses3m/shop-api/internal/api/middleware"
	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	registerFn func(ctx context.Context, name, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) IssueSessionToken(user *domain.User) (string, error) {
	return "session-" + user.ID, nil
}

type stubUserService struct {
	profileFn       func(ctx context.Context, id string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, id string, in ports.UpdateProfileInput) (*domain.User, string, error)
	updateFn        func(ctx context.Context, id string, in ports.AdminUpdateUserInput) (*domain.User, error)
	deleteFn        func(ctx context.Context, id string) error
	users           []*domain.User
}

func (s *stubUserService) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.profileFn(ctx, id)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, id string, in ports.UpdateProfileInput) (*domain.User, string, error) {
	return s.updateProfileFn(ctx, id, in)
}

func (s *stubUserService) List(context.Context) ([]*domain.User, error) {
	return s.users, nil
}

func (s *stubUserService) Get(_ context.Context, id string) (*domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) Update(ctx context.Context, id string, in ports.AdminUpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubResetService struct {
	requestFn func(ctx context.Context, email string) (string, error)
	confirmFn func(ctx context.Context, user *domain.User, password string) (*domain.User, string, error)
}

func (s *stubResetService) Request(ctx context.Context, email string) (string, error) {
	return s.requestFn(ctx, email)
}

func (s *stubResetService) Confirm(ctx context.Context, user *domain.User, password string) (*domain.User, string, error) {
	return s.confirmFn(ctx, user, password)
}

// newContext builds an echo context for a JSON request with the validator
// registered, optionally carrying an authenticated user.
func newContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.UserContextKey, user)
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError with %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
}

