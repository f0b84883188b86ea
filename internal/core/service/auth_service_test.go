package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, AuthConfig{JWTSecret: "secret"})
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	token, user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected session token")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.IsAdmin {
		t.Fatalf("new accounts must not be admin")
	}

	got, err := svc.VerifySession(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifySession returned error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("token resolves to %s, want %s", got.ID, user.ID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	cases := []struct{ name, email, password string }{
		{"", "a@b.c", "pw"},
		{"A", "", "pw"},
		{"A", "a@b.c", ""},
	}
	for _, tc := range cases {
		if _, _, err := svc.Register(context.Background(), tc.name, tc.email, tc.password); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("Register(%q,%q,%q): expected ErrInvalidInput, got %v", tc.name, tc.email, tc.password, err)
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "Other", "alice@example.com", "pass456"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	users, _ := repo.List(context.Background())
	if len(users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(users))
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, registered, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user %s", user.ID)
	}

	parsed, err := jwt.Parse(token, func(tkn *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["id"] != registered.ID {
		t.Fatalf("unexpected id claim: %v", claims["id"])
	}
	exp, _ := claims.GetExpirationTime()
	iat, _ := claims.GetIssuedAt()
	if got := exp.Sub(iat.Time); got != defaultSessionTTL {
		t.Fatalf("session lifetime %v, want %v", got, defaultSessionTTL)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	if _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, _, wrongPassword := svc.Login(context.Background(), "alice@example.com", "nope")
	_, _, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "pass123")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthService_VerifySession_Rejects(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	token, user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	other := NewAuthService(repo, AuthConfig{JWTSecret: "other"})
	forged, _ := other.IssueSessionToken(user)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": user.ID, "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, tkn := range map[string]string{
		"garbage":   "not-a-jwt",
		"wrong key": forged,
		"alg none":  unsigned,
		"truncated": token[:len(token)-4],
	} {
		if _, err := svc.VerifySession(context.Background(), tkn); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	_ = repo.Delete(context.Background(), user.ID)
	if _, err := svc.VerifySession(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("deleted user: expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_VerifySession_Expired(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	_, user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	start := time.Now()
	svc.now = func() time.Time { return start }
	token, _ := svc.IssueSessionToken(user)

	svc.now = func() time.Time { return start.Add(defaultSessionTTL + time.Second) }
	if _, err := svc.VerifySession(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestAuthService_ResetToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	_, user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	start := time.Now()
	svc.now = func() time.Time { return start }
	token, err := svc.IssueResetToken(user)
	if err != nil {
		t.Fatalf("IssueResetToken returned error: %v", err)
	}

	got, err := svc.VerifyReset(context.Background(), user.ID, token)
	if err != nil {
		t.Fatalf("VerifyReset returned error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("unexpected user %s", got.ID)
	}

	// A reset token is not a session token.
	if _, err := svc.VerifySession(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("reset token accepted as session: %v", err)
	}

	svc.now = func() time.Time { return start.Add(defaultResetTTL + time.Second) }
	if _, err := svc.VerifyReset(context.Background(), user.ID, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected expired reset token to fail, got %v", err)
	}
}

func TestAuthService_ResetToken_BoundToUserAndPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	_, alice, _ := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123")
	_, bob, _ := svc.Register(context.Background(), "Bob", "bob@example.com", "pass123")

	token, _ := svc.IssueResetToken(alice)

	if _, err := svc.VerifyReset(context.Background(), bob.ID, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("token for alice accepted for bob: %v", err)
	}
	if _, err := svc.VerifyReset(context.Background(), "missing", token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("unknown user: expected ErrInvalidToken, got %v", err)
	}

	alice.PasswordHash = "$2a$10$rotated"
	if _, err := repo.Update(context.Background(), alice); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := svc.VerifyReset(context.Background(), alice.ID, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("token survived password change: %v", err)
	}
}
