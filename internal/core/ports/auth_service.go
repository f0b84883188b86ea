package ports

import (
	"context"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

// AuthService covers credential login, registration and token handling.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	IssueSessionToken(user *domain.User) (string, error)
}

// SessionVerifier resolves a bearer session token to its user.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*domain.User, error)
}

// ResetVerifier checks a password-reset token against the target user's
// current reset secret.
type ResetVerifier interface {
	VerifyReset(ctx context.Context, userID, token string) (*domain.User, error)
}
