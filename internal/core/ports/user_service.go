package ports

import (
	"context"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

// UpdateProfileInput carries the optional fields of a profile update.
// Empty strings leave the stored value unchanged.
type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string
}

// AdminUpdateUserInput carries the fields an admin may change on any user.
// IsAdmin is applied only when non-nil.
type AdminUpdateUserInput struct {
	Name    string
	Email   string
	IsAdmin *bool
}

// UserService defines profile and admin user operations.
type UserService interface {
	Profile(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile returns the updated user and a fresh session token.
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*domain.User, string, error)
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, in AdminUpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// PasswordResetService implements the two-step reset flow.
type PasswordResetService interface {
	// Request mints a reset token for email and mails the reset link.
	Request(ctx context.Context, email string) (string, error)
	// Confirm overwrites the password of an already verified user and
	// returns a fresh session token.
	Confirm(ctx context.Context, user *domain.User, password string) (*domain.User, string, error)
}
