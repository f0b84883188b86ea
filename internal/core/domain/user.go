package domain

import (
	"fmt"
	"time"
)

// User models a shop account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ResetSecret derives the signing key for password-reset tokens from the
// account's current password hash and creation time. Any password change
// rotates the key, which invalidates every outstanding reset token.
func (u *User) ResetSecret() string {
	return fmt.Sprintf("%s-%d", u.PasswordHash, u.CreatedAt.UnixMilli())
}
