// Package seed loads the demo catalogue and accounts into an empty store.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

type UserStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteAll(ctx context.Context) error
}

type ProductStore interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	DeleteAll(ctx context.Context) error
}

type OrderStore interface {
	DeleteAll(ctx context.Context) error
}

// Summary reports what Import wrote.
type Summary struct {
	Users    int
	Products int
}

type Seeder struct {
	users    UserStore
	products ProductStore
	orders   OrderStore
	logger   zerolog.Logger
	cost     int
}

func New(users UserStore, products ProductStore, orders OrderStore, logger zerolog.Logger) *Seeder {
	return &Seeder{
		users:    users,
		products: products,
		orders:   orders,
		logger:   logger,
		cost:     bcrypt.DefaultCost,
	}
}

// Import wipes every collection and inserts the demo accounts, all sharing
// password, and the demo products owned by the first admin.
func (s *Seeder) Import(ctx context.Context, password string) (Summary, error) {
	if password == "" {
		return Summary{}, fmt.Errorf("seed password: %w", domain.ErrInvalidInput)
	}
	if err := s.Destroy(ctx); err != nil {
		return Summary{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Summary{}, fmt.Errorf("hash seed password: %w", err)
	}

	var sum Summary
	var owner *domain.User
	for _, u := range demoUsers() {
		u.PasswordHash = string(hash)
		created, err := s.users.Create(ctx, u)
		if err != nil {
			return sum, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		if owner == nil && created.IsAdmin {
			owner = created
		}
		sum.Users++
	}

	for _, p := range demoProducts() {
		p.UserID = owner.ID
		if _, err := s.products.Create(ctx, p); err != nil {
			return sum, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		sum.Products++
	}

	s.logger.Info().Int("users", sum.Users).Int("products", sum.Products).Msg("data imported")
	return sum, nil
}

// Destroy removes all orders, products and users.
func (s *Seeder) Destroy(ctx context.Context) error {
	if err := s.orders.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}
	if err := s.products.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	if err := s.users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}

	s.logger.Info().Msg("data destroyed")
	return nil
}
