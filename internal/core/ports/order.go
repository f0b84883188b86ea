package ports

import (
	"context"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// FindByID returns the order with the buyer's name and email filled in.
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) (*domain.Order, error)
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	OrderItems      []domain.OrderItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	TaxPrice        float64
	ShippingPrice   float64
}

// OrderService defines order use cases.
type OrderService interface {
	Create(ctx context.Context, buyer *domain.User, in CreateOrderInput) (*domain.Order, error)
	// Get returns the order when viewer owns it or is an admin.
	Get(ctx context.Context, id string, viewer *domain.User) (*domain.Order, error)
	Mine(ctx context.Context, userID string) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	MarkPaid(ctx context.Context, id string, viewer *domain.User, result domain.PaymentResult) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string) (*domain.Order, error)
}
