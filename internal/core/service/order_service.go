package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger, now: time.Now}
}

// Create places an order for buyer. Item and total prices are recomputed
// server-side; only tax and shipping are taken from the client.
func (s *OrderService) Create(ctx context.Context, buyer *domain.User, in ports.CreateOrderInput) (*domain.Order, error) {
	if len(in.OrderItems) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	now := s.now().UTC()
	order := &domain.Order{
		User:            domain.OrderBuyer{ID: buyer.ID},
		OrderItems:      in.OrderItems,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		TaxPrice:        in.TaxPrice,
		ShippingPrice:   in.ShippingPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.ComputeTotals()

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", buyer.ID).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().Str("order_id", created.ID).Str("user_id", buyer.ID).Float64("total", created.TotalPrice).Msg("order created")
	return created, nil
}

// Get hides orders of other users from non-admin viewers.
func (s *OrderService) Get(ctx context.Context, id string, viewer *domain.User) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin && order.User.ID != viewer.ID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) Mine(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *OrderService) MarkPaid(ctx context.Context, id string, viewer *domain.User, result domain.PaymentResult) (*domain.Order, error) {
	order, err := s.Get(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &result
	order.UpdatedAt = now

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("order_id", id).Str("payment_id", result.ID).Msg("order paid")
	return updated, nil
}

func (s *OrderService) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.UpdatedAt = now

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("order_id", id).Msg("order delivered")
	return updated, nil
}
