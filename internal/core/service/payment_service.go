package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

const partyIDTypeMSISDN = "MSISDN"

// PaymentConfig holds the fixed fields of every collection request.
type PaymentConfig struct {
	Currency     string
	PayerMessage string
}

type PaymentService struct {
	collector ports.PaymentCollector
	cfg       PaymentConfig
	logger    zerolog.Logger
}

func NewPaymentService(collector ports.PaymentCollector, cfg PaymentConfig, logger zerolog.Logger) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	return &PaymentService{collector: collector, cfg: cfg, logger: logger}
}

// Collect asks the gateway to debit the payer and returns the resulting
// transaction as reported by the gateway.
func (s *PaymentService) Collect(ctx context.Context, in ports.CollectPaymentInput) (*domain.Transaction, error) {
	if in.Amount <= 0 || in.PayerNumber == "" {
		return nil, domain.ErrInvalidInput
	}

	req := domain.PaymentRequest{
		Amount:     strconv.FormatFloat(in.Amount, 'f', -1, 64),
		Currency:   s.cfg.Currency,
		ExternalID: in.OrderID,
		Payer: domain.Payer{
			PartyIDType: partyIDTypeMSISDN,
			PartyID:     in.PayerNumber,
		},
		PayerMessage: s.cfg.PayerMessage,
		PayeeNote:    in.OrderID,
	}

	ref, err := s.collector.RequestToPay(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", in.OrderID).Msg("request to pay failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	tx, err := s.collector.Transaction(ctx, ref)
	if err != nil {
		s.logger.Error().Err(err).Str("reference_id", ref).Msg("transaction lookup failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	s.logger.Info().Str("reference_id", ref).Str("order_id", in.OrderID).Str("status", tx.Status).Msg("payment requested")
	return tx, nil
}
