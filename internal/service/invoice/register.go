package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
	"github.com/dmorales-dev/cashdesk-api/internal/logging"
)

type RegisterRequest struct {
	OrderID  string
	Amount   decimal.Decimal
	Currency domain.Currency
	Payments domain.PaymentSet
	Today    time.Time
}

// Register validates and persists a new invoice. The rate snapshot in effect
// on req.Today is resolved once and frozen on the invoice.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.Invoice, error) {
	log := logging.FromContext(ctx)

	if err := validateRegister(req); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	if _, err := s.invoices.GetByOrderID(ctx, req.OrderID); err == nil {
		return nil, fmt.Errorf("Register: order %q: %w", req.OrderID, domain.ErrDuplicateOrder)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Register: %w", err)
	}

	snap, err := s.rates.GetRates(ctx, req.Today)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	if err := checkSufficiency(req.Amount, req.Currency, req.Payments, *snap, s.tolerance); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	inv := &domain.Invoice{
		ID:          uuid.New(),
		OrderID:     req.OrderID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		AmountLocal: snap.ToLocal(req.Amount, req.Currency).Round(2),
		RateUsed:    *snap,
		Payments:    req.Payments,
		Closed:      false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	log.Info("invoice registered",
		"invoice_id", inv.ID,
		"order_id", inv.OrderID,
		"amount", inv.Amount,
		"currency", inv.Currency,
		"amount_local", inv.AmountLocal,
	)

	return inv, nil
}

func validateRegister(req RegisterRequest) error {
	if req.OrderID == "" {
		return fmt.Errorf("validateRegister: order id required: %w", domain.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("validateRegister: amount must be positive: %w", domain.ErrValidation)
	}
	if !req.Currency.IsValid() {
		return fmt.Errorf("validateRegister: unsupported currency %q: %w", req.Currency, domain.ErrValidation)
	}
	return validatePayments(req.Payments)
}

func validatePayments(p domain.PaymentSet) error {
	for _, amount := range []decimal.Decimal{p.PaidUSD, p.PaidEUR, p.PaidCUP, p.PaidTransfer} {
		if amount.IsNegative() {
			return fmt.Errorf("validatePayments: negative payment component: %w", domain.ErrValidation)
		}
	}
	if p.PaidTransfer.IsPositive() && (p.TransferRef == nil || *p.TransferRef == "") {
		return fmt.Errorf("validatePayments: transfer reference required: %w", domain.ErrValidation)
	}
	return nil
}
