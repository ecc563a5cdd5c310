package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
	"github.com/dmorales-dev/cashdesk-api/internal/logging"
)

// AmendPayments replaces the payments of an open invoice. Sufficiency is
// re-checked against the invoice's frozen rate snapshot, not today's rates.
func (s *Service) AmendPayments(ctx context.Context, id uuid.UUID, payments domain.PaymentSet) (*domain.Invoice, error) {
	log := logging.FromContext(ctx)

	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("AmendPayments: %w", err)
	}
	if inv.Closed {
		return nil, fmt.Errorf("AmendPayments: invoice %s: %w", id, domain.ErrClosedRecord)
	}

	if err := validatePayments(payments); err != nil {
		return nil, fmt.Errorf("AmendPayments: %w", err)
	}
	if err := checkSufficiency(inv.Amount, inv.Currency, payments, inv.RateUsed, s.tolerance); err != nil {
		return nil, fmt.Errorf("AmendPayments: %w", err)
	}

	if err := s.invoices.UpdatePayments(ctx, id, payments); err != nil {
		return nil, fmt.Errorf("AmendPayments: %w", err)
	}
	inv.Payments = payments

	log.Info("invoice payments amended", "invoice_id", inv.ID, "order_id", inv.OrderID)

	return inv, nil
}
