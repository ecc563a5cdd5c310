package closing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
	"github.com/dmorales-dev/cashdesk-api/internal/service/reconcile"
)

// Preview is the would-be result of closing right now, shown on the count
// screen before the operator commits to anything.
type Preview struct {
	Totals       domain.CashTotals
	InvoiceCount int
	OutflowCount int
}

func (s *Service) Preview(ctx context.Context) (*Preview, error) {
	invoices, err := s.invoices.FindOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("Preview: %w", err)
	}
	outflows, err := s.outflows.FindOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("Preview: %w", err)
	}

	return &Preview{
		Totals:       reconcile.ClosingBalance(invoices, outflows),
		InvoiceCount: len(invoices),
		OutflowCount: len(outflows),
	}, nil
}

func (s *Service) FindByDate(ctx context.Context, businessDate time.Time) (*domain.DayClosing, error) {
	c, err := s.closings.GetByDate(ctx, businessDate)
	if err != nil {
		return nil, fmt.Errorf("FindByDate: %w", err)
	}
	return c, nil
}

func (s *Service) History(ctx context.Context, limit int) ([]domain.DayClosing, error) {
	if limit <= 0 {
		limit = 30
	}
	closings, err := s.closings.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	return closings, nil
}

// Details is a closing together with the records it closed.
type Details struct {
	Closing  domain.DayClosing
	Invoices []domain.Invoice
	Outflows []domain.Outflow
}

func (s *Service) Details(ctx context.Context, id uuid.UUID) (*Details, error) {
	c, err := s.closings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Details: %w", err)
	}

	invoices, err := s.invoices.FindByClosing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Details: %w", err)
	}
	outflows, err := s.outflows.FindByClosing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Details: %w", err)
	}

	return &Details{
		Closing:  *c,
		Invoices: invoices,
		Outflows: outflows,
	}, nil
}
