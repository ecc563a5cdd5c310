package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

type invoiceRepo interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error)
	FindOpen(ctx context.Context) ([]domain.Invoice, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Invoice, error)
	UpdatePayments(ctx context.Context, id uuid.UUID, p domain.PaymentSet) error
}

type rateLedger interface {
	GetRates(ctx context.Context, forDate time.Time) (*domain.RateSnapshot, error)
}

// Service is the invoice registry: registration with cross-currency payment
// validation, payment amendment while open, and read-only queries.
type Service struct {
	invoices  invoiceRepo
	rates     rateLedger
	tolerance decimal.Decimal
}

func NewService(invoices invoiceRepo, rates rateLedger, tolerance decimal.Decimal) *Service {
	return &Service{
		invoices:  invoices,
		rates:     rates,
		tolerance: tolerance,
	}
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return inv, nil
}

func (s *Service) FindByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("FindByOrderID: %w", err)
	}
	return inv, nil
}

func (s *Service) FindOpen(ctx context.Context) ([]domain.Invoice, error) {
	invs, err := s.invoices.FindOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindOpen: %w", err)
	}
	return invs, nil
}

func (s *Service) FindInRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	invs, err := s.invoices.FindInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("FindInRange: %w", err)
	}
	return invs, nil
}

func (s *Service) FindRecent(ctx context.Context, limit int) ([]domain.Invoice, error) {
	if limit <= 0 {
		limit = 10
	}
	invs, err := s.invoices.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("FindRecent: %w", err)
	}
	return invs, nil
}
