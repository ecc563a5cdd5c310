package outflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
	"github.com/dmorales-dev/cashdesk-api/internal/logging"
)

type outflowRepo interface {
	Create(ctx context.Context, o *domain.Outflow) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Outflow, error)
	FindOpen(ctx context.Context) ([]domain.Outflow, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]domain.Outflow, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Outflow, error)
}

type balanceSource interface {
	AvailableBalance(ctx context.Context) (domain.CashTotals, error)
}

// Service is the outflow registry. Outflows have no amendment operation;
// mistakes are corrected with a compensating outflow.
type Service struct {
	outflows outflowRepo
	balance  balanceSource
}

func NewService(outflows outflowRepo, balance balanceSource) *Service {
	return &Service{outflows: outflows, balance: balance}
}

type RegisterRequest struct {
	AmountUSD       decimal.Decimal
	AmountEUR       decimal.Decimal
	AmountCUP       decimal.Decimal
	AmountXfer      decimal.Decimal
	Recipient       string
	AuthorizedBy    string
	Reason          string
	ValidateBalance bool
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.Outflow, error) {
	log := logging.FromContext(ctx)

	if err := validateRegister(req); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	if req.ValidateBalance {
		available, err := s.balance.AvailableBalance(ctx)
		if err != nil {
			return nil, fmt.Errorf("Register: %w", err)
		}
		if err := checkBalance(req, available); err != nil {
			return nil, fmt.Errorf("Register: %w", err)
		}
	}

	o := &domain.Outflow{
		ID:           uuid.New(),
		AmountUSD:    req.AmountUSD,
		AmountEUR:    req.AmountEUR,
		AmountCUP:    req.AmountCUP,
		AmountXfer:   req.AmountXfer,
		Recipient:    req.Recipient,
		AuthorizedBy: req.AuthorizedBy,
		Reason:       req.Reason,
		Closed:       false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.outflows.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	log.Info("outflow registered",
		"outflow_id", o.ID,
		"recipient", o.Recipient,
		"authorized_by", o.AuthorizedBy,
	)

	return o, nil
}

func validateRegister(req RegisterRequest) error {
	if req.Recipient == "" {
		return fmt.Errorf("validateRegister: recipient required: %w", domain.ErrValidation)
	}
	if req.AuthorizedBy == "" {
		return fmt.Errorf("validateRegister: authorizer required: %w", domain.ErrValidation)
	}

	amounts := []decimal.Decimal{req.AmountUSD, req.AmountEUR, req.AmountCUP, req.AmountXfer}
	any := false
	for _, a := range amounts {
		if a.IsNegative() {
			return fmt.Errorf("validateRegister: negative amount: %w", domain.ErrValidation)
		}
		if a.IsPositive() {
			any = true
		}
	}
	if !any {
		return fmt.Errorf("validateRegister: at least one amount must be positive: %w", domain.ErrValidation)
	}
	return nil
}

func checkBalance(req RegisterRequest, available domain.CashTotals) error {
	requested := domain.CashTotals{
		USD:      req.AmountUSD,
		EUR:      req.AmountEUR,
		CUP:      req.AmountCUP,
		Transfer: req.AmountXfer,
	}

	var shortfalls []domain.BalanceShortfall
	check := func(bucket string, want, have decimal.Decimal) {
		if want.IsPositive() && want.GreaterThan(have) {
			shortfalls = append(shortfalls, domain.BalanceShortfall{
				Bucket:    bucket,
				Requested: want,
				Available: have,
			})
		}
	}
	check("USD", requested.USD, available.USD)
	check("EUR", requested.EUR, available.EUR)
	check("CUP", requested.CUP, available.CUP)
	check("transfer", requested.Transfer, available.Transfer)

	if len(shortfalls) > 0 {
		return &domain.InsufficientBalanceError{Shortfalls: shortfalls}
	}
	return nil
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*domain.Outflow, error) {
	o, err := s.outflows.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return o, nil
}

func (s *Service) FindOpen(ctx context.Context) ([]domain.Outflow, error) {
	outs, err := s.outflows.FindOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindOpen: %w", err)
	}
	return outs, nil
}

func (s *Service) FindInRange(ctx context.Context, from, to time.Time) ([]domain.Outflow, error) {
	outs, err := s.outflows.FindInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("FindInRange: %w", err)
	}
	return outs, nil
}

func (s *Service) FindRecent(ctx context.Context, limit int) ([]domain.Outflow, error) {
	if limit <= 0 {
		limit = 10
	}
	outs, err := s.outflows.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("FindRecent: %w", err)
	}
	return outs, nil
}
