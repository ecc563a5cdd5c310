package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

type rateRepo interface {
	Upsert(ctx context.Context, snap *domain.RateSnapshot) error
	GetEffective(ctx context.Context, forDate time.Time) (*domain.RateSnapshot, error)
	History(ctx context.Context, limit int) ([]domain.RateSnapshot, error)
}

// Ledger resolves exchange-rate snapshots by date. Every conversion in the
// system goes through a resolved snapshot so the rate an invoice was
// registered under can be replayed later.
type Ledger struct {
	repo       rateRepo
	defaultUSD decimal.Decimal
	defaultEUR decimal.Decimal
}

func NewLedger(repo rateRepo, defaultUSD, defaultEUR float64) *Ledger {
	return &Ledger{
		repo:       repo,
		defaultUSD: decimal.NewFromFloat(defaultUSD),
		defaultEUR: decimal.NewFromFloat(defaultEUR),
	}
}

// GetRates returns the snapshot in effect on forDate: the exact date if one
// exists, otherwise the most recent prior, otherwise the configured default
// pair. Only a store failure is an error.
func (l *Ledger) GetRates(ctx context.Context, forDate time.Time) (*domain.RateSnapshot, error) {
	snap, err := l.repo.GetEffective(ctx, forDate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.RateSnapshot{
				Date:    forDate,
				USDRate: l.defaultUSD,
				EURRate: l.defaultEUR,
			}, nil
		}
		return nil, fmt.Errorf("GetRates: %w", err)
	}
	return snap, nil
}

// SetRates replaces the snapshot for forDate with the given pair.
func (l *Ledger) SetRates(ctx context.Context, forDate time.Time, usd, eur decimal.Decimal) (*domain.RateSnapshot, error) {
	if !usd.IsPositive() || !eur.IsPositive() {
		return nil, fmt.Errorf("SetRates: rates must be positive: %w", domain.ErrValidation)
	}

	snap := &domain.RateSnapshot{
		Date:      forDate,
		USDRate:   usd,
		EURRate:   eur,
		UpdatedAt: time.Now().UTC(),
	}
	if err := l.repo.Upsert(ctx, snap); err != nil {
		return nil, fmt.Errorf("SetRates: %w", err)
	}
	return snap, nil
}

// SetRate updates a single currency of the pair, keeping the other at its
// currently effective value.
func (l *Ledger) SetRate(ctx context.Context, forDate time.Time, currency domain.Currency, value decimal.Decimal) (*domain.RateSnapshot, error) {
	current, err := l.GetRates(ctx, forDate)
	if err != nil {
		return nil, fmt.Errorf("SetRate: %w", err)
	}

	usd, eur := current.USDRate, current.EURRate
	switch currency {
	case domain.CurrencyUSD:
		usd = value
	case domain.CurrencyEUR:
		eur = value
	default:
		return nil, fmt.Errorf("SetRate: %s has no exchange rate: %w", currency, domain.ErrValidation)
	}

	snap, err := l.SetRates(ctx, forDate, usd, eur)
	if err != nil {
		return nil, fmt.Errorf("SetRate: %w", err)
	}
	return snap, nil
}

func (l *Ledger) History(ctx context.Context, limit int) ([]domain.RateSnapshot, error) {
	if limit <= 0 {
		limit = 30
	}
	snaps, err := l.repo.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	return snaps, nil
}
