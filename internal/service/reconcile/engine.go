package reconcile

import (
	"context"
	"fmt"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

type invoiceSource interface {
	FindOpen(ctx context.Context) ([]domain.Invoice, error)
}

type outflowSource interface {
	FindOpen(ctx context.Context) ([]domain.Outflow, error)
}

// Engine computes the per-currency net of open invoice payments minus open
// outflow amounts. Balances are always computed fresh; open records mutate
// between calls.
type Engine struct {
	invoices invoiceSource
	outflows outflowSource
}

func NewEngine(invoices invoiceSource, outflows outflowSource) *Engine {
	return &Engine{invoices: invoices, outflows: outflows}
}

// AvailableBalance is the live balance over the currently open records.
func (e *Engine) AvailableBalance(ctx context.Context) (domain.CashTotals, error) {
	invoices, err := e.invoices.FindOpen(ctx)
	if err != nil {
		return domain.CashTotals{}, fmt.Errorf("AvailableBalance: %w", err)
	}
	outflows, err := e.outflows.FindOpen(ctx)
	if err != nil {
		return domain.CashTotals{}, fmt.Errorf("AvailableBalance: %w", err)
	}
	return ClosingBalance(invoices, outflows), nil
}

// ClosingBalance is the same arithmetic over an explicit snapshot, so a close
// operation works on a stable set.
func ClosingBalance(invoices []domain.Invoice, outflows []domain.Outflow) domain.CashTotals {
	var totals domain.CashTotals
	for _, inv := range invoices {
		totals = totals.Add(inv.Payments.Total())
	}
	for _, o := range outflows {
		totals = totals.Sub(o.Total())
	}
	return totals
}
