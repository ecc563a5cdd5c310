package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentSet is the mixed-currency payment attached to an invoice. Cash
// components are denominated in their own currency; the transfer component is
// denominated in CUP. TransferRef is required whenever PaidTransfer > 0.
type PaymentSet struct {
	PaidUSD      decimal.Decimal
	PaidEUR      decimal.Decimal
	PaidCUP      decimal.Decimal
	PaidTransfer decimal.Decimal
	TransferRef  *string
}

// Total returns the payment components as per-currency buckets.
func (p PaymentSet) Total() CashTotals {
	return CashTotals{
		USD:      p.PaidUSD,
		EUR:      p.PaidEUR,
		CUP:      p.PaidCUP,
		Transfer: p.PaidTransfer,
	}
}

// Invoice is a billed order with a declared amount and the payments that
// cover it. Amount arithmetic is frozen at registration time: RateUsed never
// changes, even when payments are amended later.
type Invoice struct {
	ID          uuid.UUID
	OrderID     string
	Amount      decimal.Decimal
	Currency    Currency
	AmountLocal decimal.Decimal
	RateUsed    RateSnapshot
	Payments    PaymentSet
	Closed      bool
	ClosingID   *uuid.UUID
	CreatedAt   time.Time
}
