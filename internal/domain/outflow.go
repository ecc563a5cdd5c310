package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outflow is money leaving the register. Outflows are immutable after
// creation; corrections are made with a compensating outflow, never an edit.
type Outflow struct {
	ID           uuid.UUID
	AmountUSD    decimal.Decimal
	AmountEUR    decimal.Decimal
	AmountCUP    decimal.Decimal
	AmountXfer   decimal.Decimal
	Recipient    string
	AuthorizedBy string
	Reason       string
	Closed       bool
	ClosingID    *uuid.UUID
	CreatedAt    time.Time
}

func (o Outflow) Total() CashTotals {
	return CashTotals{
		USD:      o.AmountUSD,
		EUR:      o.AmountEUR,
		CUP:      o.AmountCUP,
		Transfer: o.AmountXfer,
	}
}
