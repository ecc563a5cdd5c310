package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshot is the exchange rate pair in effect on a calendar day:
// 1 USD = USDRate CUP, 1 EUR = EURRate CUP. Snapshots are upserted whole,
// never partially updated and never deleted.
type RateSnapshot struct {
	Date      time.Time
	USDRate   decimal.Decimal
	EURRate   decimal.Decimal
	UpdatedAt time.Time
}

// rateToCUP returns the local-currency value of one unit of c under the
// snapshot. CUP is the pivot with rate 1.
func (s RateSnapshot) rateToCUP(c Currency) decimal.Decimal {
	switch c {
	case CurrencyUSD:
		return s.USDRate
	case CurrencyEUR:
		return s.EURRate
	}
	return decimal.NewFromInt(1)
}

// Convert expresses an amount denominated in from as to, using CUP as the
// pivot: amount * rate(from) / rate(to).
func (s RateSnapshot) Convert(amount decimal.Decimal, from, to Currency) decimal.Decimal {
	if from == to {
		return amount
	}
	return amount.Mul(s.rateToCUP(from)).Div(s.rateToCUP(to))
}

// ToLocal expresses an amount denominated in c as CUP.
func (s RateSnapshot) ToLocal(amount decimal.Decimal, c Currency) decimal.Decimal {
	return amount.Mul(s.rateToCUP(c))
}
