package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

// paymentTotalIn expresses the whole payment set in the declared currency
// under the given snapshot. Transfer amounts are denominated in CUP.
func paymentTotalIn(declared domain.Currency, p domain.PaymentSet, snap domain.RateSnapshot) decimal.Decimal {
	total := snap.Convert(p.PaidUSD, domain.CurrencyUSD, declared)
	total = total.Add(snap.Convert(p.PaidEUR, domain.CurrencyEUR, declared))
	total = total.Add(snap.Convert(p.PaidCUP, domain.CurrencyCUP, declared))
	total = total.Add(snap.Convert(p.PaidTransfer, domain.CurrencyCUP, declared))
	return total
}

// checkSufficiency enforces the core invariant: payments converted into the
// declared currency must cover the declared amount within tolerance.
func checkSufficiency(amount decimal.Decimal, declared domain.Currency, p domain.PaymentSet, snap domain.RateSnapshot, tolerance decimal.Decimal) error {
	paid := paymentTotalIn(declared, p, snap)
	if paid.GreaterThanOrEqual(amount.Sub(tolerance)) {
		return nil
	}
	return &domain.InsufficientPaymentError{
		Currency:  declared,
		Declared:  amount,
		Paid:      paid.Round(2),
		Shortfall: amount.Sub(paid).Round(2),
	}
}
