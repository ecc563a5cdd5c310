package domain

import "github.com/shopspring/decimal"

// Currency is one of the three physical currencies handled at the register.
// Bank transfers are a fourth bucket but not a Currency: they have no
// physical cash and are denominated in CUP.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyCUP Currency = "CUP"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyCUP:
		return true
	}
	return false
}

// PhysicalCurrencies lists the buckets that are reconciled against counted
// cash during a day closing.
var PhysicalCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyCUP}

// CashTotals is a per-bucket amount: the three physical currencies plus the
// transfer bucket. Buckets are independent; there is deliberately no single
// normalized total.
type CashTotals struct {
	USD      decimal.Decimal
	EUR      decimal.Decimal
	CUP      decimal.Decimal
	Transfer decimal.Decimal
}

func (t CashTotals) Add(o CashTotals) CashTotals {
	return CashTotals{
		USD:      t.USD.Add(o.USD),
		EUR:      t.EUR.Add(o.EUR),
		CUP:      t.CUP.Add(o.CUP),
		Transfer: t.Transfer.Add(o.Transfer),
	}
}

func (t CashTotals) Sub(o CashTotals) CashTotals {
	return CashTotals{
		USD:      t.USD.Sub(o.USD),
		EUR:      t.EUR.Sub(o.EUR),
		CUP:      t.CUP.Sub(o.CUP),
		Transfer: t.Transfer.Sub(o.Transfer),
	}
}

// Get returns the bucket for a physical currency.
func (t CashTotals) Get(c Currency) decimal.Decimal {
	switch c {
	case CurrencyUSD:
		return t.USD
	case CurrencyEUR:
		return t.EUR
	case CurrencyCUP:
		return t.CUP
	}
	return decimal.Zero
}

// CountedCash is the physically counted amount per currency at closing time.
// The transfer bucket has no physical count.
type CountedCash struct {
	USD decimal.Decimal
	EUR decimal.Decimal
	CUP decimal.Decimal
}

func (c CountedCash) Get(cur Currency) decimal.Decimal {
	switch cur {
	case CurrencyUSD:
		return c.USD
	case CurrencyEUR:
		return c.EUR
	case CurrencyCUP:
		return c.CUP
	}
	return decimal.Zero
}
