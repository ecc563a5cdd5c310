package closing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompareCounted(t *testing.T) {
	totals := domain.CashTotals{
		USD:      dec("60"),
		EUR:      dec("0"),
		CUP:      dec("3500"),
		Transfer: dec("9999"), // never compared
	}
	counted := domain.CountedCash{
		USD: dec("60"),
		EUR: dec("5"),
		CUP: dec("3400"),
	}

	differences := compareCounted(counted, totals)
	require.Len(t, differences, 3)

	assert.Equal(t, domain.CurrencyUSD, differences[0].Currency)
	assert.True(t, differences[0].Difference.IsZero())

	assert.Equal(t, domain.CurrencyEUR, differences[1].Currency)
	assert.True(t, differences[1].Difference.Equal(dec("5")))

	assert.Equal(t, domain.CurrencyCUP, differences[2].Currency)
	assert.True(t, differences[2].Difference.Equal(dec("-100")))
}

func TestMismatchTolerance(t *testing.T) {
	tolerance := dec("0.01")

	tests := []struct {
		name string
		diff string
		want bool
	}{
		{"exact", "0", false},
		{"at tolerance", "0.01", false},
		{"at negative tolerance", "-0.01", false},
		{"just over", "0.02", true},
		{"just under", "-0.02", true},
		{"way off", "100", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			differences := []domain.CashDifference{
				{Currency: domain.CurrencyUSD, Difference: dec(tc.diff)},
				{Currency: domain.CurrencyEUR, Difference: decimal.Zero},
				{Currency: domain.CurrencyCUP, Difference: decimal.Zero},
			}
			assert.Equal(t, tc.want, mismatch(differences, tolerance))
		})
	}
}
