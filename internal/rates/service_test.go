package rates

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

type fakeRateRepo struct {
	snaps map[string]domain.RateSnapshot
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{snaps: make(map[string]domain.RateSnapshot)}
}

func (f *fakeRateRepo) Upsert(_ context.Context, snap *domain.RateSnapshot) error {
	f.snaps[snap.Date.Format("2006-01-02")] = *snap
	return nil
}

func (f *fakeRateRepo) GetEffective(_ context.Context, forDate time.Time) (*domain.RateSnapshot, error) {
	var best *domain.RateSnapshot
	for _, snap := range f.snaps {
		if snap.Date.After(forDate) {
			continue
		}
		if best == nil || snap.Date.After(best.Date) {
			s := snap
			best = &s
		}
	}
	if best == nil {
		return nil, fmt.Errorf("GetEffective: %w", domain.ErrNotFound)
	}
	return best, nil
}

func (f *fakeRateRepo) History(_ context.Context, limit int) ([]domain.RateSnapshot, error) {
	var out []domain.RateSnapshot
	for _, snap := range f.snaps {
		out = append(out, snap)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGetRatesFallbackChain(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRateRepo()
	ledger := NewLedger(repo, 350, 350)

	// Nothing stored: configured defaults.
	snap, err := ledger.GetRates(ctx, day("2024-03-15"))
	require.NoError(t, err)
	assert.True(t, snap.USDRate.Equal(decimal.NewFromInt(350)))
	assert.True(t, snap.EURRate.Equal(decimal.NewFromInt(350)))

	_, err = ledger.SetRates(ctx, day("2024-03-10"), decimal.NewFromInt(340), decimal.NewFromInt(360))
	require.NoError(t, err)
	_, err = ledger.SetRates(ctx, day("2024-03-14"), decimal.NewFromInt(350), decimal.NewFromInt(380))
	require.NoError(t, err)

	// Exact date.
	snap, err = ledger.GetRates(ctx, day("2024-03-14"))
	require.NoError(t, err)
	assert.True(t, snap.USDRate.Equal(decimal.NewFromInt(350)))

	// No snapshot for the 15th: most recent prior wins.
	snap, err = ledger.GetRates(ctx, day("2024-03-15"))
	require.NoError(t, err)
	assert.True(t, snap.USDRate.Equal(decimal.NewFromInt(350)))
	assert.True(t, snap.EURRate.Equal(decimal.NewFromInt(380)))

	// Date before every snapshot: defaults again.
	snap, err = ledger.GetRates(ctx, day("2024-03-01"))
	require.NoError(t, err)
	assert.True(t, snap.USDRate.Equal(decimal.NewFromInt(350)))
	assert.True(t, snap.EURRate.Equal(decimal.NewFromInt(350)))
}

func TestSetRatesValidation(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newFakeRateRepo(), 350, 350)

	tests := []struct {
		name string
		usd  decimal.Decimal
		eur  decimal.Decimal
	}{
		{"zero usd", decimal.Zero, decimal.NewFromInt(380)},
		{"negative usd", decimal.NewFromInt(-1), decimal.NewFromInt(380)},
		{"zero eur", decimal.NewFromInt(350), decimal.Zero},
		{"negative eur", decimal.NewFromInt(350), decimal.NewFromInt(-5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.SetRates(ctx, day("2024-03-14"), tc.usd, tc.eur)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestSetRateSingleCurrency(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newFakeRateRepo(), 350, 350)

	_, err := ledger.SetRates(ctx, day("2024-03-14"), decimal.NewFromInt(340), decimal.NewFromInt(370))
	require.NoError(t, err)

	snap, err := ledger.SetRate(ctx, day("2024-03-14"), domain.CurrencyEUR, decimal.NewFromInt(385))
	require.NoError(t, err)
	assert.True(t, snap.USDRate.Equal(decimal.NewFromInt(340)), "USD rate must survive an EUR-only update")
	assert.True(t, snap.EURRate.Equal(decimal.NewFromInt(385)))

	_, err = ledger.SetRate(ctx, day("2024-03-14"), domain.CurrencyCUP, decimal.NewFromInt(1))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestConvertRoundTrip(t *testing.T) {
	snap := domain.RateSnapshot{
		USDRate: decimal.NewFromInt(350),
		EURRate: decimal.NewFromInt(380),
	}
	tolerance := decimal.NewFromFloat(0.0001)

	pairs := []struct {
		from, to domain.Currency
	}{
		{domain.CurrencyUSD, domain.CurrencyEUR},
		{domain.CurrencyEUR, domain.CurrencyUSD},
		{domain.CurrencyUSD, domain.CurrencyCUP},
		{domain.CurrencyCUP, domain.CurrencyEUR},
	}
	amount := decimal.NewFromFloat(123.45)

	for _, p := range pairs {
		t.Run(string(p.from)+"_"+string(p.to), func(t *testing.T) {
			there := snap.Convert(amount, p.from, p.to)
			back := snap.Convert(there, p.to, p.from)
			assert.True(t, back.Sub(amount).Abs().LessThanOrEqual(tolerance),
				"round trip %s -> %s -> %s: got %s, want %s", p.from, p.to, p.from, back, amount)
		})
	}
}

func TestConvertUsesLocalPivot(t *testing.T) {
	snap := domain.RateSnapshot{
		USDRate: decimal.NewFromInt(350),
		EURRate: decimal.NewFromInt(380),
	}

	got := snap.Convert(decimal.NewFromInt(100), domain.CurrencyUSD, domain.CurrencyCUP)
	assert.True(t, got.Equal(decimal.NewFromInt(35000)))

	got = snap.Convert(decimal.NewFromInt(380), domain.CurrencyCUP, domain.CurrencyEUR)
	assert.True(t, got.Equal(decimal.NewFromInt(1)))
}
