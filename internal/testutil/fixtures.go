package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

// Dec parses a decimal literal, failing the test on malformed input so
// fixture typos surface immediately.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

// Date builds a UTC midnight business date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Rates builds a rate snapshot for a business date.
func Rates(date time.Time, usd, eur int64) domain.RateSnapshot {
	return domain.RateSnapshot{
		Date:    date,
		USDRate: decimal.NewFromInt(usd),
		EURRate: decimal.NewFromInt(eur),
	}
}
