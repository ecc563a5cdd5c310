package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func testSnapshot() domain.RateSnapshot {
	return domain.RateSnapshot{
		USDRate: decimal.NewFromInt(350),
		EURRate: decimal.NewFromInt(380),
	}
}

func TestValidateRegister(t *testing.T) {
	today := time.Now().UTC()

	valid := RegisterRequest{
		OrderID:  "ORD-1001",
		Amount:   dec("100"),
		Currency: domain.CurrencyUSD,
		Payments: domain.PaymentSet{PaidUSD: dec("100")},
		Today:    today,
	}

	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr error
	}{
		{
			name:   "valid request",
			mutate: func(*RegisterRequest) {},
		},
		{
			name:    "empty order id",
			mutate:  func(r *RegisterRequest) { r.OrderID = "" },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "zero amount",
			mutate:  func(r *RegisterRequest) { r.Amount = decimal.Zero },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative amount",
			mutate:  func(r *RegisterRequest) { r.Amount = dec("-5") },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unsupported currency",
			mutate:  func(r *RegisterRequest) { r.Currency = domain.Currency("GBP") },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative payment component",
			mutate:  func(r *RegisterRequest) { r.Payments.PaidEUR = dec("-1") },
			wantErr: domain.ErrValidation,
		},
		{
			name: "transfer without reference",
			mutate: func(r *RegisterRequest) {
				r.Payments.PaidTransfer = dec("5000")
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "transfer with empty reference",
			mutate: func(r *RegisterRequest) {
				r.Payments.PaidTransfer = dec("5000")
				r.Payments.TransferRef = strPtr("")
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "transfer with reference",
			mutate: func(r *RegisterRequest) {
				r.Payments.PaidTransfer = dec("5000")
				r.Payments.TransferRef = strPtr("TRF-889")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			err := validateRegister(req)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCheckSufficiency(t *testing.T) {
	snap := testSnapshot()
	tolerance := dec("0.01")

	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency domain.Currency
		payments domain.PaymentSet
		wantErr  bool
	}{
		{
			name:     "exact single-currency payment",
			amount:   dec("100"),
			currency: domain.CurrencyUSD,
			payments: domain.PaymentSet{PaidUSD: dec("100")},
		},
		{
			name:     "mixed currencies covering a USD invoice",
			amount:   dec("100"),
			currency: domain.CurrencyUSD,
			// 50 USD + 17500 CUP = 50 + 50 USD at rate 350.
			payments: domain.PaymentSet{PaidUSD: dec("50"), PaidCUP: dec("17500")},
		},
		{
			name:     "EUR cash against a USD invoice",
			amount:   dec("38"),
			currency: domain.CurrencyUSD,
			// 35 EUR = 35*380/350 = 38 USD.
			payments: domain.PaymentSet{PaidEUR: dec("35")},
		},
		{
			name:     "transfer counts as local currency",
			amount:   dec("100"),
			currency: domain.CurrencyUSD,
			payments: domain.PaymentSet{PaidTransfer: dec("35000"), TransferRef: strPtr("TRF-1")},
		},
		{
			name:     "short within tolerance passes",
			amount:   dec("100"),
			currency: domain.CurrencyCUP,
			payments: domain.PaymentSet{PaidCUP: dec("99.99")},
		},
		{
			name:     "short beyond tolerance fails",
			amount:   dec("100"),
			currency: domain.CurrencyCUP,
			payments: domain.PaymentSet{PaidCUP: dec("99.98")},
			wantErr:  true,
		},
		{
			name:     "no payments at all",
			amount:   dec("10"),
			currency: domain.CurrencyEUR,
			payments: domain.PaymentSet{},
			wantErr:  true,
		},
		{
			name:     "overpayment is allowed",
			amount:   dec("10"),
			currency: domain.CurrencyEUR,
			payments: domain.PaymentSet{PaidEUR: dec("20")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkSufficiency(tc.amount, tc.currency, tc.payments, snap, tolerance)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, domain.ErrInsufficientPayment)

			var insufficient *domain.InsufficientPaymentError
			require.ErrorAs(t, err, &insufficient)
			assert.Equal(t, tc.currency, insufficient.Currency)
			assert.True(t, insufficient.Shortfall.IsPositive(),
				"shortfall must be positive, got %s", insufficient.Shortfall)
		})
	}
}

func TestPaymentTotalInDeclaredCurrency(t *testing.T) {
	snap := testSnapshot()

	p := domain.PaymentSet{
		PaidUSD:      dec("10"),
		PaidEUR:      dec("10"),
		PaidCUP:      dec("350"),
		PaidTransfer: dec("700"),
		TransferRef:  strPtr("TRF-2"),
	}

	// In CUP: 10*350 + 10*380 + 350 + 700 = 8350.
	inCUP := paymentTotalIn(domain.CurrencyCUP, p, snap)
	assert.True(t, inCUP.Equal(dec("8350")), "got %s", inCUP)

	// The same set expressed in USD must be the CUP total divided by 350.
	inUSD := paymentTotalIn(domain.CurrencyUSD, p, snap)
	assert.True(t, inUSD.Sub(inCUP.Div(dec("350"))).Abs().LessThan(dec("0.0001")),
		"got %s", inUSD)
}
