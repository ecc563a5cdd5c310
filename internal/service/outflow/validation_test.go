package outflow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestValidateRegister(t *testing.T) {
	valid := RegisterRequest{
		AmountUSD:    dec("40"),
		Recipient:    "Bob",
		AuthorizedBy: "Alice",
		Reason:       "supplier payment",
	}

	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(*RegisterRequest) {}},
		{
			name:    "missing recipient",
			mutate:  func(r *RegisterRequest) { r.Recipient = "" },
			wantErr: true,
		},
		{
			name:    "missing authorizer",
			mutate:  func(r *RegisterRequest) { r.AuthorizedBy = "" },
			wantErr: true,
		},
		{
			name:    "all amounts zero",
			mutate:  func(r *RegisterRequest) { r.AmountUSD = decimal.Zero },
			wantErr: true,
		},
		{
			name: "negative amount",
			mutate: func(r *RegisterRequest) {
				r.AmountCUP = dec("-1")
			},
			wantErr: true,
		},
		{
			name: "transfer-only outflow",
			mutate: func(r *RegisterRequest) {
				r.AmountUSD = decimal.Zero
				r.AmountXfer = dec("1000")
			},
		},
		{
			name:   "empty reason is fine",
			mutate: func(r *RegisterRequest) { r.Reason = "" },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			err := validateRegister(req)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCheckBalance(t *testing.T) {
	available := domain.CashTotals{
		USD:      dec("100"),
		EUR:      dec("0"),
		CUP:      dec("5000"),
		Transfer: dec("200"),
	}

	t.Run("within balance", func(t *testing.T) {
		err := checkBalance(RegisterRequest{AmountUSD: dec("100"), AmountCUP: dec("5000")}, available)
		require.NoError(t, err)
	})

	t.Run("reports every short bucket", func(t *testing.T) {
		err := checkBalance(RegisterRequest{
			AmountUSD: dec("150"),
			AmountEUR: dec("1"),
			AmountCUP: dec("10"),
		}, available)
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		var insufficient *domain.InsufficientBalanceError
		require.ErrorAs(t, err, &insufficient)
		require.Len(t, insufficient.Shortfalls, 2)
		assert.Equal(t, "USD", insufficient.Shortfalls[0].Bucket)
		assert.True(t, insufficient.Shortfalls[0].Available.Equal(dec("100")))
		assert.Equal(t, "EUR", insufficient.Shortfalls[1].Bucket)
	})

	t.Run("zero request against zero balance passes", func(t *testing.T) {
		err := checkBalance(RegisterRequest{AmountCUP: dec("5000")}, available)
		require.NoError(t, err)
	})
}
