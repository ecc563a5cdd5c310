package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *APIError {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestRespondDomainError_SentinelMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
		{domain.ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
		{domain.ErrDuplicateOrder, http.StatusConflict, "DUPLICATE_ORDER"},
		{domain.ErrClosedRecord, http.StatusUnprocessableEntity, "RECORD_CLOSED"},
		{domain.ErrAlreadyClosed, http.StatusConflict, "DAY_ALREADY_CLOSED"},
		{domain.ErrNothingToClose, http.StatusUnprocessableEntity, "NOTHING_TO_CLOSE"},
		{fmt.Errorf("some backend failure"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.wantCode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			// Services always wrap before returning; the mapping must
			// see through the wrapping.
			RespondDomainError(rec, fmt.Errorf("CloseDay: %w", tc.err))

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestRespondDomainError_InsufficientPaymentDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, fmt.Errorf("Register: %w", &domain.InsufficientPaymentError{
		Currency:  domain.CurrencyUSD,
		Declared:  decimal.NewFromInt(100),
		Paid:      decimal.RequireFromString("99.5"),
		Shortfall: decimal.RequireFromString("0.5"),
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "INSUFFICIENT_PAYMENT", apiErr.Code)

	details, ok := apiErr.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "USD", details["currency"])
	assert.Equal(t, "99.5", details["paid"])
	assert.Equal(t, "0.5", details["shortfall"])
}

func TestRespondDomainError_ClosingMismatchDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, &domain.ClosingMismatchError{
		Differences: []domain.CashDifference{
			{
				Currency:   domain.CurrencyUSD,
				Counted:    decimal.NewFromInt(48),
				Expected:   decimal.NewFromInt(50),
				Difference: decimal.NewFromInt(-2),
			},
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "CLOSING_MISMATCH", apiErr.Code)

	details, ok := apiErr.Details.([]any)
	require.True(t, ok)
	require.Len(t, details, 1)
	first, ok := details[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "USD", first["currency"])
	assert.Equal(t, "-2", first["difference"])
}

func TestPaymentsDTOValidate(t *testing.T) {
	ref := "TX-123"

	tests := []struct {
		name      string
		payments  paymentsDTO
		wantField string
	}{
		{
			name:     "all zero is valid",
			payments: paymentsDTO{},
		},
		{
			name:     "transfer with reference is valid",
			payments: paymentsDTO{PaidTransfer: decimal.NewFromInt(500), TransferRef: &ref},
		},
		{
			name:      "negative component",
			payments:  paymentsDTO{PaidUSD: decimal.NewFromInt(-1)},
			wantField: "payments",
		},
		{
			name:      "transfer without reference",
			payments:  paymentsDTO{PaidTransfer: decimal.NewFromInt(500)},
			wantField: "transfer_ref",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.payments.validate()
			if tc.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Equal(t, tc.wantField, errs[0].Field)
		})
	}
}
