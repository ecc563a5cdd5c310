package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError maps domain errors to HTTP responses, attaching the
// structured amounts the typed errors carry.
func RespondDomainError(w http.ResponseWriter, err error) {
	var insufficientPayment *domain.InsufficientPaymentError
	var insufficientBalance *domain.InsufficientBalanceError
	var closingMismatch *domain.ClosingMismatchError

	switch {
	case errors.As(err, &insufficientPayment):
		RespondAppError(w, ErrInsufficientPayment, shortfallDetails(insufficientPayment))
	case errors.As(err, &insufficientBalance):
		RespondAppError(w, ErrInsufficientBalance, balanceDetails(insufficientBalance))
	case errors.As(err, &closingMismatch):
		RespondAppError(w, ErrClosingMismatch, mismatchDetails(closingMismatch))
	case errors.Is(err, domain.ErrNotFound):
		RespondAppError(w, ErrResourceNotFound, nil)
	case errors.Is(err, domain.ErrValidation):
		RespondAppError(w, ErrValidationFailed, nil)
	case errors.Is(err, domain.ErrDuplicateOrder):
		RespondAppError(w, ErrDuplicateOrder, nil)
	case errors.Is(err, domain.ErrClosedRecord):
		RespondAppError(w, ErrRecordClosed, nil)
	case errors.Is(err, domain.ErrAlreadyClosed):
		RespondAppError(w, ErrDayAlreadyClosed, nil)
	case errors.Is(err, domain.ErrNothingToClose):
		RespondAppError(w, ErrNothingToClose, nil)
	default:
		slog.Error("unhandled domain error", "error", err)
		RespondAppError(w, ErrInternalError, nil)
	}
}

type shortfallDTO struct {
	Currency  string `json:"currency"`
	Declared  string `json:"declared"`
	Paid      string `json:"paid"`
	Shortfall string `json:"shortfall"`
}

func shortfallDetails(e *domain.InsufficientPaymentError) shortfallDTO {
	return shortfallDTO{
		Currency:  string(e.Currency),
		Declared:  e.Declared.String(),
		Paid:      e.Paid.String(),
		Shortfall: e.Shortfall.String(),
	}
}

type bucketShortfallDTO struct {
	Bucket    string `json:"bucket"`
	Requested string `json:"requested"`
	Available string `json:"available"`
}

func balanceDetails(e *domain.InsufficientBalanceError) []bucketShortfallDTO {
	out := make([]bucketShortfallDTO, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		out[i] = bucketShortfallDTO{
			Bucket:    s.Bucket,
			Requested: s.Requested.String(),
			Available: s.Available.String(),
		}
	}
	return out
}

type differenceDTO struct {
	Currency   string `json:"currency"`
	Counted    string `json:"counted"`
	Expected   string `json:"expected"`
	Difference string `json:"difference"`
}

func mismatchDetails(e *domain.ClosingMismatchError) []differenceDTO {
	out := make([]differenceDTO, len(e.Differences))
	for i, d := range e.Differences {
		out[i] = differenceDTO{
			Currency:   string(d.Currency),
			Counted:    d.Counted.String(),
			Expected:   d.Expected.String(),
			Difference: d.Difference.String(),
		}
	}
	return out
}
