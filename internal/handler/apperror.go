package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrDuplicateOrder      = &AppError{http.StatusConflict, "DUPLICATE_ORDER", "Order id already registered"}
	ErrInsufficientPayment = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_PAYMENT", "Payments do not cover the invoice amount"}
	ErrInsufficientBalance = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "Requested amount exceeds available balance"}
	ErrRecordClosed        = &AppError{http.StatusUnprocessableEntity, "RECORD_CLOSED", "Record belongs to a closed day and cannot change"}
	ErrDayAlreadyClosed    = &AppError{http.StatusConflict, "DAY_ALREADY_CLOSED", "A closing already exists for this date"}
	ErrNothingToClose      = &AppError{http.StatusUnprocessableEntity, "NOTHING_TO_CLOSE", "No open invoices or outflows to close"}
	ErrClosingMismatch     = &AppError{http.StatusUnprocessableEntity, "CLOSING_MISMATCH", "Counted cash does not match the computed balance"}
)
