package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateOrder      = errors.New("order id already registered")
	ErrInsufficientPayment = errors.New("payments do not cover invoice amount")
	ErrInsufficientBalance = errors.New("insufficient balance in register")
	ErrClosedRecord        = errors.New("record belongs to a closed day")
	ErrAlreadyClosed       = errors.New("day already closed")
	ErrNothingToClose      = errors.New("no open records to close")
	ErrClosingMismatch     = errors.New("counted cash does not match computed balance")
)

// InsufficientPaymentError reports how far the converted payment sum falls
// short of the declared amount, in the declared currency.
type InsufficientPaymentError struct {
	Currency  Currency
	Declared  decimal.Decimal
	Paid      decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("payments cover %s of %s %s, short %s",
		e.Paid, e.Declared, e.Currency, e.Shortfall)
}

func (e *InsufficientPaymentError) Unwrap() error { return ErrInsufficientPayment }

// BalanceShortfall is one currency bucket where a requested outflow exceeds
// the available balance.
type BalanceShortfall struct {
	Bucket    string
	Requested decimal.Decimal
	Available decimal.Decimal
}

type InsufficientBalanceError struct {
	Shortfalls []BalanceShortfall
}

func (e *InsufficientBalanceError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s: requested %s, available %s", s.Bucket, s.Requested, s.Available))
	}
	return "insufficient balance: " + strings.Join(parts, "; ")
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// CashDifference is the per-currency comparison of counted cash against the
// computed closing balance.
type CashDifference struct {
	Currency   Currency
	Counted    decimal.Decimal
	Expected   decimal.Decimal
	Difference decimal.Decimal
}

type ClosingMismatchError struct {
	Differences []CashDifference
}

func (e *ClosingMismatchError) Error() string {
	parts := make([]string, 0, len(e.Differences))
	for _, d := range e.Differences {
		parts = append(parts, fmt.Sprintf("%s: counted %s, expected %s (diff %s)",
			d.Currency, d.Counted, d.Expected, d.Difference))
	}
	return "closing mismatch: " + strings.Join(parts, "; ")
}

func (e *ClosingMismatchError) Unwrap() error { return ErrClosingMismatch }
