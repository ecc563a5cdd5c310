package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parseDate: %q: %w", s, err)
	}
	return d, nil
}

type totalsDTO struct {
	USD      decimal.Decimal `json:"usd"`
	EUR      decimal.Decimal `json:"eur"`
	CUP      decimal.Decimal `json:"cup"`
	Transfer decimal.Decimal `json:"transfer"`
}

func toTotalsDTO(t domain.CashTotals) totalsDTO {
	return totalsDTO{USD: t.USD, EUR: t.EUR, CUP: t.CUP, Transfer: t.Transfer}
}

type paymentsDTO struct {
	PaidUSD      decimal.Decimal `json:"paid_usd"`
	PaidEUR      decimal.Decimal `json:"paid_eur"`
	PaidCUP      decimal.Decimal `json:"paid_cup"`
	PaidTransfer decimal.Decimal `json:"paid_transfer"`
	TransferRef  *string         `json:"transfer_ref,omitempty"`
}

func (p paymentsDTO) toDomain() domain.PaymentSet {
	return domain.PaymentSet{
		PaidUSD:      p.PaidUSD,
		PaidEUR:      p.PaidEUR,
		PaidCUP:      p.PaidCUP,
		PaidTransfer: p.PaidTransfer,
		TransferRef:  p.TransferRef,
	}
}

func (p paymentsDTO) validate() []FieldError {
	var errs []FieldError
	if p.PaidUSD.IsNegative() || p.PaidEUR.IsNegative() || p.PaidCUP.IsNegative() || p.PaidTransfer.IsNegative() {
		errs = append(errs, FieldError{Field: "payments", Message: "components must not be negative"})
	}
	if p.PaidTransfer.IsPositive() && (p.TransferRef == nil || *p.TransferRef == "") {
		errs = append(errs, FieldError{Field: "transfer_ref", Message: "required when paid_transfer > 0"})
	}
	return errs
}

type invoiceDTO struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     string          `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	AmountLocal decimal.Decimal `json:"amount_local"`
	RateUSD     decimal.Decimal `json:"rate_usd"`
	RateEUR     decimal.Decimal `json:"rate_eur"`
	Payments    paymentsDTO     `json:"payments"`
	Closed      bool            `json:"closed"`
	ClosingID   *uuid.UUID      `json:"closing_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toInvoiceDTO(inv *domain.Invoice) invoiceDTO {
	return invoiceDTO{
		ID:          inv.ID,
		OrderID:     inv.OrderID,
		Amount:      inv.Amount,
		Currency:    string(inv.Currency),
		AmountLocal: inv.AmountLocal,
		RateUSD:     inv.RateUsed.USDRate,
		RateEUR:     inv.RateUsed.EURRate,
		Payments: paymentsDTO{
			PaidUSD:      inv.Payments.PaidUSD,
			PaidEUR:      inv.Payments.PaidEUR,
			PaidCUP:      inv.Payments.PaidCUP,
			PaidTransfer: inv.Payments.PaidTransfer,
			TransferRef:  inv.Payments.TransferRef,
		},
		Closed:    inv.Closed,
		ClosingID: inv.ClosingID,
		CreatedAt: inv.CreatedAt,
	}
}

func toInvoiceDTOs(invoices []domain.Invoice) []invoiceDTO {
	out := make([]invoiceDTO, len(invoices))
	for i := range invoices {
		out[i] = toInvoiceDTO(&invoices[i])
	}
	return out
}

type outflowDTO struct {
	ID           uuid.UUID       `json:"id"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	AmountEUR    decimal.Decimal `json:"amount_eur"`
	AmountCUP    decimal.Decimal `json:"amount_cup"`
	AmountXfer   decimal.Decimal `json:"amount_transfer"`
	Recipient    string          `json:"recipient"`
	AuthorizedBy string          `json:"authorized_by"`
	Reason       string          `json:"reason"`
	Closed       bool            `json:"closed"`
	ClosingID    *uuid.UUID      `json:"closing_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toOutflowDTO(o *domain.Outflow) outflowDTO {
	return outflowDTO{
		ID:           o.ID,
		AmountUSD:    o.AmountUSD,
		AmountEUR:    o.AmountEUR,
		AmountCUP:    o.AmountCUP,
		AmountXfer:   o.AmountXfer,
		Recipient:    o.Recipient,
		AuthorizedBy: o.AuthorizedBy,
		Reason:       o.Reason,
		Closed:       o.Closed,
		ClosingID:    o.ClosingID,
		CreatedAt:    o.CreatedAt,
	}
}

func toOutflowDTOs(outflows []domain.Outflow) []outflowDTO {
	out := make([]outflowDTO, len(outflows))
	for i := range outflows {
		out[i] = toOutflowDTO(&outflows[i])
	}
	return out
}

type closingDTO struct {
	ID           uuid.UUID       `json:"id"`
	BusinessDate string          `json:"business_date"`
	Totals       totalsDTO       `json:"totals"`
	CountedUSD   decimal.Decimal `json:"counted_usd"`
	CountedEUR   decimal.Decimal `json:"counted_eur"`
	CountedCUP   decimal.Decimal `json:"counted_cup"`
	DiffUSD      decimal.Decimal `json:"diff_usd"`
	DiffEUR      decimal.Decimal `json:"diff_eur"`
	DiffCUP      decimal.Decimal `json:"diff_cup"`
	InvoiceCount int             `json:"invoice_count"`
	OutflowCount int             `json:"outflow_count"`
	ClosedAt     time.Time       `json:"closed_at"`
}

func toClosingDTO(c *domain.DayClosing) closingDTO {
	return closingDTO{
		ID:           c.ID,
		BusinessDate: c.BusinessDate.Format(dateLayout),
		Totals:       toTotalsDTO(c.Totals),
		CountedUSD:   c.Counted.USD,
		CountedEUR:   c.Counted.EUR,
		CountedCUP:   c.Counted.CUP,
		DiffUSD:      c.Difference.USD,
		DiffEUR:      c.Difference.EUR,
		DiffCUP:      c.Difference.CUP,
		InvoiceCount: c.InvoiceCount,
		OutflowCount: c.OutflowCount,
		ClosedAt:     c.ClosedAt,
	}
}
