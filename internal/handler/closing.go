package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
	"github.com/dmorales-dev/cashdesk-api/internal/service/closing"
)

type closingService interface {
	CloseDay(ctx context.Context, businessDate time.Time, counted domain.CountedCash) (*domain.DayClosing, error)
	Preview(ctx context.Context) (*closing.Preview, error)
	FindByDate(ctx context.Context, businessDate time.Time) (*domain.DayClosing, error)
	History(ctx context.Context, limit int) ([]domain.DayClosing, error)
	Details(ctx context.Context, id uuid.UUID) (*closing.Details, error)
}

type ClosingHandler struct {
	closings closingService
}

func NewClosingHandler(closings closingService) *ClosingHandler {
	return &ClosingHandler{closings: closings}
}

type closeDayRequest struct {
	BusinessDate string          `json:"business_date"`
	CountedUSD   decimal.Decimal `json:"counted_usd"`
	CountedEUR   decimal.Decimal `json:"counted_eur"`
	CountedCUP   decimal.Decimal `json:"counted_cup"`
}

func (r closeDayRequest) Validate() []FieldError {
	var errs []FieldError
	if r.BusinessDate == "" {
		errs = append(errs, FieldError{Field: "business_date", Message: "required"})
	}
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"counted_usd", r.CountedUSD},
		{"counted_eur", r.CountedEUR},
		{"counted_cup", r.CountedCUP},
	} {
		if f.value.IsNegative() {
			errs = append(errs, FieldError{Field: f.name, Message: "must not be negative"})
		}
	}
	return errs
}

func (h *ClosingHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req closeDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	businessDate, err := parseDate(req.BusinessDate)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "business_date", Message: "must be YYYY-MM-DD"}})
		return
	}

	c, err := h.closings.CloseDay(r.Context(), businessDate, domain.CountedCash{
		USD: req.CountedUSD,
		EUR: req.CountedEUR,
		CUP: req.CountedCUP,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toClosingDTO(c))
}

type previewDTO struct {
	Totals       totalsDTO `json:"totals"`
	InvoiceCount int       `json:"invoice_count"`
	OutflowCount int       `json:"outflow_count"`
}

func (h *ClosingHandler) Preview(w http.ResponseWriter, r *http.Request) {
	p, err := h.closings.Preview(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, previewDTO{
		Totals:       toTotalsDTO(p.Totals),
		InvoiceCount: p.InvoiceCount,
		OutflowCount: p.OutflowCount,
	})
}

// List serves ?date= for a single closing and ?limit= for history.
func (h *ClosingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if raw := q.Get("date"); raw != "" {
		businessDate, err := parseDate(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "date", Message: "must be YYYY-MM-DD"}})
			return
		}
		c, err := h.closings.FindByDate(r.Context(), businessDate)
		if err != nil {
			RespondDomainError(w, err)
			return
		}
		RespondSuccess(w, http.StatusOK, toClosingDTO(c))
		return
	}

	limit := 30
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			RespondValidationError(w, []FieldError{{Field: "limit", Message: "must be a positive integer"}})
			return
		}
		limit = n
	}

	closings, err := h.closings.History(r.Context(), limit)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]closingDTO, len(closings))
	for i := range closings {
		out[i] = toClosingDTO(&closings[i])
	}
	RespondSuccess(w, http.StatusOK, out)
}

type closingDetailsDTO struct {
	Closing  closingDTO   `json:"closing"`
	Invoices []invoiceDTO `json:"invoices"`
	Outflows []outflowDTO `json:"outflows"`
}

func (h *ClosingHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a UUID"}})
		return
	}

	d, err := h.closings.Details(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, closingDetailsDTO{
		Closing:  toClosingDTO(&d.Closing),
		Invoices: toInvoiceDTOs(d.Invoices),
		Outflows: toOutflowDTOs(d.Outflows),
	})
}
