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
	"github.com/dmorales-dev/cashdesk-api/internal/service/invoice"
)

type invoiceService interface {
	Register(ctx context.Context, req invoice.RegisterRequest) (*domain.Invoice, error)
	AmendPayments(ctx context.Context, id uuid.UUID, payments domain.PaymentSet) (*domain.Invoice, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error)
	FindOpen(ctx context.Context) ([]domain.Invoice, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Invoice, error)
}

type InvoiceHandler struct {
	invoices invoiceService
}

func NewInvoiceHandler(invoices invoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type registerInvoiceRequest struct {
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Payments paymentsDTO     `json:"payments"`
}

func (r registerInvoiceRequest) Validate() []FieldError {
	var errs []FieldError

	if r.OrderID == "" {
		errs = append(errs, FieldError{Field: "order_id", Message: "required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if r.Currency == "" {
		errs = append(errs, FieldError{Field: "currency", Message: "required"})
	} else if !domain.Currency(r.Currency).IsValid() {
		errs = append(errs, FieldError{Field: "currency", Message: "must be USD, EUR, or CUP"})
	}
	errs = append(errs, r.Payments.validate()...)

	return errs
}

func (h *InvoiceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	inv, err := h.invoices.Register(r.Context(), invoice.RegisterRequest{
		OrderID:  req.OrderID,
		Amount:   req.Amount,
		Currency: domain.Currency(req.Currency),
		Payments: req.Payments.toDomain(),
		Today:    time.Now().UTC(),
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toInvoiceDTO(inv))
}

func (h *InvoiceHandler) AmendPayments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a UUID"}})
		return
	}

	var req paymentsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	inv, err := h.invoices.AmendPayments(r.Context(), id, req.toDomain())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toInvoiceDTO(inv))
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a UUID"}})
		return
	}

	inv, err := h.invoices.FindByID(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toInvoiceDTO(inv))
}

// List serves ?order_id=, ?status=open, ?from=&to=, and ?limit= lookups.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if orderID := q.Get("order_id"); orderID != "" {
		inv, err := h.invoices.FindByOrderID(r.Context(), orderID)
		if err != nil {
			RespondDomainError(w, err)
			return
		}
		RespondSuccess(w, http.StatusOK, toInvoiceDTO(inv))
		return
	}

	if q.Get("status") == "open" {
		invoices, err := h.invoices.FindOpen(r.Context())
		if err != nil {
			RespondDomainError(w, err)
			return
		}
		RespondSuccess(w, http.StatusOK, toInvoiceDTOs(invoices))
		return
	}

	if q.Get("from") != "" || q.Get("to") != "" {
		from, err := parseDate(q.Get("from"))
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "from", Message: "must be YYYY-MM-DD"}})
			return
		}
		to, err := parseDate(q.Get("to"))
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "to", Message: "must be YYYY-MM-DD"}})
			return
		}

		// End date is inclusive.
		invoices, err := h.invoices.FindInRange(r.Context(), from, to.AddDate(0, 0, 1))
		if err != nil {
			RespondDomainError(w, err)
			return
		}
		RespondSuccess(w, http.StatusOK, toInvoiceDTOs(invoices))
		return
	}

	limit := 10
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			RespondValidationError(w, []FieldError{{Field: "limit", Message: "must be a positive integer"}})
			return
		}
		limit = n
	}
	invoices, err := h.invoices.FindRecent(r.Context(), limit)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toInvoiceDTOs(invoices))
}
