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
	"github.com/dmorales-dev/cashdesk-api/internal/service/outflow"
)

type outflowService interface {
	Register(ctx context.Context, req outflow.RegisterRequest) (*domain.Outflow, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Outflow, error)
	FindOpen(ctx context.Context) ([]domain.Outflow, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]domain.Outflow, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Outflow, error)
}

type OutflowHandler struct {
	outflows outflowService
}

func NewOutflowHandler(outflows outflowService) *OutflowHandler {
	return &OutflowHandler{outflows: outflows}
}

type registerOutflowRequest struct {
	AmountUSD       decimal.Decimal `json:"amount_usd"`
	AmountEUR       decimal.Decimal `json:"amount_eur"`
	AmountCUP       decimal.Decimal `json:"amount_cup"`
	AmountXfer      decimal.Decimal `json:"amount_transfer"`
	Recipient       string          `json:"recipient"`
	AuthorizedBy    string          `json:"authorized_by"`
	Reason          string          `json:"reason"`
	ValidateBalance *bool           `json:"validate_balance"`
}

func (r registerOutflowRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Recipient == "" {
		errs = append(errs, FieldError{Field: "recipient", Message: "required"})
	}
	if r.AuthorizedBy == "" {
		errs = append(errs, FieldError{Field: "authorized_by", Message: "required"})
	}
	for _, a := range []decimal.Decimal{r.AmountUSD, r.AmountEUR, r.AmountCUP, r.AmountXfer} {
		if a.IsNegative() {
			errs = append(errs, FieldError{Field: "amounts", Message: "must not be negative"})
			break
		}
	}
	if !r.AmountUSD.IsPositive() && !r.AmountEUR.IsPositive() && !r.AmountCUP.IsPositive() && !r.AmountXfer.IsPositive() {
		errs = append(errs, FieldError{Field: "amounts", Message: "at least one amount must be greater than 0"})
	}

	return errs
}

func (h *OutflowHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerOutflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	// Balance validation defaults on; the override exists for corrections
	// entered after the physical cash already left.
	validate := true
	if req.ValidateBalance != nil {
		validate = *req.ValidateBalance
	}

	o, err := h.outflows.Register(r.Context(), outflow.RegisterRequest{
		AmountUSD:       req.AmountUSD,
		AmountEUR:       req.AmountEUR,
		AmountCUP:       req.AmountCUP,
		AmountXfer:      req.AmountXfer,
		Recipient:       req.Recipient,
		AuthorizedBy:    req.AuthorizedBy,
		Reason:          req.Reason,
		ValidateBalance: validate,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toOutflowDTO(o))
}

func (h *OutflowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a UUID"}})
		return
	}

	o, err := h.outflows.FindByID(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toOutflowDTO(o))
}

func (h *OutflowHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("status") == "open" {
		outflows, err := h.outflows.FindOpen(r.Context())
		if err != nil {
			RespondDomainError(w, err)
			return
		}
		RespondSuccess(w, http.StatusOK, toOutflowDTOs(outflows))
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

		outflows, err := h.outflows.FindInRange(r.Context(), from, to.AddDate(0, 0, 1))
		if err != nil {
			RespondDomainError(w, err)
			return
		}
		RespondSuccess(w, http.StatusOK, toOutflowDTOs(outflows))
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
	outflows, err := h.outflows.FindRecent(r.Context(), limit)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toOutflowDTOs(outflows))
}
