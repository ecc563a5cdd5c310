package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

type rateService interface {
	GetRates(ctx context.Context, forDate time.Time) (*domain.RateSnapshot, error)
	SetRates(ctx context.Context, forDate time.Time, usd, eur decimal.Decimal) (*domain.RateSnapshot, error)
	SetRate(ctx context.Context, forDate time.Time, currency domain.Currency, value decimal.Decimal) (*domain.RateSnapshot, error)
	History(ctx context.Context, limit int) ([]domain.RateSnapshot, error)
}

type RateHandler struct {
	rates rateService
}

func NewRateHandler(rates rateService) *RateHandler {
	return &RateHandler{rates: rates}
}

type rateDTO struct {
	Date    string          `json:"date"`
	USDRate decimal.Decimal `json:"usd_rate"`
	EURRate decimal.Decimal `json:"eur_rate"`
}

func toRateDTO(snap *domain.RateSnapshot) rateDTO {
	return rateDTO{
		Date:    snap.Date.Format(dateLayout),
		USDRate: snap.USDRate,
		EURRate: snap.EURRate,
	}
}

// Get resolves the rates for ?date= (default today), including the
// most-recent-prior fallback.
func (h *RateHandler) Get(w http.ResponseWriter, r *http.Request) {
	forDate := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "date", Message: "must be YYYY-MM-DD"}})
			return
		}
		forDate = d
	}

	snap, err := h.rates.GetRates(r.Context(), forDate)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toRateDTO(snap))
}

type setRatesRequest struct {
	Date    string          `json:"date"`
	USDRate decimal.Decimal `json:"usd_rate"`
	EURRate decimal.Decimal `json:"eur_rate"`
}

func (h *RateHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var errs []FieldError
	if req.Date == "" {
		errs = append(errs, FieldError{Field: "date", Message: "required"})
	}
	if !req.USDRate.IsPositive() {
		errs = append(errs, FieldError{Field: "usd_rate", Message: "must be greater than 0"})
	}
	if !req.EURRate.IsPositive() {
		errs = append(errs, FieldError{Field: "eur_rate", Message: "must be greater than 0"})
	}
	if len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	forDate, err := parseDate(req.Date)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "date", Message: "must be YYYY-MM-DD"}})
		return
	}

	snap, err := h.rates.SetRates(r.Context(), forDate, req.USDRate, req.EURRate)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toRateDTO(snap))
}

type setRateRequest struct {
	Date string          `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// SetOne updates a single currency of the pair, keeping the other at its
// currently effective value.
func (h *RateHandler) SetOne(w http.ResponseWriter, r *http.Request) {
	currency := domain.Currency(r.PathValue("currency"))
	if !currency.IsValid() || currency == domain.CurrencyCUP {
		RespondValidationError(w, []FieldError{{Field: "currency", Message: "must be USD or EUR"}})
		return
	}

	var req setRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var errs []FieldError
	if req.Date == "" {
		errs = append(errs, FieldError{Field: "date", Message: "required"})
	}
	if !req.Rate.IsPositive() {
		errs = append(errs, FieldError{Field: "rate", Message: "must be greater than 0"})
	}
	if len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	forDate, err := parseDate(req.Date)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "date", Message: "must be YYYY-MM-DD"}})
		return
	}

	snap, err := h.rates.SetRate(r.Context(), forDate, currency, req.Rate)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toRateDTO(snap))
}

func (h *RateHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			RespondValidationError(w, []FieldError{{Field: "limit", Message: "must be a positive integer"}})
			return
		}
		limit = n
	}

	snaps, err := h.rates.History(r.Context(), limit)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]rateDTO, len(snaps))
	for i := range snaps {
		out[i] = toRateDTO(&snaps[i])
	}
	RespondSuccess(w, http.StatusOK, out)
}
