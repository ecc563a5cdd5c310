package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/denomination"
	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

type DenominationHandler struct{}

func NewDenominationHandler() *DenominationHandler {
	return &DenominationHandler{}
}

type breakdownLineDTO struct {
	Face  decimal.Decimal `json:"face"`
	Count int64           `json:"count"`
}

type breakdownDTO struct {
	Currency string             `json:"currency"`
	Faces    []decimal.Decimal  `json:"faces"`
	Target   *decimal.Decimal   `json:"target,omitempty"`
	Lines    []breakdownLineDTO `json:"lines,omitempty"`
	Residual *decimal.Decimal   `json:"residual,omitempty"`
}

// Suggest lists the face values for a currency and, when ?target= is given,
// a greedy breakdown of that amount.
func (h *DenominationHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	currency := domain.Currency(r.PathValue("currency"))
	if !currency.IsValid() {
		RespondValidationError(w, []FieldError{{Field: "currency", Message: "must be one of USD, EUR, CUP"}})
		return
	}

	faces := denomination.Faces(currency)
	out := breakdownDTO{Currency: string(currency), Faces: faces}

	if raw := r.URL.Query().Get("target"); raw != "" {
		target, err := decimal.NewFromString(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "target", Message: "must be a decimal amount"}})
			return
		}

		b := denomination.Suggest(target, faces)
		lines := make([]breakdownLineDTO, len(b.Lines))
		for i, l := range b.Lines {
			lines[i] = breakdownLineDTO{Face: l.Face, Count: l.Count}
		}
		out.Target = &target
		out.Lines = lines
		out.Residual = &b.Residual
	}

	RespondSuccess(w, http.StatusOK, out)
}
