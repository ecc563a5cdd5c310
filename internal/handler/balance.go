package handler

import (
	"context"
	"net/http"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

type balanceService interface {
	AvailableBalance(ctx context.Context) (domain.CashTotals, error)
}

type BalanceHandler struct {
	balance balanceService
}

func NewBalanceHandler(balance balanceService) *BalanceHandler {
	return &BalanceHandler{balance: balance}
}

func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	totals, err := h.balance.AvailableBalance(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toTotalsDTO(totals))
}
