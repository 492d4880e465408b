package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/smsmarket/data"
	"sms-market/pkg/logging"
)

type BalanceGettingHandler struct {
	service BalanceGettingService
	logger  *logging.ZapLogger
}

type BalanceGettingService interface {
	GetBalance(ctx context.Context, email string) (data.BalanceRecord, error)
}

func NewBalanceGettingHandler(service BalanceGettingService, logger *logging.ZapLogger) *BalanceGettingHandler {
	return &BalanceGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *BalanceGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	email, err := emailFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "failed to recover email from token", zap.Error(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	record, err := h.service.GetBalance(r.Context(), email)
	if err != nil {
		writeError(r.Context(), w, err, h.logger)
		return
	}
	amount, _ := record.Amount.Float64()
	response := clientprotocol.Balance{
		Email:       record.Email,
		Amount:      amount,
		Currency:    record.Currency,
		LastUpdated: record.LastUpdated,
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
