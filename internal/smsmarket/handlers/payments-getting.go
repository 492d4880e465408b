package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sms-market/internal/smsmarket/data"
	"sms-market/pkg/logging"
)

type PaymentsGettingHandler struct {
	service PaymentsGettingService
	logger  *logging.ZapLogger
}

type PaymentsGettingService interface {
	GetAllUserPayments(ctx context.Context, email string) ([]data.PaymentRecord, error)
}

type PaymentItem struct {
	ProviderOrderID string    `json:"providerOrderId"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewPaymentsGettingHandler(service PaymentsGettingService, logger *logging.ZapLogger) *PaymentsGettingHandler {
	return &PaymentsGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PaymentsGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	email, err := emailFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "failed to recover email from token", zap.Error(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	payments, err := h.service.GetAllUserPayments(r.Context(), email)
	if err != nil {
		writeError(r.Context(), w, err, h.logger)
		return
	}
	if len(payments) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	items := make([]PaymentItem, len(payments))
	for i, payment := range payments {
		amount, _ := payment.Amount.Float64()
		items[i] = PaymentItem{
			ProviderOrderID: payment.ProviderOrderID,
			Amount:          amount,
			Currency:        payment.Currency,
			Status:          payment.Status,
			CreatedAt:       payment.CreatedAt,
		}
	}
	if err := writeJSON(w, http.StatusOK, items); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
