package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/smsmarket/cardpay"
	"sms-market/internal/smsmarket/service"
	"sms-market/pkg/logging"
)

type CardCheckoutHandler struct {
	client CardCheckoutClient
	logger *logging.ZapLogger
}

type CardCheckoutClient interface {
	CreateCheckout(ctx context.Context, amount decimal.Decimal, currency, email string) (cardpay.Checkout, error)
}

type CardCheckoutRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Email    string          `json:"email"`
}

func NewCardCheckoutHandler(client CardCheckoutClient, logger *logging.ZapLogger) *CardCheckoutHandler {
	return &CardCheckoutHandler{
		client: client,
		logger: logger,
	}
}

func (h *CardCheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	request, err := decodeJSON[CardCheckoutRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		writeError(r.Context(), w, fmt.Errorf("%w: invalid body", service.ErrMissingParameter), h.logger)
		return
	}
	if !request.Amount.IsPositive() || request.Currency == "" || request.Email == "" {
		writeError(r.Context(), w, fmt.Errorf("%w: amount, currency and email are required", service.ErrMissingParameter), h.logger)
		return
	}

	checkout, err := h.client.CreateCheckout(r.Context(), request.Amount, request.Currency, request.Email)
	if err != nil {
		writeError(r.Context(), w, err, h.logger)
		return
	}
	response := clientprotocol.Checkout{
		CheckoutURL: checkout.CheckoutURL,
		TxRef:       checkout.TxRef,
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
