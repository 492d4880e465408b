package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"sms-market/internal/smsmarket/cardpay"
	"sms-market/internal/smsmarket/service"
	"sms-market/pkg/logging"
)

type CardVerifyHandler struct {
	client CardVerifyClient
	wallet CardVerifyWallet
	logger *logging.ZapLogger
}

type CardVerifyClient interface {
	VerifyTransaction(ctx context.Context, txRef string) (cardpay.Transaction, error)
}

type CardVerifyWallet interface {
	Apply(ctx context.Context, credit service.Credit) error
}

type CardVerifyResponse struct {
	TxRef    string `json:"txRef"`
	Status   string `json:"status"`
	Credited bool   `json:"credited"`
}

func NewCardVerifyHandler(client CardVerifyClient, wallet CardVerifyWallet, logger *logging.ZapLogger) *CardVerifyHandler {
	return &CardVerifyHandler{
		client: client,
		wallet: wallet,
		logger: logger,
	}
}

// ServeHTTP re-reads the transaction from the gateway and credits the
// payer on success. Redirect query parameters are never trusted; only
// the gateway's answer decides.
func (h *CardVerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	txRef := r.URL.Query().Get("tx_ref")
	if txRef == "" {
		writeError(r.Context(), w, fmt.Errorf("%w: tx_ref is required", service.ErrMissingParameter), h.logger)
		return
	}

	transaction, err := h.client.VerifyTransaction(r.Context(), txRef)
	if err != nil {
		switch {
		case errors.Is(err, cardpay.ErrTransactionUnknown):
			writeError(r.Context(), w, fmt.Errorf("%w: %s", service.ErrOrderNotFound, txRef), h.logger)
		default:
			writeError(r.Context(), w, err, h.logger)
		}
		return
	}

	credited := false
	if transaction.Status == cardpay.StatusSuccessful {
		err = h.wallet.Apply(r.Context(), service.Credit{
			ProviderOrderID: transaction.TxRef,
			Email:           transaction.Email,
			Amount:          transaction.Amount,
			Currency:        transaction.Currency,
			Status:          transaction.Status,
		})
		switch {
		case err == nil:
			credited = true
		case errors.Is(err, service.ErrPaymentReplayed):
			// Verified twice; the first pass already credited.
		default:
			writeError(r.Context(), w, err, h.logger)
			return
		}
	}

	response := CardVerifyResponse{
		TxRef:    transaction.TxRef,
		Status:   transaction.Status,
		Credited: credited,
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
