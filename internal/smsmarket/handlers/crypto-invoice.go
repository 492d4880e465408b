package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/smsmarket/cryptopay"
	"sms-market/internal/smsmarket/service"
	"sms-market/pkg/logging"
)

type CryptoInvoiceHandler struct {
	client CryptoInvoiceClient
	logger *logging.ZapLogger
}

type CryptoInvoiceClient interface {
	CreateInvoice(ctx context.Context, amount decimal.Decimal, currency string) (cryptopay.Invoice, error)
}

type CryptoInvoiceRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewCryptoInvoiceHandler(client CryptoInvoiceClient, logger *logging.ZapLogger) *CryptoInvoiceHandler {
	return &CryptoInvoiceHandler{
		client: client,
		logger: logger,
	}
}

func (h *CryptoInvoiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	request, err := decodeJSON[CryptoInvoiceRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		writeError(r.Context(), w, fmt.Errorf("%w: invalid body", service.ErrMissingParameter), h.logger)
		return
	}
	if !request.Amount.IsPositive() || request.Currency == "" {
		writeError(r.Context(), w, fmt.Errorf("%w: positive amount and currency are required", service.ErrMissingParameter), h.logger)
		return
	}

	invoice, err := h.client.CreateInvoice(r.Context(), request.Amount, request.Currency)
	if err != nil {
		writeError(r.Context(), w, err, h.logger)
		return
	}
	response := clientprotocol.Invoice{
		InvoiceURL:      invoice.InvoiceURL,
		ProviderOrderID: invoice.ProviderOrderID,
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
