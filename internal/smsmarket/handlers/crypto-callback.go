package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"sms-market/internal/smsmarket/cryptopay"
	"sms-market/internal/smsmarket/service"
	"sms-market/pkg/logging"
)

type CryptoCallbackHandler struct {
	verifier CallbackVerifier
	wallet   CallbackWallet
	logger   *logging.ZapLogger
}

type CallbackVerifier interface {
	VerifyCallback(raw []byte) (cryptopay.Callback, error)
}

type CallbackWallet interface {
	ApplyCallback(ctx context.Context, callback cryptopay.Callback) error
}

func NewCryptoCallbackHandler(verifier CallbackVerifier, wallet CallbackWallet, logger *logging.ZapLogger) *CryptoCallbackHandler {
	return &CryptoCallbackHandler{
		verifier: verifier,
		wallet:   wallet,
		logger:   logger,
	}
}

func (h *CryptoCallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "error reading callback body", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	callback, err := h.verifier.VerifyCallback(raw)
	if err != nil {
		// A failed signature is security-relevant: logged on our side,
		// plain 400 toward the provider.
		h.logger.WarnCtx(r.Context(), "callback rejected", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = h.wallet.ApplyCallback(r.Context(), callback)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentReplayed):
			// Already credited; acknowledge so the provider stops retrying.
			h.logger.InfoCtx(r.Context(), "duplicate callback acknowledged",
				zap.String("providerOrderID", callback.OrderID),
			)
			w.WriteHeader(http.StatusOK)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error applying callback", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
