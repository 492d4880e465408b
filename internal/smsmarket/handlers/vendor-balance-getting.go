package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/pkg/logging"
)

type VendorBalanceGettingHandler struct {
	service VendorBalancesService
	logger  *logging.ZapLogger
}

type VendorBalancesService interface {
	VendorBalances(ctx context.Context) ([]clientprotocol.VendorBalance, error)
}

func NewVendorBalanceGettingHandler(service VendorBalancesService, logger *logging.ZapLogger) *VendorBalanceGettingHandler {
	return &VendorBalanceGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *VendorBalanceGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	balances, err := h.service.VendorBalances(r.Context())
	if err != nil {
		writeError(r.Context(), w, err, h.logger)
		return
	}
	if err := writeJSON(w, http.StatusOK, balances); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
