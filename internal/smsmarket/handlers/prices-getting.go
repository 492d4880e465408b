package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/pkg/logging"
)

type PricesGettingHandler struct {
	service PricesGettingService
	logger  *logging.ZapLogger
}

type PricesGettingService interface {
	GetPrices(ctx context.Context, vendor, country, product string) ([]clientprotocol.PriceEntry, error)
}

func NewPricesGettingHandler(service PricesGettingService, logger *logging.ZapLogger) *PricesGettingHandler {
	return &PricesGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PricesGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	prices, err := h.service.GetPrices(
		r.Context(),
		query.Get("vendor"),
		query.Get("country"),
		query.Get("product"),
	)
	if err != nil {
		writeError(r.Context(), w, err, h.logger)
		return
	}
	if err := writeJSON(w, http.StatusOK, prices); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
