package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/pkg/logging"
)

type RateGettingHandler struct {
	rates  RateProvider
	pair   string
	logger *logging.ZapLogger
}

type RateProvider interface {
	Rate(ctx context.Context) decimal.Decimal
}

func NewRateGettingHandler(rates RateProvider, pair string, logger *logging.ZapLogger) *RateGettingHandler {
	return &RateGettingHandler{
		rates:  rates,
		pair:   pair,
		logger: logger,
	}
}

func (h *RateGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rate, _ := h.rates.Rate(r.Context()).Float64()
	response := clientprotocol.Rate{
		Pair: h.pair,
		Rate: rate,
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
