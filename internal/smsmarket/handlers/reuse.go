package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/pkg/logging"
)

type ReuseHandler struct {
	service ReuseService
	logger  *logging.ZapLogger
}

type ReuseService interface {
	Reuse(ctx context.Context, product, number string) (clientprotocol.Order, error)
}

func NewReuseHandler(service ReuseService, logger *logging.ZapLogger) *ReuseHandler {
	return &ReuseHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReuseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	order, err := h.service.Reuse(r.Context(), query.Get("product"), query.Get("number"))
	if err != nil {
		writeError(r.Context(), w, err, h.logger)
		return
	}
	if err := writeJSON(w, http.StatusOK, order); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
