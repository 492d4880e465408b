package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/smsmarket/service"
	"sms-market/pkg/logging"
)

type OrderLifecycleHandler struct {
	service OrderLifecycleService
	logger  *logging.ZapLogger
}

type OrderLifecycleService interface {
	Do(ctx context.Context, orderID int64, action service.Action) (clientprotocol.Order, error)
}

func NewOrderLifecycleHandler(service OrderLifecycleService, logger *logging.ZapLogger) *OrderLifecycleHandler {
	return &OrderLifecycleHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderLifecycleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeError(r.Context(), w, fmt.Errorf("%w: orderID must be numeric", service.ErrMissingParameter), h.logger)
		return
	}
	action := service.Action(r.URL.Query().Get("action"))
	if action == "" {
		writeError(r.Context(), w, fmt.Errorf("%w: action is required", service.ErrMissingParameter), h.logger)
		return
	}

	order, err := h.service.Do(r.Context(), orderID, action)
	if err != nil {
		writeError(r.Context(), w, err, h.logger)
		return
	}
	if err := writeJSON(w, http.StatusOK, order); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
