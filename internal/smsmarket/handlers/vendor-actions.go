package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/common/smsmanprotocol"
	"sms-market/internal/smsmarket/service"
	"sms-market/pkg/logging"
)

// VendorActionsHandler keeps the frontend's action-keyword contract:
// /api/vendor?action=get-number|set-status|get-status with the historical
// parameter names, passed through bit-for-bit.
type VendorActionsHandler struct {
	service VendorActionsService
	logger  *logging.ZapLogger
}

type VendorActionsService interface {
	Purchase(ctx context.Context, params service.PurchaseParams) (clientprotocol.Order, error)
	SetStatus(ctx context.Context, requestID int64, status string) (clientprotocol.Order, error)
	GetStatus(ctx context.Context, requestID int64) (clientprotocol.Order, error)
}

func NewVendorActionsHandler(service VendorActionsService, logger *logging.ZapLogger) *VendorActionsHandler {
	return &VendorActionsHandler{
		service: service,
		logger:  logger,
	}
}

func (h *VendorActionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	action := query.Get("action")

	var (
		order clientprotocol.Order
		err   error
	)
	switch action {
	case smsmanprotocol.GetNumberAction:
		countryID, _ := strconv.Atoi(query.Get("country_id"))
		applicationID, _ := strconv.Atoi(query.Get("application_id"))
		order, err = h.service.Purchase(r.Context(), service.PurchaseParams{
			Vendor:        query.Get("vendor"),
			Country:       query.Get("country"),
			Operator:      query.Get("operator"),
			Product:       query.Get("product"),
			CountryID:     countryID,
			ApplicationID: applicationID,
		})
	case smsmanprotocol.SetStatusAction:
		var requestID int64
		requestID, err = strconv.ParseInt(query.Get("id"), 10, 64)
		if err != nil {
			err = fmt.Errorf("%w: id must be numeric", service.ErrMissingParameter)
			break
		}
		order, err = h.service.SetStatus(r.Context(), requestID, query.Get("status"))
	case smsmanprotocol.GetStatusAction:
		var requestID int64
		requestID, err = strconv.ParseInt(query.Get("id"), 10, 64)
		if err != nil {
			err = fmt.Errorf("%w: id must be numeric", service.ErrMissingParameter)
			break
		}
		order, err = h.service.GetStatus(r.Context(), requestID)
	case "":
		err = fmt.Errorf("%w: action is required", service.ErrMissingParameter)
	default:
		err = fmt.Errorf("%w: %q", service.ErrUnknownAction, action)
	}

	if err != nil {
		writeError(r.Context(), w, err, h.logger)
		return
	}
	if err := writeJSON(w, http.StatusOK, order); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
