package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/smsmarket/cryptopay"
	"sms-market/internal/smsmarket/service"
	"sms-market/internal/smsmarket/vendors"
	"sms-market/pkg/logging"
)

const emailClaimName = "email"

var errNoEmailClaim = errors.New("no email claim in token")

func closeBody(ctx context.Context, body io.ReadCloser, logger *logging.ZapLogger) {
	err := body.Close()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to close body", zap.Error(err))
	}
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&out)
	return out, err
}

func emailFromCtx(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", err //nolint:wrapcheck // unnecessary
	}
	email, ok := claims[emailClaimName].(string)
	if !ok || email == "" {
		return "", errNoEmailClaim
	}
	return email, nil
}

func writeJSON(w http.ResponseWriter, status int, responseItem any) error {
	res, err := json.Marshal(responseItem)
	if err != nil {
		return err
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(res)
	return err
}

// writeError maps a service error onto the {"error": "..."} envelope.
// Vendor rejections keep the vendor's own status code and body text.
func writeError(ctx context.Context, w http.ResponseWriter, err error, logger *logging.ZapLogger) {
	status := http.StatusInternalServerError
	message := err.Error()
	switch {
	case errors.Is(err, service.ErrMissingParameter),
		errors.Is(err, service.ErrUnknownAction),
		errors.Is(err, service.ErrUnknownVendor),
		errors.Is(err, cryptopay.ErrInvalidSignature):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrReuseNotPossible),
		errors.Is(err, service.ErrReuseExpired),
		errors.Is(err, service.ErrNoFreePhones):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotEnoughVendorBalance):
		status = http.StatusPaymentRequired
	case errors.Is(err, vendors.ErrUnreachable):
		status = http.StatusBadGateway
	}
	if rejected, ok := vendors.AsRejected(err); ok {
		status = rejected.StatusCode
		message = rejected.Body
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(ctx, "request failed", zap.Error(err))
	} else {
		logger.DebugCtx(ctx, "request rejected", zap.Error(err))
	}
	if writeErr := writeJSON(w, status, clientprotocol.Error{Error: message}); writeErr != nil {
		logger.ErrorCtx(ctx, "error writing error response", zap.Error(writeErr))
	}
}
