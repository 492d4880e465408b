package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/smsmarket/cryptopay"
	"sms-market/internal/smsmarket/service"
	"sms-market/internal/smsmarket/vendors"
	"sms-market/pkg/logging"
)

func newTestLogger(t *testing.T) *logging.ZapLogger {
	t.Helper()
	logger, err := logging.NewZapLogger(zapcore.ErrorLevel)
	require.NoError(t, err)
	return logger
}

type fakePricesService struct {
	entries []clientprotocol.PriceEntry
	err     error
}

func (f *fakePricesService) GetPrices(_ context.Context, _, _, _ string) ([]clientprotocol.PriceEntry, error) {
	return f.entries, f.err
}

type fakeLifecycleService struct {
	gotOrderID int64
	gotAction  service.Action
	order      clientprotocol.Order
	err        error
}

func (f *fakeLifecycleService) Do(_ context.Context, orderID int64, action service.Action) (clientprotocol.Order, error) {
	f.gotOrderID = orderID
	f.gotAction = action
	return f.order, f.err
}

type fakeReuseService struct {
	gotProduct string
	gotNumber  string
	err        error
}

func (f *fakeReuseService) Reuse(_ context.Context, product, number string) (clientprotocol.Order, error) {
	f.gotProduct = product
	f.gotNumber = number
	return clientprotocol.Order{Reused: true}, f.err
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()
	var envelope clientprotocol.Error
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error
}

func TestPricesGettingHandler(t *testing.T) {
	t.Run("returns flattened entries", func(t *testing.T) {
		entries := []clientprotocol.PriceEntry{
			{Country: "usa", Title: "facebook", ID: "usa-facebook-virtual51", Price: 12, Stock: 3},
		}
		handler := NewPricesGettingHandler(&fakePricesService{entries: entries}, newTestLogger(t))

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/prices?country=usa&product=facebook", nil)
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var got []clientprotocol.PriceEntry
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, entries, got)
	})

	t.Run("vendor failure surfaces as error envelope", func(t *testing.T) {
		handler := NewPricesGettingHandler(&fakePricesService{err: service.ErrUnknownVendor}, newTestLogger(t))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/prices?vendor=nope", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NotEmpty(t, decodeError(t, rr.Body.Bytes()))
	})
}

func TestOrderLifecycleHandler(t *testing.T) {
	newRouter := func(svc OrderLifecycleService, t *testing.T) *chi.Mux {
		router := chi.NewRouter()
		router.Get("/api/orders/{orderID}", NewOrderLifecycleHandler(svc, newTestLogger(t)).ServeHTTP)
		return router
	}

	t.Run("dispatches id and action", func(t *testing.T) {
		svc := &fakeLifecycleService{
			order: clientprotocol.Order{OrderID: "812971", Status: clientprotocol.Canceled},
		}
		router := newRouter(svc, t)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/812971?action=cancel", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(812971), svc.gotOrderID)
		assert.Equal(t, service.CancelAction, svc.gotAction)
	})

	t.Run("terminal order cancel is 404 not 500", func(t *testing.T) {
		svc := &fakeLifecycleService{
			err: fmt.Errorf("%w: vendor said %q", service.ErrOrderNotFound, "already canceled"),
		}
		router := newRouter(svc, t)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/42?action=cancel", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, decodeError(t, rr.Body.Bytes()), "already canceled")
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		router := newRouter(&fakeLifecycleService{}, t)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/abc?action=check", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing action is 400", func(t *testing.T) {
		router := newRouter(&fakeLifecycleService{}, t)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/42", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestReuseHandler(t *testing.T) {
	t.Run("passes product and number through untouched", func(t *testing.T) {
		svc := &fakeReuseService{}
		handler := NewReuseHandler(svc, newTestLogger(t))

		rr := httptest.NewRecorder()
		target := "/api/reuse?product=facebook&number=%2B15551230987"
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "facebook", svc.gotProduct)
		assert.Equal(t, "+15551230987", svc.gotNumber)
	})

	t.Run("missing parameter maps to 400", func(t *testing.T) {
		svc := &fakeReuseService{
			err: fmt.Errorf("%w: number is required", service.ErrMissingParameter),
		}
		handler := NewReuseHandler(svc, newTestLogger(t))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reuse?product=facebook", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NotEmpty(t, decodeError(t, rr.Body.Bytes()))
	})
}

type fakeVerifier struct {
	callback cryptopay.Callback
	err      error
}

func (f *fakeVerifier) VerifyCallback([]byte) (cryptopay.Callback, error) {
	return f.callback, f.err
}

type fakeCallbackWallet struct {
	applied int
	err     error
}

func (f *fakeCallbackWallet) ApplyCallback(context.Context, cryptopay.Callback) error {
	if f.err == nil {
		f.applied++
	}
	return f.err
}

func TestCryptoCallbackHandler(t *testing.T) {
	newRequest := func() *http.Request {
		return httptest.NewRequest(
			http.MethodPost,
			"/api/payments/crypto/callback",
			strings.NewReader(`{"status":"paid"}`),
		)
	}

	t.Run("invalid signature is rejected", func(t *testing.T) {
		wallet := &fakeCallbackWallet{}
		handler := NewCryptoCallbackHandler(&fakeVerifier{err: cryptopay.ErrInvalidSignature}, wallet, newTestLogger(t))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, wallet.applied, "unverified callback must never touch the wallet")
	})

	t.Run("verified callback credits", func(t *testing.T) {
		wallet := &fakeCallbackWallet{}
		handler := NewCryptoCallbackHandler(&fakeVerifier{callback: cryptopay.Callback{Status: "paid"}}, wallet, newTestLogger(t))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest())

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, wallet.applied)
	})

	t.Run("replayed callback is acknowledged", func(t *testing.T) {
		wallet := &fakeCallbackWallet{err: service.ErrPaymentReplayed}
		handler := NewCryptoCallbackHandler(&fakeVerifier{callback: cryptopay.Callback{Status: "paid"}}, wallet, newTestLogger(t))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest())

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestVendorActionsHandler(t *testing.T) {
	t.Run("missing action is 400", func(t *testing.T) {
		handler := NewVendorActionsHandler(&fakeVendorActions{}, newTestLogger(t))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/vendor", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("get-number keyword dispatches purchase", func(t *testing.T) {
		svc := &fakeVendorActions{
			order: clientprotocol.Order{OrderID: "7", PhoneNumber: "+15551230987"},
		}
		handler := NewVendorActionsHandler(svc, newTestLogger(t))

		rr := httptest.NewRecorder()
		target := "/api/vendor?action=get-number&country=usa&operator=virtual51&product=facebook"
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "usa", svc.gotParams.Country)
		assert.Equal(t, "virtual51", svc.gotParams.Operator)
		assert.Equal(t, "facebook", svc.gotParams.Product)
	})

	t.Run("get-status keyword reads order status", func(t *testing.T) {
		svc := &fakeVendorActions{
			order: clientprotocol.Order{OrderID: "991", Status: "READY", SMSCode: "54321"},
		}
		handler := NewVendorActionsHandler(svc, newTestLogger(t))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/vendor?action=get-status&id=991", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(991), svc.gotRequestID)
	})

	t.Run("set-status keyword dispatches status change", func(t *testing.T) {
		svc := &fakeVendorActions{}
		handler := NewVendorActionsHandler(svc, newTestLogger(t))

		rr := httptest.NewRecorder()
		target := "/api/vendor?action=set-status&id=991&status=close"
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(991), svc.gotRequestID)
		assert.Equal(t, "close", svc.gotStatus)
	})
}

type fakeVendorActions struct {
	gotParams    service.PurchaseParams
	gotRequestID int64
	gotStatus    string
	order        clientprotocol.Order
	err          error
}

func (f *fakeVendorActions) Purchase(_ context.Context, params service.PurchaseParams) (clientprotocol.Order, error) {
	f.gotParams = params
	return f.order, f.err
}

func (f *fakeVendorActions) SetStatus(_ context.Context, requestID int64, status string) (clientprotocol.Order, error) {
	f.gotRequestID = requestID
	f.gotStatus = status
	return f.order, f.err
}

func (f *fakeVendorActions) GetStatus(_ context.Context, requestID int64) (clientprotocol.Order, error) {
	f.gotRequestID = requestID
	return f.order, f.err
}

type fakeVendorBalances struct {
	balances []clientprotocol.VendorBalance
	err      error
}

func (f *fakeVendorBalances) VendorBalances(context.Context) ([]clientprotocol.VendorBalance, error) {
	return f.balances, f.err
}

func TestVendorBalanceGettingHandler(t *testing.T) {
	t.Run("returns both balances", func(t *testing.T) {
		balances := []clientprotocol.VendorBalance{
			{Vendor: "5sim", Amount: 321.5},
			{Vendor: "sms-man", Amount: 120.5},
		}
		handler := NewVendorBalanceGettingHandler(&fakeVendorBalances{balances: balances}, newTestLogger(t))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/vendor/balance", nil))

		require.Equal(t, http.StatusOK, rr.Code)

		var got []clientprotocol.VendorBalance
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, balances, got)
	})

	t.Run("vendor failure surfaces", func(t *testing.T) {
		handler := NewVendorBalanceGettingHandler(&fakeVendorBalances{err: vendors.ErrUnreachable}, newTestLogger(t))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/vendor/balance", nil))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}
