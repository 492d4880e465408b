package fivesim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"sms-market/internal/common/fivesimprotocol"
	"sms-market/internal/smsmarket/vendors"
	"sms-market/pkg/logging"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger, err := logging.NewZapLogger(zapcore.ErrorLevel)
	require.NoError(t, err)
	return NewClient(Config{
		BaseURL: baseURL,
		APIKey:  "vendor-key",
		Timeout: 5 * time.Second,
	}, logger)
}

func TestBuyNumberBuildsVendorRequest(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{
			"id": 812971,
			"phone": "+15551230987",
			"country": "usa",
			"operator": "virtual51",
			"product": "facebook",
			"price": 12,
			"status": "PENDING"
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	order, err := client.BuyNumber(context.Background(), "usa", "virtual51", "facebook")
	require.NoError(t, err)

	assert.Equal(t, "/v1/user/buy/activation/usa/virtual51/facebook", gotPath)
	assert.Equal(t, "Bearer vendor-key", gotAuth)
	assert.Equal(t, int64(812971), order.ID)
	assert.Equal(t, fivesimprotocol.PendingStatus, order.Status)
}

func TestOrderActionsUsePathKeywords(t *testing.T) {
	tests := []struct {
		name string
		call func(c *Client) error
		path string
	}{
		{
			name: "check",
			call: func(c *Client) error { _, err := c.Check(context.Background(), 42); return err },
			path: "/v1/user/check/42",
		},
		{
			name: "cancel",
			call: func(c *Client) error { _, err := c.Cancel(context.Background(), 42); return err },
			path: "/v1/user/cancel/42",
		},
		{
			name: "finish",
			call: func(c *Client) error { _, err := c.Finish(context.Background(), 42); return err },
			path: "/v1/user/finish/42",
		},
		{
			name: "ban",
			call: func(c *Client) error { _, err := c.Ban(context.Background(), 42); return err },
			path: "/v1/user/ban/42",
		},
		{
			name: "reuse",
			call: func(c *Client) error {
				_, err := c.Reuse(context.Background(), "facebook", "+15551230987")
				return err
			},
			path: "/v1/user/reuse/facebook/+15551230987",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_, _ = w.Write([]byte(`{"id": 42, "status": "CANCELED"}`))
			}))
			defer server.Close()

			require.NoError(t, test.call(newTestClient(t, server.URL)))
			assert.Equal(t, test.path, gotPath)
		})
	}
}

func TestBalanceReadsProfile(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"balance": 321.5, "rating": 96}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	balance, err := client.Balance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/v1/user/profile", gotPath)
	assert.Equal(t, 321.5, balance.Balance)
}

func TestRejectedKeepsVendorBodyVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("order not found"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Cancel(context.Background(), 42)

	rejected, ok := vendors.AsRejected(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Equal(t, "order not found", rejected.Body)
}

func TestMalformedBodyIsClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Check(context.Background(), 42)
	assert.ErrorIs(t, err, vendors.ErrMalformed)
}

func TestUnreachableVendorIsClassified(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")

	_, err := client.Check(context.Background(), 42)
	assert.ErrorIs(t, err, vendors.ErrUnreachable)
}

func TestPricesPassesFilters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"usa": {"facebook": {"virtual51": {"cost": 12, "count": 3}}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	prices, err := client.Prices(context.Background(), "usa", "facebook")
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "country=usa")
	assert.Contains(t, gotQuery, "product=facebook")
	require.Contains(t, prices, "usa")
	assert.Equal(t, float64(12), prices["usa"]["facebook"]["virtual51"].Cost)
}
