package smsman

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"sms-market/internal/common/smsmanprotocol"
	"sms-market/internal/smsmarket/vendors"
	"sms-market/pkg/logging"
)

const vendorName = "sms-man"

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the sms-man-style vendor: one endpoint per action
// keyword, token passed as a query parameter.
type Client struct {
	http   *resty.Client
	logger *logging.ZapLogger
	cfg    Config
}

func NewClient(cfg Config, logger *logging.ZapLogger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetQueryParam("token", cfg.Token).
		SetTimeout(cfg.Timeout)
	return &Client{
		http:   httpClient,
		logger: logger,
		cfg:    cfg,
	}
}

func (c *Client) GetNumber(ctx context.Context, countryID, applicationID int) (smsmanprotocol.Number, error) {
	params := map[string]string{
		"country_id":     strconv.Itoa(countryID),
		"application_id": strconv.Itoa(applicationID),
	}
	return execute[smsmanprotocol.Number](ctx, c, smsmanprotocol.GetNumberAction, params)
}

func (c *Client) SetStatus(ctx context.Context, requestID int64, status string) (smsmanprotocol.Status, error) {
	params := map[string]string{
		"request_id": strconv.FormatInt(requestID, 10),
		"status":     status,
	}
	return execute[smsmanprotocol.Status](ctx, c, smsmanprotocol.SetStatusAction, params)
}

func (c *Client) GetStatus(ctx context.Context, requestID int64) (smsmanprotocol.Status, error) {
	params := map[string]string{
		"request_id": strconv.FormatInt(requestID, 10),
	}
	return execute[smsmanprotocol.Status](ctx, c, smsmanprotocol.GetStatusAction, params)
}

func (c *Client) GetPrices(ctx context.Context) ([]smsmanprotocol.PriceRow, error) {
	return execute[[]smsmanprotocol.PriceRow](ctx, c, smsmanprotocol.GetPricesAction, nil)
}

func (c *Client) GetBalance(ctx context.Context) (smsmanprotocol.Balance, error) {
	return execute[smsmanprotocol.Balance](ctx, c, smsmanprotocol.GetBalanceAction, nil)
}

func execute[T any](ctx context.Context, c *Client, action string, params map[string]string) (T, error) {
	var res T
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetPathParam("action", action).
		Get("/control/{action}")
	if err != nil {
		return res, fmt.Errorf("%w: %w", vendors.ErrUnreachable, err)
	}
	if resp.IsError() {
		c.logger.DebugCtx(ctx, "vendor rejected request",
			zap.String("vendor", vendorName),
			zap.String("action", action),
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return res, vendors.NewRejected(vendorName, resp.StatusCode(), resp.Body())
	}
	// The vendor answers 200 even for failures and signals them in the
	// body, so probe for the error shape first.
	var vendorErr smsmanprotocol.Error
	if err := json.Unmarshal(resp.Body(), &vendorErr); err == nil && vendorErr.ErrorCode != "" {
		return res, vendors.NewRejected(vendorName, resp.StatusCode(), resp.Body())
	}
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		c.logger.ErrorCtx(ctx, "error unmarshalling vendor response",
			zap.String("vendor", vendorName),
			zap.String("action", action),
			zap.Error(err),
		)
		return res, fmt.Errorf("%w: %w", vendors.ErrMalformed, err)
	}
	return res, nil
}
