package fivesim

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"sms-market/internal/common/fivesimprotocol"
	"sms-market/internal/smsmarket/vendors"
	"sms-market/pkg/logging"
)

const vendorName = "5sim"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the 5sim-style vendor: bearer-token auth, resources
// addressed by path segments.
type Client struct {
	http   *resty.Client
	logger *logging.ZapLogger
	cfg    Config
}

func NewClient(cfg Config, logger *logging.ZapLogger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)
	return &Client{
		http:   httpClient,
		logger: logger,
		cfg:    cfg,
	}
}

func (c *Client) Prices(ctx context.Context, country, product string) (fivesimprotocol.PriceMap, error) {
	req := c.http.R().SetContext(ctx)
	if country != "" {
		req.SetQueryParam("country", country)
	}
	if product != "" {
		req.SetQueryParam("product", product)
	}
	return execute[fivesimprotocol.PriceMap](ctx, c, req, resty.MethodGet, "/v1/guest/prices")
}

func (c *Client) BuyNumber(ctx context.Context, country, operator, product string) (fivesimprotocol.Order, error) {
	req := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"country":  country,
			"operator": operator,
			"product":  product,
		})
	return execute[fivesimprotocol.Order](ctx, c, req, resty.MethodGet, "/v1/user/buy/activation/{country}/{operator}/{product}")
}

func (c *Client) Check(ctx context.Context, orderID int64) (fivesimprotocol.Order, error) {
	return c.orderAction(ctx, orderID, "check")
}

func (c *Client) Cancel(ctx context.Context, orderID int64) (fivesimprotocol.Order, error) {
	return c.orderAction(ctx, orderID, "cancel")
}

func (c *Client) Finish(ctx context.Context, orderID int64) (fivesimprotocol.Order, error) {
	return c.orderAction(ctx, orderID, "finish")
}

func (c *Client) Ban(ctx context.Context, orderID int64) (fivesimprotocol.Order, error) {
	return c.orderAction(ctx, orderID, "ban")
}

func (c *Client) Reuse(ctx context.Context, product, number string) (fivesimprotocol.Order, error) {
	req := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"product": product,
			"number":  number,
		})
	return execute[fivesimprotocol.Order](ctx, c, req, resty.MethodGet, "/v1/user/reuse/{product}/{number}")
}

func (c *Client) Balance(ctx context.Context) (fivesimprotocol.Balance, error) {
	req := c.http.R().SetContext(ctx)
	return execute[fivesimprotocol.Balance](ctx, c, req, resty.MethodGet, "/v1/user/profile")
}

func (c *Client) orderAction(ctx context.Context, orderID int64, action string) (fivesimprotocol.Order, error) {
	req := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"action": action,
			"id":     strconv.FormatInt(orderID, 10),
		})
	return execute[fivesimprotocol.Order](ctx, c, req, resty.MethodGet, "/v1/user/{action}/{id}")
}

func execute[T any](ctx context.Context, c *Client, req *resty.Request, method, url string) (T, error) {
	var res T
	resp, err := req.Execute(method, url)
	if err != nil {
		return res, fmt.Errorf("%w: %w", vendors.ErrUnreachable, err)
	}
	if resp.IsError() {
		c.logger.DebugCtx(ctx, "vendor rejected request",
			zap.String("vendor", vendorName),
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return res, vendors.NewRejected(vendorName, resp.StatusCode(), resp.Body())
	}
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		c.logger.ErrorCtx(ctx, "error unmarshalling vendor response",
			zap.String("vendor", vendorName),
			zap.Error(err),
		)
		return res, fmt.Errorf("%w: %w", vendors.ErrMalformed, err)
	}
	return res, nil
}
