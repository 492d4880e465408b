package cardpay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sms-market/pkg/logging"
)

const StatusSuccessful = "successful"

var (
	ErrGatewayFailed      = errors.New("payment gateway request failed")
	ErrTransactionUnknown = errors.New("transaction not found at gateway")
)

type Config struct {
	BaseURL     string
	SecretKey   string
	RedirectURL string
	Timeout     time.Duration
}

type Checkout struct {
	CheckoutURL string
	TxRef       string
}

type Transaction struct {
	TxRef    string
	Status   string
	Amount   decimal.Decimal
	Currency string
	Email    string
}

// Client talks to the card/bank gateway: bearer-token auth, hosted
// checkout links, server-side verification by transaction reference.
type Client struct {
	http   *resty.Client
	logger *logging.ZapLogger
	cfg    Config
	txRef  func() string
}

func NewClient(cfg Config, logger *logging.ZapLogger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	return &Client{
		http:   httpClient,
		logger: logger,
		cfg:    cfg,
		txRef:  func() string { return "smk-" + uuid.NewString() },
	}
}

func (c *Client) CreateCheckout(ctx context.Context, amount decimal.Decimal, currency, email string) (Checkout, error) {
	txRef := c.txRef()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"tx_ref":       txRef,
			"amount":       amount.StringFixed(2),
			"currency":     currency,
			"redirect_url": c.cfg.RedirectURL,
			"customer": map[string]string{
				"email": email,
			},
		}).
		Post("/v3/payments")
	if err != nil {
		return Checkout{}, fmt.Errorf("%w: %w", ErrGatewayFailed, err)
	}
	if resp.IsError() {
		c.logger.ErrorCtx(ctx, "gateway rejected checkout",
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return Checkout{}, fmt.Errorf("%w: status %d: %s", ErrGatewayFailed, resp.StatusCode(), resp.Body())
	}

	var parsed struct {
		Data struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return Checkout{}, fmt.Errorf("error unmarshalling checkout response: %w", err)
	}
	if parsed.Data.Link == "" {
		return Checkout{}, fmt.Errorf("%w: no checkout link in response", ErrGatewayFailed)
	}
	return Checkout{
		CheckoutURL: parsed.Data.Link,
		TxRef:       txRef,
	}, nil
}

// VerifyTransaction re-reads the transaction from the gateway. Crediting
// decisions rely on this server-side read, never on redirect parameters.
func (c *Client) VerifyTransaction(ctx context.Context, txRef string) (Transaction, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("tx_ref", txRef).
		Get("/v3/transactions/verify_by_reference")
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %w", ErrGatewayFailed, err)
	}
	if resp.StatusCode() == 404 {
		return Transaction{}, ErrTransactionUnknown
	}
	if resp.IsError() {
		return Transaction{}, fmt.Errorf("%w: status %d: %s", ErrGatewayFailed, resp.StatusCode(), resp.Body())
	}

	var parsed struct {
		Data struct {
			TxRef    string  `json:"tx_ref"`
			Status   string  `json:"status"`
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
			Customer struct {
				Email string `json:"email"`
			} `json:"customer"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return Transaction{}, fmt.Errorf("error unmarshalling transaction response: %w", err)
	}
	return Transaction{
		TxRef:    parsed.Data.TxRef,
		Status:   parsed.Data.Status,
		Amount:   decimal.NewFromFloat(parsed.Data.Amount),
		Currency: parsed.Data.Currency,
		Email:    parsed.Data.Customer.Email,
	}, nil
}
