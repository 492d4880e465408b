package cryptopay

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

const (
	StatusPaid     = "paid"
	StatusPaidOver = "paid_over"
)

var (
	ErrInvalidSignature = errors.New("invalid callback signature")
	ErrProcessorFailed  = errors.New("payment processor request failed")
)

type Config struct {
	BaseURL     string
	MerchantID  string
	APIKey      string
	SuccessURL  string
	CallbackURL string
	Timeout     time.Duration
}

type Invoice struct {
	InvoiceURL      string
	ProviderOrderID string
}

type Callback struct {
	Status   string
	Amount   decimal.Decimal
	Currency string
	OrderID  string
	Payer    string
}

// Client builds signed requests to the crypto-payment processor and
// verifies its webhook callbacks.
type Client struct {
	http    *resty.Client
	logger  *logging.ZapLogger
	cfg     Config
	orderID func() string
}

func NewClient(cfg Config, logger *logging.ZapLogger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	return &Client{
		http:    httpClient,
		logger:  logger,
		cfg:     cfg,
		orderID: func() string { return uuid.NewString() },
	}
}

type invoiceRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	OrderID     string `json:"order_id"`
	URLSuccess  string `json:"url_success"`
	URLCallback string `json:"url_callback"`
}

type invoiceResponse struct {
	Result struct {
		URL string `json:"url"`
	} `json:"result"`
}

// CreateInvoice registers a payment with the processor. The order id is
// generated locally; the request body is signed with the merchant key
// and sent alongside the merchant id as headers.
func (c *Client) CreateInvoice(ctx context.Context, amount decimal.Decimal, currency string) (Invoice, error) {
	orderID := c.orderID()
	body, err := json.Marshal(invoiceRequest{
		Amount:      amount.StringFixed(2),
		Currency:    currency,
		OrderID:     orderID,
		URLSuccess:  c.cfg.SuccessURL,
		URLCallback: c.cfg.CallbackURL,
	})
	if err != nil {
		return Invoice{}, fmt.Errorf("error marshalling invoice request: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("merchant", c.cfg.MerchantID).
		SetHeader("sign", sign(body, c.cfg.APIKey)).
		SetBody(body).
		Post("/v1/payment")
	if err != nil {
		return Invoice{}, fmt.Errorf("%w: %w", ErrProcessorFailed, err)
	}
	if resp.IsError() {
		c.logger.ErrorCtx(ctx, "processor rejected invoice",
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return Invoice{}, fmt.Errorf("%w: status %d: %s", ErrProcessorFailed, resp.StatusCode(), resp.Body())
	}

	var parsed invoiceResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return Invoice{}, fmt.Errorf("error unmarshalling invoice response: %w", err)
	}
	if parsed.Result.URL == "" {
		return Invoice{}, fmt.Errorf("%w: no invoice url in response", ErrProcessorFailed)
	}
	return Invoice{
		InvoiceURL:      parsed.Result.URL,
		ProviderOrderID: orderID,
	}, nil
}

// VerifyCallback authenticates a webhook body. The processor signs
// everything except the sign field itself, so that field is stripped
// and the signature recomputed over the canonical remainder. A mismatch
// rejects the callback outright.
func (c *Client) VerifyCallback(raw []byte) (Callback, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Callback{}, fmt.Errorf("error unmarshalling callback: %w", err)
	}
	supplied, _ := fields["sign"].(string)
	if supplied == "" {
		return Callback{}, ErrInvalidSignature
	}
	delete(fields, "sign")

	canonical, err := json.Marshal(fields)
	if err != nil {
		return Callback{}, fmt.Errorf("error marshalling callback fields: %w", err)
	}
	if !signatureEqual(sign(canonical, c.cfg.APIKey), supplied) {
		return Callback{}, ErrInvalidSignature
	}

	var parsed struct {
		Status   string `json:"status"`
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
		OrderID  string `json:"order_id"`
		Payer    string `json:"payer_email"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Callback{}, fmt.Errorf("error unmarshalling callback fields: %w", err)
	}
	amount, err := decimal.NewFromString(parsed.Amount)
	if err != nil {
		return Callback{}, fmt.Errorf("error parsing callback amount: %w", err)
	}
	return Callback{
		Status:   parsed.Status,
		Amount:   amount,
		Currency: parsed.Currency,
		OrderID:  parsed.OrderID,
		Payer:    parsed.Payer,
	}, nil
}

// Paid reports whether a callback status credits the payer.
func Paid(status string) bool {
	return status == StatusPaid || status == StatusPaidOver
}
