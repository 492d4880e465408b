package clientprotocol

import "time"

const (
	Null     OrderStatus = ""
	Pending  OrderStatus = "PENDING"
	Received OrderStatus = "RECEIVED"
	Canceled OrderStatus = "CANCELED"
	Banned   OrderStatus = "BANNED"
	Finished OrderStatus = "FINISHED"
	Timeout  OrderStatus = "TIMEOUT"
)

type OrderStatus string

// PriceEntry is the uniform flattened record the frontend consumes,
// regardless of which vendor produced the underlying listing.
type PriceEntry struct {
	Country string  `json:"country"`
	Title   string  `json:"title"`
	ID      string  `json:"id"`
	Price   float64 `json:"price"`
	Stock   int     `json:"stock"`
	Rate    float64 `json:"rate"`
}

type Order struct {
	OrderID     string      `json:"orderId"`
	PhoneNumber string      `json:"phoneNumber"`
	Vendor      string      `json:"vendor"`
	Country     string      `json:"country"`
	Operator    string      `json:"operator"`
	Product     string      `json:"product"`
	PriceLocal  float64     `json:"priceLocal"`
	Currency    string      `json:"currency"`
	Status      OrderStatus `json:"status"`
	SMSCode     string      `json:"smsCode,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	Reused      bool        `json:"reused"`
}

// VendorBalance is our remaining credit at one upstream vendor.
type VendorBalance struct {
	Vendor string  `json:"vendor"`
	Amount float64 `json:"amount"`
}

type Balance struct {
	Email       string    `json:"email"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type Invoice struct {
	InvoiceURL      string `json:"invoiceUrl"`
	ProviderOrderID string `json:"providerOrderId"`
}

type Checkout struct {
	CheckoutURL string `json:"checkoutUrl"`
	TxRef       string `json:"txRef"`
}

type Rate struct {
	Pair string  `json:"pair"`
	Rate float64 `json:"rate"`
}

type Error struct {
	Error string `json:"error"`
}
