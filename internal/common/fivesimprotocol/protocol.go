package fivesimprotocol

import "time"

const (
	NullStatus     = OrderStatus("")
	PendingStatus  = OrderStatus("PENDING")
	ReceivedStatus = OrderStatus("RECEIVED")
	CanceledStatus = OrderStatus("CANCELED")
	BannedStatus   = OrderStatus("BANNED")
	FinishedStatus = OrderStatus("FINISHED")
	TimeoutStatus  = OrderStatus("TIMEOUT")
)

type OrderStatus string

// Error strings the vendor returns as plain-text bodies. The vendor has
// no formal error taxonomy, so these literals are the contract; they are
// matched in exactly one place (service.translateVendorError).
const (
	ErrTextOrderNotFound = "order not found"
	ErrTextOrderExpired  = "order expired"
	// The cancel rejection appears with both spellings in the wild.
	ErrTextAlreadyCanceled  = "already canceled"
	ErrTextAlreadyCancelled = "already cancelled"
	ErrTextReuseNotPossible = "reuse not possible"
	ErrTextReuseFalse       = "reuse false"
	ErrTextReuseExpired     = "reuse expired"
	ErrTextNotEnoughBalance = "not enough user balance"
	ErrTextNoFreePhones     = "no free phones"
)

type SMS struct {
	CreatedAt time.Time `json:"created_at"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Code      string    `json:"code"`
}

type Order struct {
	ID        int64       `json:"id"`
	Phone     string      `json:"phone"`
	Country   string      `json:"country"`
	Operator  string      `json:"operator"`
	Product   string      `json:"product"`
	Price     float64     `json:"price"`
	Status    OrderStatus `json:"status"`
	SMS       []SMS       `json:"sms"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires"`
}

// PriceLeaf is the innermost record of the guest price listing.
// Rate is omitted by the vendor for operators without a success metric.
type PriceLeaf struct {
	Cost  float64 `json:"cost"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// PriceMap is the vendor's nested price listing:
// country -> product -> operator -> leaf.
type PriceMap map[string]map[string]map[string]PriceLeaf

type Balance struct {
	Balance float64 `json:"balance"`
	Rating  int     `json:"rating"`
}
