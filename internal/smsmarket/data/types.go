package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceRecord struct {
	LastUpdated time.Time
	Email       string
	Currency    string
	Amount      decimal.Decimal
}

// PaymentRecord doubles as the idempotency record for webhook credits:
// ProviderOrderID is unique, and crediting happens only when the insert
// of this record succeeds.
type PaymentRecord struct {
	CreatedAt       time.Time
	ProviderOrderID string
	Email           string
	Currency        string
	Status          string
	Amount          decimal.Decimal
}
