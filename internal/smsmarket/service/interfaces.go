package service

import (
	"context"

	"github.com/shopspring/decimal"

	"sms-market/internal/common/fivesimprotocol"
	"sms-market/internal/common/smsmanprotocol"
	"sms-market/internal/smsmarket/data"
)

type FiveSimClient interface {
	Prices(ctx context.Context, country, product string) (fivesimprotocol.PriceMap, error)
	BuyNumber(ctx context.Context, country, operator, product string) (fivesimprotocol.Order, error)
	Check(ctx context.Context, orderID int64) (fivesimprotocol.Order, error)
	Cancel(ctx context.Context, orderID int64) (fivesimprotocol.Order, error)
	Finish(ctx context.Context, orderID int64) (fivesimprotocol.Order, error)
	Ban(ctx context.Context, orderID int64) (fivesimprotocol.Order, error)
	Reuse(ctx context.Context, product, number string) (fivesimprotocol.Order, error)
	Balance(ctx context.Context) (fivesimprotocol.Balance, error)
}

type SMSManClient interface {
	GetNumber(ctx context.Context, countryID, applicationID int) (smsmanprotocol.Number, error)
	SetStatus(ctx context.Context, requestID int64, status string) (smsmanprotocol.Status, error)
	GetStatus(ctx context.Context, requestID int64) (smsmanprotocol.Status, error)
	GetPrices(ctx context.Context) ([]smsmanprotocol.PriceRow, error)
	GetBalance(ctx context.Context) (smsmanprotocol.Balance, error)
}

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

type BalanceRepository interface {
	GetBalance(ctx context.Context, email string) (data.BalanceRecord, error)
	CreditBalance(ctx context.Context, email string, amount decimal.Decimal, currency string) error
	InsertPayment(ctx context.Context, payment data.PaymentRecord) error
	GetAllUserPayments(ctx context.Context, email string) ([]data.PaymentRecord, error)
}

type RateProvider interface {
	Rate(ctx context.Context) decimal.Decimal
}
