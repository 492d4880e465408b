package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sms-market/internal/smsmarket/cryptopay"
	"sms-market/internal/smsmarket/data"
	"sms-market/pkg/logging"
)

// Wallet owns the user balance records. Credits happen only on verified
// provider events, and each provider order id is recorded
// insert-if-absent before crediting so a replayed callback cannot
// credit twice.
type Wallet struct {
	transactionManager TransactionManager
	repository         BalanceRepository
	rates              RateProvider
	logger             *logging.ZapLogger
	localCurrency      string
}

func NewWallet(
	transactionManager TransactionManager,
	repository BalanceRepository,
	rates RateProvider,
	localCurrency string,
	logger *logging.ZapLogger,
) *Wallet {
	return &Wallet{
		transactionManager: transactionManager,
		repository:         repository,
		rates:              rates,
		logger:             logger,
		localCurrency:      localCurrency,
	}
}

type Credit struct {
	ProviderOrderID string
	Email           string
	Amount          decimal.Decimal
	Currency        string
	Status          string
}

// Apply converts the credit to the local currency and applies it inside
// one transaction. ErrPaymentReplayed means the provider order id was
// seen before; the balance is untouched.
func (w *Wallet) Apply(ctx context.Context, credit Credit) error {
	localAmount := credit.Amount
	if credit.Currency != w.localCurrency {
		localAmount = credit.Amount.Mul(w.rates.Rate(ctx))
	}
	w.logger.InfoCtx(ctx, "crediting balance",
		zap.String("providerOrderID", credit.ProviderOrderID),
		zap.String("amount", localAmount.String()),
	)
	err := w.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		err := w.repository.InsertPayment(ctx, data.PaymentRecord{
			ProviderOrderID: credit.ProviderOrderID,
			Email:           credit.Email,
			Amount:          localAmount,
			Currency:        w.localCurrency,
			Status:          credit.Status,
			CreatedAt:       time.Now(),
		})
		if err != nil {
			switch {
			case errors.Is(err, data.ErrUniqueConstraintViolation):
				return ErrPaymentReplayed
			default:
				return fmt.Errorf("error recording payment: %w", err)
			}
		}
		if err := w.repository.CreditBalance(ctx, credit.Email, localAmount, w.localCurrency); err != nil {
			return fmt.Errorf("error crediting balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return err //nolint:wrapcheck // unnecessary
	}
	return nil
}

// ApplyCallback credits a verified crypto callback. Non-paid statuses
// are acknowledged without touching the balance.
func (w *Wallet) ApplyCallback(ctx context.Context, callback cryptopay.Callback) error {
	if !cryptopay.Paid(callback.Status) {
		w.logger.DebugCtx(ctx, "ignoring non-paid callback",
			zap.String("status", callback.Status),
			zap.String("providerOrderID", callback.OrderID),
		)
		return nil
	}
	return w.Apply(ctx, Credit{
		ProviderOrderID: callback.OrderID,
		Email:           callback.Payer,
		Amount:          callback.Amount,
		Currency:        callback.Currency,
		Status:          callback.Status,
	})
}

func (w *Wallet) GetBalance(ctx context.Context, email string) (data.BalanceRecord, error) {
	record, err := w.repository.GetBalance(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return data.BalanceRecord{
				Email:    email,
				Amount:   decimal.Zero,
				Currency: w.localCurrency,
			}, nil
		default:
			return data.BalanceRecord{}, fmt.Errorf("error getting balance: %w", err)
		}
	}
	return record, nil
}

func (w *Wallet) GetAllUserPayments(ctx context.Context, email string) ([]data.PaymentRecord, error) {
	payments, err := w.repository.GetAllUserPayments(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error getting payments: %w", err)
	}
	return payments, nil
}
