package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sms-market/internal/smsmarket/cryptopay"
	"sms-market/internal/smsmarket/data"
)

type fakeTransactionManager struct{}

func (fakeTransactionManager) DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	return f(ctx)
}

type fakeBalanceRepository struct {
	payments map[string]data.PaymentRecord
	balances map[string]decimal.Decimal
	credits  int
}

func newFakeBalanceRepository() *fakeBalanceRepository {
	return &fakeBalanceRepository{
		payments: make(map[string]data.PaymentRecord),
		balances: make(map[string]decimal.Decimal),
	}
}

func (f *fakeBalanceRepository) GetBalance(_ context.Context, email string) (data.BalanceRecord, error) {
	balance, ok := f.balances[email]
	if !ok {
		return data.BalanceRecord{}, data.ErrNotFound
	}
	return data.BalanceRecord{Email: email, Amount: balance, Currency: "NGN"}, nil
}

func (f *fakeBalanceRepository) CreditBalance(_ context.Context, email string, amount decimal.Decimal, _ string) error {
	f.credits++
	f.balances[email] = f.balances[email].Add(amount)
	return nil
}

func (f *fakeBalanceRepository) InsertPayment(_ context.Context, payment data.PaymentRecord) error {
	if _, ok := f.payments[payment.ProviderOrderID]; ok {
		return data.ErrUniqueConstraintViolation
	}
	f.payments[payment.ProviderOrderID] = payment
	return nil
}

func (f *fakeBalanceRepository) GetAllUserPayments(_ context.Context, email string) ([]data.PaymentRecord, error) {
	result := make([]data.PaymentRecord, 0)
	for _, payment := range f.payments {
		if payment.Email == email {
			result = append(result, payment)
		}
	}
	return result, nil
}

type fixedRate struct {
	rate decimal.Decimal
}

func (r fixedRate) Rate(context.Context) decimal.Decimal {
	return r.rate
}

func newTestWallet(t *testing.T, repo *fakeBalanceRepository, rate int64) *Wallet {
	t.Helper()
	return NewWallet(
		fakeTransactionManager{},
		repo,
		fixedRate{rate: decimal.NewFromInt(rate)},
		"NGN",
		newTestLogger(t),
	)
}

func TestApplyConvertsToLocalCurrency(t *testing.T) {
	repo := newFakeBalanceRepository()
	wallet := newTestWallet(t, repo, 1500)

	err := wallet.Apply(context.Background(), Credit{
		ProviderOrderID: "ord-1",
		Email:           "user@example.com",
		Amount:          decimal.NewFromInt(10),
		Currency:        "USD",
		Status:          cryptopay.StatusPaid,
	})
	require.NoError(t, err)

	record, err := wallet.GetBalance(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.True(t, record.Amount.Equal(decimal.NewFromInt(15000)), "got %s", record.Amount)
}

func TestApplyLocalCurrencySkipsConversion(t *testing.T) {
	repo := newFakeBalanceRepository()
	wallet := newTestWallet(t, repo, 1500)

	err := wallet.Apply(context.Background(), Credit{
		ProviderOrderID: "ord-2",
		Email:           "user@example.com",
		Amount:          decimal.NewFromInt(5000),
		Currency:        "NGN",
		Status:          "successful",
	})
	require.NoError(t, err)

	record, err := wallet.GetBalance(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.True(t, record.Amount.Equal(decimal.NewFromInt(5000)), "got %s", record.Amount)
}

func TestApplyIsIdempotentPerProviderOrder(t *testing.T) {
	repo := newFakeBalanceRepository()
	wallet := newTestWallet(t, repo, 1500)

	credit := Credit{
		ProviderOrderID: "ord-3",
		Email:           "user@example.com",
		Amount:          decimal.NewFromInt(10),
		Currency:        "USD",
		Status:          cryptopay.StatusPaid,
	}
	require.NoError(t, wallet.Apply(context.Background(), credit))

	err := wallet.Apply(context.Background(), credit)
	assert.ErrorIs(t, err, ErrPaymentReplayed)
	assert.Equal(t, 1, repo.credits, "replay must not credit a second time")
}

func TestApplyCallbackIgnoresNonPaidStatuses(t *testing.T) {
	repo := newFakeBalanceRepository()
	wallet := newTestWallet(t, repo, 1500)

	err := wallet.ApplyCallback(context.Background(), cryptopay.Callback{
		Status:  "cancel",
		OrderID: "ord-4",
		Payer:   "user@example.com",
		Amount:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Zero(t, repo.credits)
}

func TestGetBalanceDefaultsToZeroRecord(t *testing.T) {
	wallet := newTestWallet(t, newFakeBalanceRepository(), 1500)

	record, err := wallet.GetBalance(context.Background(), "new@example.com")
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", record.Email)
	assert.True(t, record.Amount.IsZero())
	assert.Equal(t, "NGN", record.Currency)
}
