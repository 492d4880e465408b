package dbrepository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"sms-market/internal/smsmarket/data"
	"sms-market/pkg/logging"
)

type DBStorage interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) (pgx.Row, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryValue(ctx context.Context, query string, args []any, dest []any) error
}

type DBRepository struct {
	storage DBStorage
	logger  *logging.ZapLogger
}

func New(storage DBStorage, logger *logging.ZapLogger) *DBRepository {
	return &DBRepository{
		storage: storage,
		logger:  logger,
	}
}

//go:embed sql/select_balance.sql
var selectBalanceQuery string

func (db *DBRepository) GetBalance(ctx context.Context, email string) (data.BalanceRecord, error) {
	record := data.BalanceRecord{
		Email: email,
	}
	err := db.storage.QueryValue(
		ctx,
		selectBalanceQuery,
		[]any{email},
		[]any{&record.Amount, &record.Currency, &record.LastUpdated},
	)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return data.BalanceRecord{}, data.ErrNotFound
		default:
			return data.BalanceRecord{}, handleSQLError(err)
		}
	}
	return record, nil
}

//go:embed sql/upsert_balance.sql
var upsertBalanceQuery string

// CreditBalance adds amount to the email's balance record, creating the
// record on first credit.
func (db *DBRepository) CreditBalance(ctx context.Context, email string, amount decimal.Decimal, currency string) error {
	_, err := db.storage.Exec(ctx, upsertBalanceQuery, email, amount, currency, time.Now())
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/insert_payment.sql
var insertPaymentQuery string

func (db *DBRepository) InsertPayment(ctx context.Context, payment data.PaymentRecord) error {
	_, err := db.storage.Exec(
		ctx,
		insertPaymentQuery,
		payment.ProviderOrderID,
		payment.Email,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CreatedAt,
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_payments.sql
var selectPaymentsQuery string

func (db *DBRepository) GetAllUserPayments(ctx context.Context, email string) ([]data.PaymentRecord, error) {
	rows, err := db.storage.Query(ctx, selectPaymentsQuery, email)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.PaymentRecord, 0)
	for rows.Next() {
		payment := data.PaymentRecord{
			Email: email,
		}
		err := rows.Scan(
			&payment.ProviderOrderID,
			&payment.Amount,
			&payment.Currency,
			&payment.Status,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

func handleSQLError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return data.ErrUniqueConstraintViolation
		}
	}
	return fmt.Errorf("repository query failed: %w", err)
}
