package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"courtyard/internal/apperr"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

var paymentCols = []string{"id", "booking_id", "subscription_id", "amount_cents", "mode", "recorded_by", "created_at"}

func expectTxOpen(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout = '3s'")).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestAddBookingPayment(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	now := time.Now()

	expectTxOpen(mock)
	mock.ExpectQuery("SELECT total_cents, status FROM bookings").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"total_cents", "status"}).
			AddRow(int64(120000), "booked"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount_cents), 0)")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(50000)))
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(10, int64(70000), "upi", 7).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(2, 10, nil, int64(70000), "upi", 7, now))
	mock.ExpectExec("UPDATE bookings").
		WithArgs(int64(120000), "completed", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	receipt, err := repo.AddBookingPayment(context.Background(), 10, 70000, "upi", 7)
	require.NoError(t, err)
	require.Equal(t, int64(0), receipt.BalanceCents)
	require.Equal(t, "completed", receipt.PaymentStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddBookingPaymentOverpay(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	expectTxOpen(mock)
	mock.ExpectQuery("SELECT total_cents, status FROM bookings").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"total_cents", "status"}).
			AddRow(int64(120000), "booked"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount_cents), 0)")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(100000)))
	mock.ExpectRollback()

	_, err := repo.AddBookingPayment(context.Background(), 10, 30000, "cash", 7)
	require.True(t, apperr.IsValidation(err))
}

func TestAddBookingPaymentCancelled(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	expectTxOpen(mock)
	mock.ExpectQuery("SELECT total_cents, status FROM bookings").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"total_cents", "status"}).
			AddRow(int64(120000), "cancelled"))
	mock.ExpectRollback()

	_, err := repo.AddBookingPayment(context.Background(), 10, 10000, "cash", 7)
	require.True(t, apperr.IsStateError(err))
}

func TestAddSubscriptionPaymentCountsCurrentPeriodOnly(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	now := time.Now()

	expectTxOpen(mock)
	mock.ExpectQuery("SELECT final_price_cents, status FROM subscriptions").
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"final_price_cents", "status"}).
			AddRow(int64(80000), "active"))
	// Pre-renewal ledger rows fall before billed_from and do not count.
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(0)))
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(11, int64(30000), "card", 7).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(3, nil, 11, int64(30000), "card", 7, now))
	mock.ExpectExec("UPDATE subscriptions").
		WithArgs(int64(30000), "received", 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	receipt, err := repo.AddSubscriptionPayment(context.Background(), 11, 30000, "card", 7)
	require.NoError(t, err)
	require.Equal(t, int64(50000), receipt.BalanceCents)
	require.Equal(t, "received", receipt.PaymentStatus)
}

func TestAddPaymentRejectsNonPositiveAmount(t *testing.T) {
	repo, _, closer := setupMock(t)
	defer closer()

	_, err := repo.AddBookingPayment(context.Background(), 10, 0, "cash", 7)
	require.True(t, apperr.IsValidation(err))

	_, err = repo.AddSubscriptionPayment(context.Background(), 11, -5, "cash", 7)
	require.True(t, apperr.IsValidation(err))
}
