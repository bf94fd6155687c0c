package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"courtyard/internal/apperr"
	"courtyard/internal/db"
	"courtyard/internal/pricing"
)

type Repository interface {
	// AddBookingPayment appends a ledger row and recomputes the booking's
	// paid/balance from the ledger sum under the booking's row lock.
	AddBookingPayment(ctx context.Context, bookingID int, amountCents int64, mode string, recordedBy int) (*Receipt, error)

	// AddSubscriptionPayment does the same for a subscription. Only rows
	// recorded since the current billing period (billed_from) count, so a
	// renewal starts from a clean slate without rewriting history.
	AddSubscriptionPayment(ctx context.Context, subscriptionID int, amountCents int64, mode string, recordedBy int) (*Receipt, error)

	ListForBooking(ctx context.Context, bookingID int) ([]Payment, error)
	ListForSubscription(ctx context.Context, subscriptionID int) ([]Payment, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const paymentColumns = `id, booking_id, subscription_id, amount_cents, mode, recorded_by, created_at`

func (r *repository) AddBookingPayment(ctx context.Context, bookingID int, amountCents int64, mode string, recordedBy int) (*Receipt, error) {
	if amountCents <= 0 {
		return nil, apperr.New(apperr.Validation, "payment amount must be positive")
	}

	var receipt Receipt

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		var parent struct {
			TotalCents int64  `db:"total_cents"`
			Status     string `db:"status"`
		}
		err := tx.QueryRowxContext(ctx, `
			SELECT total_cents, status FROM bookings WHERE id = $1 FOR UPDATE
		`, bookingID).StructScan(&parent)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Newf(apperr.NotFound, "booking %d not found", bookingID)
		}
		if err != nil {
			return err
		}
		if parent.Status == "cancelled" {
			return apperr.New(apperr.StateError, "cannot pay against a cancelled booking")
		}

		var paid int64
		err = tx.QueryRowxContext(ctx, `
			SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE booking_id = $1
		`, bookingID).Scan(&paid)
		if err != nil {
			return err
		}

		newPaid := paid + amountCents
		if err := pricing.CheckPayment(parent.TotalCents, newPaid); err != nil {
			return err
		}

		var p Payment
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO payments (booking_id, amount_cents, mode, recorded_by)
			VALUES ($1, $2, $3, $4)
			RETURNING `+paymentColumns+`
		`, bookingID, amountCents, mode, recordedBy).StructScan(&p)
		if err != nil {
			return err
		}

		status := pricing.PaymentStatusFor(parent.TotalCents, newPaid)
		_, err = tx.ExecContext(ctx, `
			UPDATE bookings
			SET paid_cents = $1, balance_cents = total_cents - $1,
			    payment_status = $2, updated_at = NOW()
			WHERE id = $3
		`, newPaid, status, bookingID)
		if err != nil {
			return err
		}

		receipt = Receipt{
			Payment:       &p,
			TotalCents:    parent.TotalCents,
			PaidCents:     newPaid,
			BalanceCents:  parent.TotalCents - newPaid,
			PaymentStatus: string(status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &receipt, nil
}

func (r *repository) AddSubscriptionPayment(ctx context.Context, subscriptionID int, amountCents int64, mode string, recordedBy int) (*Receipt, error) {
	if amountCents <= 0 {
		return nil, apperr.New(apperr.Validation, "payment amount must be positive")
	}

	var receipt Receipt

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		var parent struct {
			FinalPriceCents int64  `db:"final_price_cents"`
			Status          string `db:"status"`
		}
		err := tx.QueryRowxContext(ctx, `
			SELECT final_price_cents, status FROM subscriptions WHERE id = $1 FOR UPDATE
		`, subscriptionID).StructScan(&parent)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Newf(apperr.NotFound, "subscription %d not found", subscriptionID)
		}
		if err != nil {
			return err
		}
		if parent.Status == "terminated" {
			return apperr.New(apperr.StateError, "cannot pay against a terminated subscription")
		}

		var paid int64
		err = tx.QueryRowxContext(ctx, `
			SELECT COALESCE(SUM(p.amount_cents), 0)
			FROM payments p
			JOIN subscriptions s ON s.id = p.subscription_id
			WHERE p.subscription_id = $1 AND p.created_at >= s.billed_from
		`, subscriptionID).Scan(&paid)
		if err != nil {
			return err
		}

		newPaid := paid + amountCents
		if err := pricing.CheckPayment(parent.FinalPriceCents, newPaid); err != nil {
			return err
		}

		var p Payment
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO payments (subscription_id, amount_cents, mode, recorded_by)
			VALUES ($1, $2, $3, $4)
			RETURNING `+paymentColumns+`
		`, subscriptionID, amountCents, mode, recordedBy).StructScan(&p)
		if err != nil {
			return err
		}

		status := pricing.PaymentStatusFor(parent.FinalPriceCents, newPaid)
		_, err = tx.ExecContext(ctx, `
			UPDATE subscriptions
			SET paid_cents = $1, balance_cents = final_price_cents - $1,
			    payment_status = $2, updated_at = NOW()
			WHERE id = $3
		`, newPaid, status, subscriptionID)
		if err != nil {
			return err
		}

		receipt = Receipt{
			Payment:       &p,
			TotalCents:    parent.FinalPriceCents,
			PaidCents:     newPaid,
			BalanceCents:  parent.FinalPriceCents - newPaid,
			PaymentStatus: string(status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &receipt, nil
}

func (r *repository) ListForBooking(ctx context.Context, bookingID int) ([]Payment, error) {
	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1 ORDER BY id
	`, bookingID)
	if err != nil {
		return nil, db.Translate(err)
	}
	return payments, nil
}

func (r *repository) ListForSubscription(ctx context.Context, subscriptionID int) ([]Payment, error) {
	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+` FROM payments WHERE subscription_id = $1 ORDER BY id
	`, subscriptionID)
	if err != nil {
		return nil, db.Translate(err)
	}
	return payments, nil
}
