package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"courtyard/internal/apperr"
	"courtyard/internal/court"
	"courtyard/internal/db"
	"courtyard/internal/occupancy"
	"courtyard/internal/pricing"
	"courtyard/internal/timeslot"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const bookingColumns = `
	id, court_id, member_id, date, time_slot, slots_booked, status,
	total_cents, discount_cents, paid_cents, balance_cents, payment_status,
	created_at, updated_at
`

type courtRow struct {
	ID               int          `db:"id"`
	Status           court.Status `db:"status"`
	HourlyPriceCents int64        `db:"hourly_price_cents"`
	Capacity         int          `db:"capacity"`
}

func loadCourt(ctx context.Context, q sqlx.QueryerContext, courtID int) (*courtRow, error) {
	var c courtRow
	err := sqlx.GetContext(ctx, q, &c, `
		SELECT c.id, c.status, s.hourly_price_cents, s.capacity
		FROM courts c
		JOIN sports s ON c.sport_id = s.id
		WHERE c.id = $1
	`, courtID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "court %d not found", courtID)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *courtRow) blockedStatus() string {
	if c.Status.Blocking() {
		return string(c.Status)
	}
	return ""
}

type snapshotBooking struct {
	ID          int       `db:"id"`
	Date        time.Time `db:"date"`
	TimeSlot    string    `db:"time_slot"`
	SlotsBooked int       `db:"slots_booked"`
	Status      Status    `db:"status"`
}

type snapshotSubscription struct {
	ID        int       `db:"id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"current_end_date"`
	TimeSlot  string    `db:"time_slot"`
}

// snapshot reads the occupancy inputs for one court and date. The same
// queries back the read-only preview (q = pool) and the admission check
// inside a write transaction (q = tx), so preview and enforcement cannot
// drift.
func snapshot(ctx context.Context, q sqlx.QueryerContext, courtID int, date time.Time) ([]occupancy.BookingUnit, []occupancy.SubscriptionUnit, error) {
	var rows []snapshotBooking
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT id, date, time_slot, slots_booked, status
		FROM bookings
		WHERE court_id = $1 AND date = $2
	`, courtID, date)
	if err != nil {
		return nil, nil, err
	}

	bookings := make([]occupancy.BookingUnit, 0, len(rows))
	for _, b := range rows {
		iv, err := timeslot.ParseSlot(b.TimeSlot)
		if err != nil {
			iv = timeslot.Interval{}
		}
		bookings = append(bookings, occupancy.BookingUnit{
			ID:          b.ID,
			Date:        b.Date,
			TimeSlot:    b.TimeSlot,
			Slot:        iv,
			SlotsBooked: b.SlotsBooked,
			Cancelled:   b.Status == StatusCancelled,
		})
	}

	var subRows []snapshotSubscription
	err = sqlx.SelectContext(ctx, q, &subRows, `
		SELECT id, start_date, current_end_date, time_slot
		FROM subscriptions
		WHERE court_id = $1
		  AND status = 'active'
		  AND start_date <= $2
		  AND current_end_date >= $2
	`, courtID, date)
	if err != nil {
		return nil, nil, err
	}

	subs := make([]occupancy.SubscriptionUnit, 0, len(subRows))
	for _, s := range subRows {
		iv, err := timeslot.ParseSlot(s.TimeSlot)
		if err != nil {
			iv = timeslot.Interval{}
		}
		subs = append(subs, occupancy.SubscriptionUnit{
			ID:        s.ID,
			StartDate: s.StartDate,
			EndDate:   s.EndDate,
			TimeSlot:  s.TimeSlot,
			Slot:      iv,
		})
	}

	return bookings, subs, nil
}

func (r *repository) Snapshot(ctx context.Context, courtID int, date time.Time) ([]occupancy.BookingUnit, []occupancy.SubscriptionUnit, error) {
	bookings, subs, err := snapshot(ctx, r.db, courtID, date)
	if err != nil {
		return nil, nil, db.Translate(err)
	}
	return bookings, subs, nil
}

func (r *repository) CreateReservation(ctx context.Context, p CreateParams) (*Booking, error) {
	var created Booking

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := db.AdvisoryLockSlot(ctx, tx, p.CourtID, timeslot.EpochDay(p.Date)); err != nil {
			return err
		}

		c, err := loadCourt(ctx, tx, p.CourtID)
		if err != nil {
			return err
		}

		bookings, subs, err := snapshot(ctx, tx, p.CourtID, p.Date)
		if err != nil {
			return err
		}

		if err := occupancy.Admit(c.Capacity, c.blockedStatus(), p.Date, p.Slot, p.SlotsBooked, bookings, subs); err != nil {
			return err
		}

		base := pricing.BookingBase(p.Slot.Duration(), c.HourlyPriceCents, c.Capacity, p.SlotsBooked)
		lines := make([]pricing.AccessoryLine, 0, len(p.Accessories))
		for _, a := range p.Accessories {
			lines = append(lines, pricing.AccessoryLine{PriceCents: a.PriceCents, Quantity: a.Quantity})
		}
		total := pricing.BookingTotal(base, p.DiscountCents, lines)

		if err := pricing.CheckPayment(total, p.PaidCents); err != nil {
			return err
		}

		status := pricing.PaymentStatusFor(total, p.PaidCents)
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO bookings (
				court_id, member_id, date, time_slot, slots_booked, status,
				total_cents, discount_cents, paid_cents, balance_cents, payment_status
			)
			VALUES ($1, $2, $3, $4, $5, 'booked', $6, $7, $8, $9, $10)
			RETURNING `+bookingColumns+`
		`, p.CourtID, p.MemberID, p.Date, p.TimeSlot, p.SlotsBooked,
			total, p.DiscountCents, p.PaidCents, total-p.PaidCents, status,
		).StructScan(&created)
		if err != nil {
			return err
		}

		for _, a := range p.Accessories {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO booking_accessories (booking_id, name, price_cents, quantity)
				VALUES ($1, $2, $3, $4)
			`, created.ID, a.Name, a.PriceCents, a.Quantity)
			if err != nil {
				return err
			}
		}

		if p.PaidCents > 0 {
			mode := p.PaymentMode
			if mode == "" {
				mode = "cash"
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO payments (booking_id, amount_cents, mode, recorded_by)
				VALUES ($1, $2, $3, $4)
			`, created.ID, p.PaidCents, mode, p.MemberID)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func lockBooking(ctx context.Context, tx *sqlx.Tx, bookingID int) (*Booking, error) {
	var b Booking
	err := tx.QueryRowxContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`, bookingID).StructScan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "booking %d not found", bookingID)
	}
	if err != nil {
		return nil, err
	}
	if b.Status == StatusCancelled {
		return nil, apperr.New(apperr.StateError, "booking is cancelled")
	}
	return &b, nil
}

func accessoriesTotal(ctx context.Context, q sqlx.QueryerContext, bookingID int) (int64, error) {
	var total int64
	err := sqlx.GetContext(ctx, q, &total, `
		SELECT COALESCE(SUM(price_cents * quantity), 0)
		FROM booking_accessories
		WHERE booking_id = $1
	`, bookingID)
	return total, err
}

// excludeBooking drops the caller's own row from a snapshot so a move or
// extension is not counted against itself.
func excludeBooking(bookings []occupancy.BookingUnit, id int) []occupancy.BookingUnit {
	kept := bookings[:0]
	for _, b := range bookings {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	return kept
}

func (r *repository) reprice(ctx context.Context, tx *sqlx.Tx, b *Booking, c *courtRow, slot timeslot.Interval) (total int64, err error) {
	accessories, err := accessoriesTotal(ctx, tx, b.ID)
	if err != nil {
		return 0, err
	}

	base := pricing.BookingBase(slot.Duration(), c.HourlyPriceCents, c.Capacity, b.SlotsBooked)
	total = base - b.DiscountCents + accessories
	if total < 0 {
		total = 0
	}

	if err := pricing.CheckPayment(total, b.PaidCents); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) Reschedule(ctx context.Context, bookingID int, date time.Time, slotStr string, slot timeslot.Interval) (*Booking, error) {
	var updated Booking

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		// Lock both days in a stable order so two movers cannot deadlock.
		oldDay := timeslot.EpochDay(b.Date)
		newDay := timeslot.EpochDay(date)
		first, second := oldDay, newDay
		if second < first {
			first, second = second, first
		}
		if err := db.AdvisoryLockSlot(ctx, tx, b.CourtID, first); err != nil {
			return err
		}
		if second != first {
			if err := db.AdvisoryLockSlot(ctx, tx, b.CourtID, second); err != nil {
				return err
			}
		}

		c, err := loadCourt(ctx, tx, b.CourtID)
		if err != nil {
			return err
		}

		bookings, subs, err := snapshot(ctx, tx, b.CourtID, date)
		if err != nil {
			return err
		}
		bookings = excludeBooking(bookings, b.ID)

		if err := occupancy.Admit(c.Capacity, c.blockedStatus(), date, slot, b.SlotsBooked, bookings, subs); err != nil {
			return err
		}

		total, err := r.reprice(ctx, tx, b, c, slot)
		if err != nil {
			return err
		}

		return tx.QueryRowxContext(ctx, `
			UPDATE bookings
			SET date = $1, time_slot = $2, total_cents = $3,
			    balance_cents = $3 - paid_cents,
			    payment_status = $4,
			    updated_at = NOW()
			WHERE id = $5
			RETURNING `+bookingColumns+`
		`, date, slotStr, total, pricing.PaymentStatusFor(total, b.PaidCents), b.ID).StructScan(&updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *repository) Extend(ctx context.Context, bookingID int, slotStr string, slot timeslot.Interval) (*Booking, error) {
	var updated Booking

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if err := db.AdvisoryLockSlot(ctx, tx, b.CourtID, timeslot.EpochDay(b.Date)); err != nil {
			return err
		}

		current, err := timeslot.ParseSlot(b.TimeSlot)
		if err != nil {
			return apperr.Wrap(apperr.Unexpected, err, "stored time slot unreadable")
		}
		if slot.Start != current.Start || slot.Duration() <= current.Duration() {
			return apperr.New(apperr.Validation, "extension must keep the start time and lengthen the slot")
		}

		c, err := loadCourt(ctx, tx, b.CourtID)
		if err != nil {
			return err
		}

		bookings, subs, err := snapshot(ctx, tx, b.CourtID, b.Date)
		if err != nil {
			return err
		}
		bookings = excludeBooking(bookings, b.ID)

		if err := occupancy.Admit(c.Capacity, c.blockedStatus(), b.Date, slot, b.SlotsBooked, bookings, subs); err != nil {
			return err
		}

		total, err := r.reprice(ctx, tx, b, c, slot)
		if err != nil {
			return err
		}

		return tx.QueryRowxContext(ctx, `
			UPDATE bookings
			SET time_slot = $1, total_cents = $2,
			    balance_cents = $2 - paid_cents,
			    payment_status = $3,
			    updated_at = NOW()
			WHERE id = $4
			RETURNING `+bookingColumns+`
		`, slotStr, total, pricing.PaymentStatusFor(total, b.PaidCents), b.ID).StructScan(&updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *repository) Cancel(ctx context.Context, bookingID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'booked'
	`, bookingID)
	if err != nil {
		return db.Translate(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.Translate(err)
	}
	if rowsAffected == 0 {
		return apperr.New(apperr.StateError, "booking not found or already cancelled")
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "booking %d not found", id)
	}
	if err != nil {
		return nil, db.Translate(err)
	}

	return &b, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE member_id = $1
		ORDER BY date DESC, created_at DESC
	`, memberID)
	if err != nil {
		return nil, db.Translate(err)
	}

	return bookings, nil
}

func (r *repository) ListByCourtDate(ctx context.Context, courtID int, date time.Time) ([]Booking, error) {
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE court_id = $1 AND date = $2
		ORDER BY created_at DESC
	`, courtID, date)
	if err != nil {
		return nil, db.Translate(err)
	}

	return bookings, nil
}

func (r *repository) StatsByDay(ctx context.Context, from, to time.Time) ([]DayStat, error) {
	var stats []DayStat
	err := r.db.SelectContext(ctx, &stats, `
		SELECT date AS day, COUNT(*) AS count
		FROM bookings
		WHERE date BETWEEN $1 AND $2 AND status = 'booked'
		GROUP BY date
		ORDER BY date
	`, from, to)
	if err != nil {
		return nil, db.Translate(err)
	}

	return stats, nil
}

func (r *repository) StatsByCourt(ctx context.Context, from, to time.Time) ([]CourtStat, error) {
	var stats []CourtStat
	err := r.db.SelectContext(ctx, &stats, `
		SELECT b.court_id, c.name AS court_name, COUNT(*) AS count
		FROM bookings b
		JOIN courts c ON b.court_id = c.id
		WHERE b.date BETWEEN $1 AND $2 AND b.status = 'booked'
		GROUP BY b.court_id, c.name
		ORDER BY count DESC
	`, from, to)
	if err != nil {
		return nil, db.Translate(err)
	}

	return stats, nil
}
