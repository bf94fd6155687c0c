package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"courtyard/internal/apperr"
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

const packageColumns = `id, sport_id, name, duration_days, per_person_price_cents, max_team_size, created_at`

const subscriptionColumns = `
	id, package_id, court_id, owner_id, start_date, original_end_date,
	current_end_date, time_slot, team_size, final_price_cents, paid_cents,
	balance_cents, payment_status, status, billed_from, created_at, updated_at
`

const leaveColumns = `id, subscription_id, start_date, end_date, leave_days, extension_start, status, created_at`

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *repository) CreatePackage(ctx context.Context, sportID int, name string, durationDays int, perPersonPriceCents int64, maxTeamSize int) (*Package, error) {
	var p Package
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO packages (sport_id, name, duration_days, per_person_price_cents, max_team_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+packageColumns+`
	`, sportID, name, durationDays, perPersonPriceCents, maxTeamSize).StructScan(&p)
	if err != nil {
		return nil, db.Translate(err)
	}
	return &p, nil
}

func (r *repository) ListPackages(ctx context.Context) ([]Package, error) {
	var packages []Package
	err := r.db.SelectContext(ctx, &packages, `
		SELECT `+packageColumns+` FROM packages ORDER BY id
	`)
	if err != nil {
		return nil, db.Translate(err)
	}
	return packages, nil
}

func (r *repository) GetPackageByID(ctx context.Context, id int) (*Package, error) {
	p, err := getPackage(ctx, r.db, id)
	if err != nil {
		return nil, db.Translate(err)
	}
	return p, nil
}

func getPackage(ctx context.Context, q sqlx.QueryerContext, id int) (*Package, error) {
	var p Package
	err := sqlx.GetContext(ctx, q, &p, `
		SELECT `+packageColumns+` FROM packages WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "package %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type courtRow struct {
	ID       int    `db:"id"`
	SportID  int    `db:"sport_id"`
	Status   string `db:"status"`
	Capacity int    `db:"capacity"`
}

func loadCourt(ctx context.Context, q sqlx.QueryerContext, courtID int) (*courtRow, error) {
	var c courtRow
	err := sqlx.GetContext(ctx, q, &c, `
		SELECT c.id, c.sport_id, c.status, s.capacity
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

// lockRange serializes this transaction against every writer touching any
// day of the range on this court, including single-day booking writers. Days
// are locked in ascending order so two overlapping ranges cannot deadlock.
func lockRange(ctx context.Context, tx *sqlx.Tx, courtID int, from, to time.Time) error {
	for d := day(from); !d.After(day(to)); d = d.AddDate(0, 0, 1) {
		if err := db.AdvisoryLockSlot(ctx, tx, courtID, timeslot.EpochDay(d)); err != nil {
			return err
		}
	}
	return nil
}

type unitBooking struct {
	ID          int       `db:"id"`
	Date        time.Time `db:"date"`
	TimeSlot    string    `db:"time_slot"`
	SlotsBooked int       `db:"slots_booked"`
	Status      string    `db:"status"`
}

type unitSubscription struct {
	ID        int       `db:"id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"current_end_date"`
	TimeSlot  string    `db:"time_slot"`
}

// rangeUnits reads the occupancy inputs for every day of [from, to] on one
// court.
func rangeUnits(ctx context.Context, q sqlx.QueryerContext, courtID int, from, to time.Time) ([]occupancy.BookingUnit, []occupancy.SubscriptionUnit, error) {
	var bookingRows []unitBooking
	err := sqlx.SelectContext(ctx, q, &bookingRows, `
		SELECT id, date, time_slot, slots_booked, status
		FROM bookings
		WHERE court_id = $1 AND date BETWEEN $2 AND $3
	`, courtID, from, to)
	if err != nil {
		return nil, nil, err
	}

	bookings := make([]occupancy.BookingUnit, 0, len(bookingRows))
	for _, b := range bookingRows {
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
			Cancelled:   b.Status == "cancelled",
		})
	}

	var subRows []unitSubscription
	err = sqlx.SelectContext(ctx, q, &subRows, `
		SELECT id, start_date, current_end_date, time_slot
		FROM subscriptions
		WHERE court_id = $1
		  AND status = 'active'
		  AND start_date <= $3
		  AND current_end_date >= $2
	`, courtID, from, to)
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

func (r *repository) Subscribe(ctx context.Context, p SubscribeParams) (*Subscription, error) {
	var created Subscription

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		pkg, err := getPackage(ctx, tx, p.PackageID)
		if err != nil {
			return err
		}
		if len(p.MemberIDs) > pkg.MaxTeamSize {
			return apperr.Newf(apperr.Validation,
				"team of %d exceeds package limit of %d", len(p.MemberIDs), pkg.MaxTeamSize)
		}

		end := day(p.StartDate).AddDate(0, 0, pkg.DurationDays-1)
		if err := lockRange(ctx, tx, p.CourtID, p.StartDate, end); err != nil {
			return err
		}

		c, err := loadCourt(ctx, tx, p.CourtID)
		if err != nil {
			return err
		}
		if c.SportID != pkg.SportID {
			return apperr.Newf(apperr.Validation,
				"package %d is for a different sport than court %d", pkg.ID, c.ID)
		}
		if c.Status != "available" {
			return apperr.Newf(apperr.Conflict, "court unavailable: %s", c.Status)
		}

		bookings, subs, err := rangeUnits(ctx, tx, p.CourtID, p.StartDate, end)
		if err != nil {
			return err
		}
		conflicts := occupancy.AdmitRange(c.Capacity, p.StartDate, end, p.Slot, 1, bookings, subs, 0)
		if len(conflicts) > 0 {
			return apperr.New(apperr.Conflict, "subscription window conflicts with existing reservations").
				WithConflicts(conflicts)
		}

		final := pricing.MembershipBase(pkg.PerPersonPriceCents, len(p.MemberIDs), p.DiscountCents)
		if err := pricing.CheckPayment(final, p.PaidCents); err != nil {
			return err
		}

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO subscriptions (
				package_id, court_id, owner_id, start_date, original_end_date,
				current_end_date, time_slot, team_size, final_price_cents,
				paid_cents, balance_cents, payment_status, status, billed_from
			)
			VALUES ($1, $2, $3, $4, $5, $5, $6, $7, $8, $9, $10, $11, 'active', NOW())
			RETURNING `+subscriptionColumns+`
		`, p.PackageID, p.CourtID, p.OwnerID, day(p.StartDate), end, p.TimeSlot,
			len(p.MemberIDs), final, p.PaidCents, final-p.PaidCents,
			pricing.PaymentStatusFor(final, p.PaidCents),
		).StructScan(&created)
		if err != nil {
			return err
		}

		for _, memberID := range p.MemberIDs {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO team_members (subscription_id, member_id)
				VALUES ($1, $2)
			`, created.ID, memberID)
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
				INSERT INTO payments (subscription_id, amount_cents, mode, recorded_by)
				VALUES ($1, $2, $3, $4)
			`, created.ID, p.PaidCents, mode, p.OwnerID)
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

func (r *repository) GetByID(ctx context.Context, id int) (*Subscription, error) {
	var s Subscription
	err := r.db.GetContext(ctx, &s, `
		SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "subscription %d not found", id)
	}
	if err != nil {
		return nil, db.Translate(err)
	}
	return &s, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]Subscription, error) {
	var subs []Subscription
	err := r.db.SelectContext(ctx, &subs, `
		SELECT DISTINCT s.id, s.package_id, s.court_id, s.owner_id, s.start_date,
			s.original_end_date, s.current_end_date, s.time_slot, s.team_size,
			s.final_price_cents, s.paid_cents, s.balance_cents, s.payment_status,
			s.status, s.billed_from, s.created_at, s.updated_at
		FROM subscriptions s
		LEFT JOIN team_members tm ON tm.subscription_id = s.id
		WHERE s.owner_id = $1 OR tm.member_id = $1
		ORDER BY s.id DESC
	`, memberID)
	if err != nil {
		return nil, db.Translate(err)
	}
	return subs, nil
}

func (r *repository) ListTeam(ctx context.Context, subscriptionID int) ([]TeamMember, error) {
	var team []TeamMember
	err := r.db.SelectContext(ctx, &team, `
		SELECT id, subscription_id, member_id, created_at
		FROM team_members
		WHERE subscription_id = $1
		ORDER BY id
	`, subscriptionID)
	if err != nil {
		return nil, db.Translate(err)
	}
	return team, nil
}

func lockSubscription(ctx context.Context, tx *sqlx.Tx, id int) (*Subscription, error) {
	var s Subscription
	err := tx.QueryRowxContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = $1
		FOR UPDATE
	`, id).StructScan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "subscription %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// leaveDays counts calendar days in [start, end], both ends inclusive.
func leaveDays(start, end time.Time) int {
	return int(day(end).Sub(day(start)).Hours()/24) + 1
}

func (r *repository) RequestLeave(ctx context.Context, subscriptionID int, p LeaveParams) (*Leave, error) {
	if day(p.EndDate).Before(day(p.StartDate)) {
		return nil, apperr.New(apperr.Validation, "leave end date precedes start date")
	}

	sub, err := r.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != StatusActive {
		return nil, apperr.Newf(apperr.StateError, "cannot request leave on a %s subscription", sub.Status)
	}

	if p.ExtensionStart != nil {
		earliest := day(sub.CurrentEndDate).AddDate(0, 0, 1)
		if day(*p.ExtensionStart).Before(earliest) {
			return nil, apperr.Newf(apperr.Validation,
				"extension cannot start before %s", earliest.Format(time.DateOnly))
		}
	}

	var leave Leave
	err = r.db.QueryRowxContext(ctx, `
		INSERT INTO leaves (subscription_id, start_date, end_date, leave_days, extension_start, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING `+leaveColumns+`
	`, subscriptionID, day(p.StartDate), day(p.EndDate),
		leaveDays(p.StartDate, p.EndDate), p.ExtensionStart).StructScan(&leave)
	if err != nil {
		return nil, db.Translate(err)
	}
	return &leave, nil
}

func (r *repository) DecideLeave(ctx context.Context, leaveID int, approve bool) (*Leave, error) {
	var decided Leave

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		var leave Leave
		err := tx.QueryRowxContext(ctx, `
			SELECT `+leaveColumns+` FROM leaves WHERE id = $1 FOR UPDATE
		`, leaveID).StructScan(&leave)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Newf(apperr.NotFound, "leave %d not found", leaveID)
		}
		if err != nil {
			return err
		}
		if leave.Status != LeavePending {
			return apperr.Newf(apperr.StateError, "leave already %s", leave.Status)
		}

		if !approve {
			return tx.QueryRowxContext(ctx, `
				UPDATE leaves SET status = 'rejected' WHERE id = $1
				RETURNING `+leaveColumns+`
			`, leaveID).StructScan(&decided)
		}

		sub, err := lockSubscription(ctx, tx, leave.SubscriptionID)
		if err != nil {
			return err
		}
		if sub.Status != StatusActive {
			return apperr.Newf(apperr.StateError, "cannot grant leave on a %s subscription", sub.Status)
		}

		slot, err := timeslot.ParseSlot(sub.TimeSlot)
		if err != nil {
			return apperr.Wrap(apperr.Unexpected, err, "stored time slot unreadable")
		}

		// Extension is appended after the current end, or at the explicit
		// custom start. Its length is exactly the leave's day count.
		extStart := day(sub.CurrentEndDate).AddDate(0, 0, 1)
		if leave.ExtensionStart != nil {
			extStart = day(*leave.ExtensionStart)
		}
		extEnd := extStart.AddDate(0, 0, leave.LeaveDays-1)

		if err := lockRange(ctx, tx, sub.CourtID, leave.StartDate, leave.EndDate); err != nil {
			return err
		}
		if err := lockRange(ctx, tx, sub.CourtID, extStart, extEnd); err != nil {
			return err
		}

		// Pause window: any booking overlapping the slot is a hit.
		pauseBookings, _, err := rangeUnits(ctx, tx, sub.CourtID, leave.StartDate, leave.EndDate)
		if err != nil {
			return err
		}
		conflicts := occupancy.RangeHits(leave.StartDate, leave.EndDate, slot, pauseBookings, nil, sub.ID)

		// Extension window: bookings and other subscriptions both count.
		extBookings, extSubs, err := rangeUnits(ctx, tx, sub.CourtID, extStart, extEnd)
		if err != nil {
			return err
		}
		conflicts = append(conflicts,
			occupancy.RangeHits(extStart, extEnd, slot, extBookings, extSubs, sub.ID)...)

		if len(conflicts) > 0 {
			return apperr.New(apperr.Conflict, "leave windows conflict with existing reservations").
				WithConflicts(conflicts)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE subscriptions SET current_end_date = $1, updated_at = NOW() WHERE id = $2
		`, extEnd, sub.ID)
		if err != nil {
			return err
		}

		return tx.QueryRowxContext(ctx, `
			UPDATE leaves SET status = 'approved' WHERE id = $1
			RETURNING `+leaveColumns+`
		`, leaveID).StructScan(&decided)
	})
	if err != nil {
		return nil, err
	}

	return &decided, nil
}

func (r *repository) ListLeaves(ctx context.Context, subscriptionID int) ([]Leave, error) {
	var leaves []Leave
	err := r.db.SelectContext(ctx, &leaves, `
		SELECT `+leaveColumns+` FROM leaves WHERE subscription_id = $1 ORDER BY id DESC
	`, subscriptionID)
	if err != nil {
		return nil, db.Translate(err)
	}
	return leaves, nil
}

func (r *repository) Renew(ctx context.Context, subscriptionID int, start time.Time) (*Subscription, error) {
	var renewed Subscription

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		sub, err := lockSubscription(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		switch {
		case sub.Status == StatusTerminated:
			return apperr.New(apperr.StateError, "cannot renew a terminated subscription")
		case sub.Status == StatusActive && !sub.Expired(time.Now().UTC()):
			return apperr.New(apperr.StateError, "subscription is still active")
		}

		pkg, err := getPackage(ctx, tx, sub.PackageID)
		if err != nil {
			return err
		}

		slot, err := timeslot.ParseSlot(sub.TimeSlot)
		if err != nil {
			return apperr.Wrap(apperr.Unexpected, err, "stored time slot unreadable")
		}

		end := day(start).AddDate(0, 0, pkg.DurationDays-1)
		if err := lockRange(ctx, tx, sub.CourtID, start, end); err != nil {
			return err
		}

		c, err := loadCourt(ctx, tx, sub.CourtID)
		if err != nil {
			return err
		}
		if c.Status != "available" {
			return apperr.Newf(apperr.Conflict, "court unavailable: %s", c.Status)
		}

		bookings, subs, err := rangeUnits(ctx, tx, sub.CourtID, start, end)
		if err != nil {
			return err
		}
		conflicts := occupancy.AdmitRange(c.Capacity, start, end, slot, 1, bookings, subs, sub.ID)
		if len(conflicts) > 0 {
			return apperr.New(apperr.Conflict, "renewal window conflicts with existing reservations").
				WithConflicts(conflicts)
		}

		// Renewal is the one full reprice in a subscription's life: the
		// monotonic rule applies only within one billing period.
		final := pricing.MembershipBase(pkg.PerPersonPriceCents, sub.TeamSize, 0)

		return tx.QueryRowxContext(ctx, `
			UPDATE subscriptions
			SET start_date = $1, original_end_date = $2, current_end_date = $2,
			    final_price_cents = $3, paid_cents = 0, balance_cents = $3,
			    payment_status = 'pending', status = 'active',
			    billed_from = NOW(), updated_at = NOW()
			WHERE id = $4
			RETURNING `+subscriptionColumns+`
		`, day(start), end, final, sub.ID).StructScan(&renewed)
	})
	if err != nil {
		return nil, err
	}

	return &renewed, nil
}

func (r *repository) Terminate(ctx context.Context, subscriptionID int) error {
	return db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		sub, err := lockSubscription(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		if sub.Status == StatusTerminated {
			return apperr.New(apperr.StateError, "subscription already terminated")
		}
		if sub.Status == StatusActive && !sub.Expired(time.Now().UTC()) {
			return apperr.New(apperr.StateError, "cannot terminate a running subscription")
		}
		if sub.BalanceCents > 0 {
			return apperr.Newf(apperr.StateError,
				"outstanding balance of %d must be settled before termination", sub.BalanceCents)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE subscriptions SET status = 'terminated', updated_at = NOW() WHERE id = $1
		`, sub.ID)
		return err
	})
}

func (r *repository) AddTeamMember(ctx context.Context, subscriptionID, memberID int) (*Subscription, error) {
	var updated Subscription

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		sub, err := lockSubscription(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		if sub.Status != StatusActive {
			return apperr.Newf(apperr.StateError, "cannot edit the team of a %s subscription", sub.Status)
		}

		pkg, err := getPackage(ctx, tx, sub.PackageID)
		if err != nil {
			return err
		}
		if sub.TeamSize+1 > pkg.MaxTeamSize {
			return apperr.Newf(apperr.Validation, "team is already at the package limit of %d", pkg.MaxTeamSize)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO team_members (subscription_id, member_id) VALUES ($1, $2)
		`, sub.ID, memberID)
		if err != nil {
			return err
		}

		final := pricing.MembershipReprice(sub.FinalPriceCents, pkg.PerPersonPriceCents, sub.TeamSize+1, 0)

		return tx.QueryRowxContext(ctx, `
			UPDATE subscriptions
			SET team_size = $1, final_price_cents = $2,
			    balance_cents = $2 - paid_cents,
			    payment_status = $3, updated_at = NOW()
			WHERE id = $4
			RETURNING `+subscriptionColumns+`
		`, sub.TeamSize+1, final, pricing.PaymentStatusFor(final, sub.PaidCents), sub.ID).StructScan(&updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *repository) RemoveTeamMember(ctx context.Context, subscriptionID, memberID int) (*Subscription, error) {
	var updated Subscription

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		sub, err := lockSubscription(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		if sub.Status != StatusActive {
			return apperr.Newf(apperr.StateError, "cannot edit the team of a %s subscription", sub.Status)
		}
		if sub.TeamSize <= 1 {
			return apperr.New(apperr.Validation, "a subscription needs at least one team member")
		}

		result, err := tx.ExecContext(ctx, `
			DELETE FROM team_members WHERE subscription_id = $1 AND member_id = $2
		`, sub.ID, memberID)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return apperr.Newf(apperr.NotFound, "member %d is not on this team", memberID)
		}

		// The price never decreases: only the head count changes.
		return tx.QueryRowxContext(ctx, `
			UPDATE subscriptions SET team_size = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING `+subscriptionColumns+`
		`, sub.TeamSize-1, sub.ID).StructScan(&updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *repository) DeclareHoliday(ctx context.Context, date time.Time, reason string) (*Holiday, int, error) {
	var holiday Holiday
	var extended int64

	err := db.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO holidays (date, reason) VALUES ($1, $2)
			RETURNING id, date, reason, created_at
		`, day(date), reason).StructScan(&holiday)
		if err != nil {
			return err
		}

		// Compensation is facility-wide policy: every spanning active
		// subscription gains a day, with no conflict re-check.
		result, err := tx.ExecContext(ctx, `
			UPDATE subscriptions
			SET current_end_date = current_end_date + INTERVAL '1 day', updated_at = NOW()
			WHERE status = 'active' AND start_date <= $1 AND current_end_date >= $1
		`, day(date))
		if err != nil {
			return err
		}

		extended, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return &holiday, int(extended), nil
}

func (r *repository) ListHolidays(ctx context.Context) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.SelectContext(ctx, &holidays, `
		SELECT id, date, reason, created_at FROM holidays ORDER BY date
	`)
	if err != nil {
		return nil, db.Translate(err)
	}
	return holidays, nil
}

func (r *repository) SweepExpired(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = 'ended', updated_at = NOW()
		WHERE status = 'active' AND current_end_date < CURRENT_DATE
	`)
	if err != nil {
		return 0, db.Translate(err)
	}

	ended, err := result.RowsAffected()
	if err != nil {
		return 0, db.Translate(err)
	}
	return int(ended), nil
}

func (r *repository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM subscriptions WHERE status = 'active'
	`)
	if err != nil {
		return 0, db.Translate(err)
	}
	return count, nil
}
