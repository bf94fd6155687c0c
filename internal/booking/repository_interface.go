package booking

import (
	"context"
	"time"

	"courtyard/internal/occupancy"
	"courtyard/internal/timeslot"
)

// CreateParams carries a validated reservation request into the write
// transaction.
type CreateParams struct {
	CourtID       int
	MemberID      int
	Date          time.Time
	TimeSlot      string
	Slot          timeslot.Interval
	SlotsBooked   int
	DiscountCents int64
	PaidCents     int64
	PaymentMode   string
	Accessories   []AccessoryRequest
}

type Repository interface {
	// CreateReservation admits and persists a reservation atomically: it
	// serializes on the (court, date) pair, re-reads the occupancy snapshot
	// under that lock, prices the booking and writes all rows or none.
	CreateReservation(ctx context.Context, p CreateParams) (*Booking, error)

	// Reschedule moves a booking to a new date/slot under the locks of both
	// the old and new (court, date) pairs, re-admitting against the target.
	Reschedule(ctx context.Context, bookingID int, date time.Time, slotStr string, slot timeslot.Interval) (*Booking, error)

	// Extend replaces the booking's interval with a longer one on the same
	// date, re-admitting the extension and repricing the full new duration.
	Extend(ctx context.Context, bookingID int, slotStr string, slot timeslot.Interval) (*Booking, error)

	Cancel(ctx context.Context, bookingID int) error
	GetByID(ctx context.Context, id int) (*Booking, error)
	ListByMember(ctx context.Context, memberID int) ([]Booking, error)
	ListByCourtDate(ctx context.Context, courtID int, date time.Time) ([]Booking, error)

	// Snapshot is the read-only occupancy view used by previews and the
	// availability heatmap. Write paths re-read the same queries under lock.
	Snapshot(ctx context.Context, courtID int, date time.Time) ([]occupancy.BookingUnit, []occupancy.SubscriptionUnit, error)

	StatsByDay(ctx context.Context, from, to time.Time) ([]DayStat, error)
	StatsByCourt(ctx context.Context, from, to time.Time) ([]CourtStat, error)
}
