package booking

import (
	"time"

	"courtyard/internal/apperr"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
)

type Booking struct {
	ID            int       `db:"id" json:"id"`
	CourtID       int       `db:"court_id" json:"court_id"`
	MemberID      int       `db:"member_id" json:"member_id"`
	Date          time.Time `db:"date" json:"date"`
	TimeSlot      string    `db:"time_slot" json:"time_slot"`
	SlotsBooked   int       `db:"slots_booked" json:"slots_booked"`
	Status        Status    `db:"status" json:"status"`
	TotalCents    int64     `db:"total_cents" json:"total_cents"`
	DiscountCents int64     `db:"discount_cents" json:"discount_cents"`
	PaidCents     int64     `db:"paid_cents" json:"paid_cents"`
	BalanceCents  int64     `db:"balance_cents" json:"balance_cents"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Accessory struct {
	ID         int    `db:"id" json:"id"`
	BookingID  int    `db:"booking_id" json:"booking_id"`
	Name       string `db:"name" json:"name"`
	PriceCents int64  `db:"price_cents" json:"price_cents"`
	Quantity   int    `db:"quantity" json:"quantity"`
}

type AccessoryRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,gt=0"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

type CreateRequest struct {
	CourtID       int                `json:"court_id" binding:"required"`
	Date          string             `json:"date" binding:"required"`
	TimeSlot      string             `json:"time_slot" binding:"required"`
	SlotsBooked   int                `json:"slots_booked" binding:"required,min=1"`
	DiscountCents int64              `json:"discount_cents"`
	PaidCents     int64              `json:"paid_cents"`
	PaymentMode   string             `json:"payment_mode"`
	Accessories   []AccessoryRequest `json:"accessories"`
}

type RescheduleRequest struct {
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

type ExtendRequest struct {
	TimeSlot string `json:"time_slot" binding:"required"`
}

type QuoteRequest struct {
	CourtID       int                `json:"court_id" binding:"required"`
	TimeSlot      string             `json:"time_slot" binding:"required"`
	SlotsBooked   int                `json:"slots_booked" binding:"required,min=1"`
	DiscountCents int64              `json:"discount_cents"`
	Accessories   []AccessoryRequest `json:"accessories"`
}

type Quote struct {
	BaseCents        int64 `json:"base_cents"`
	DiscountCents    int64 `json:"discount_cents"`
	AccessoriesCents int64 `json:"accessories_cents"`
	TotalCents       int64 `json:"total_cents"`
	DurationMinutes  int   `json:"duration_minutes"`
}

type CheckRequest struct {
	CourtID     int    `json:"court_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	TimeSlot    string `json:"time_slot" binding:"required"`
	SlotsBooked int    `json:"slots_booked" binding:"required,min=1"`
}

// CheckResult is the advisory clash preview. It is never authoritative: the
// admission check is repeated under lock inside the write transaction.
type CheckResult struct {
	Available bool                    `json:"available"`
	Occupied  int                     `json:"occupied"`
	Capacity  int                     `json:"capacity"`
	Conflicts []apperr.ConflictDetail `json:"conflicts,omitempty"`
}

type AvailabilityCell struct {
	TimeSlot  string `json:"time_slot"`
	Occupied  int    `json:"occupied"`
	Capacity  int    `json:"capacity"`
	Free      int    `json:"free"`
	Available bool   `json:"available"`
}

type DayStat struct {
	Day   time.Time `db:"day" json:"day"`
	Count int       `db:"count" json:"count"`
}

type CourtStat struct {
	CourtID   int    `db:"court_id" json:"court_id"`
	CourtName string `db:"court_name" json:"court_name"`
	Count     int    `db:"count" json:"count"`
}
