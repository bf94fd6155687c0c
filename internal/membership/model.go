package membership

import (
	"time"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusEnded      Status = "ended"
	StatusTerminated Status = "terminated"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Package is a subscription plan sold against one sport: a fixed duration
// at a per-person rate, with a cap on team size.
type Package struct {
	ID                  int       `db:"id" json:"id"`
	SportID             int       `db:"sport_id" json:"sport_id"`
	Name                string    `db:"name" json:"name"`
	DurationDays        int       `db:"duration_days" json:"duration_days"`
	PerPersonPriceCents int64     `db:"per_person_price_cents" json:"per_person_price_cents"`
	MaxTeamSize         int       `db:"max_team_size" json:"max_team_size"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// Subscription holds one capacity unit on its court, every day of
// [StartDate, CurrentEndDate], during TimeSlot. CurrentEndDate only moves
// forward: leave, holiday compensation and renewal extend it, nothing
// shortens it.
type Subscription struct {
	ID              int       `db:"id" json:"id"`
	PackageID       int       `db:"package_id" json:"package_id"`
	CourtID         int       `db:"court_id" json:"court_id"`
	OwnerID         int       `db:"owner_id" json:"owner_id"`
	StartDate       time.Time `db:"start_date" json:"start_date"`
	OriginalEndDate time.Time `db:"original_end_date" json:"original_end_date"`
	CurrentEndDate  time.Time `db:"current_end_date" json:"current_end_date"`
	TimeSlot        string    `db:"time_slot" json:"time_slot"`
	TeamSize        int       `db:"team_size" json:"team_size"`
	FinalPriceCents int64     `db:"final_price_cents" json:"final_price_cents"`
	PaidCents       int64     `db:"paid_cents" json:"paid_cents"`
	BalanceCents    int64     `db:"balance_cents" json:"balance_cents"`
	PaymentStatus   string    `db:"payment_status" json:"payment_status"`
	Status          Status    `db:"status" json:"status"`
	BilledFrom      time.Time `db:"billed_from" json:"billed_from"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Expired reports whether an active subscription's range has already
// passed. Terminate accepts expired-active rows that the sweep has not
// flipped yet.
func (s *Subscription) Expired(today time.Time) bool {
	end := s.CurrentEndDate
	return time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).
		Before(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC))
}

type TeamMember struct {
	ID             int       `db:"id" json:"id"`
	SubscriptionID int       `db:"subscription_id" json:"subscription_id"`
	MemberID       int       `db:"member_id" json:"member_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Leave struct {
	ID             int         `db:"id" json:"id"`
	SubscriptionID int         `db:"subscription_id" json:"subscription_id"`
	StartDate      time.Time   `db:"start_date" json:"start_date"`
	EndDate        time.Time   `db:"end_date" json:"end_date"`
	LeaveDays      int         `db:"leave_days" json:"leave_days"`
	ExtensionStart *time.Time  `db:"extension_start" json:"extension_start,omitempty"`
	Status         LeaveStatus `db:"status" json:"status"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

type Holiday struct {
	ID        int       `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type SubscribeRequest struct {
	PackageID     int    `json:"package_id" binding:"required"`
	CourtID       int    `json:"court_id" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	TimeSlot      string `json:"time_slot" binding:"required"`
	MemberIDs     []int  `json:"member_ids" binding:"required,min=1"`
	DiscountCents int64  `json:"discount_cents"`
	PaidCents     int64  `json:"paid_cents"`
	PaymentMode   string `json:"payment_mode"`
}

type CreatePackageRequest struct {
	SportID             int    `json:"sport_id" binding:"required"`
	Name                string `json:"name" binding:"required"`
	DurationDays        int    `json:"duration_days" binding:"required,min=1"`
	PerPersonPriceCents int64  `json:"per_person_price_cents" binding:"required,gt=0"`
	MaxTeamSize         int    `json:"max_team_size" binding:"required,min=1"`
}

// LeaveRequest asks for a pause of [StartDate, EndDate] inclusive. The
// compensating extension is appended after the current end date, or at
// ExtensionStart when given (never earlier than the day after the current
// end).
type LeaveRequest struct {
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
	ExtensionStart string `json:"extension_start"`
}

type DecideLeaveRequest struct {
	Approve bool `json:"approve"`
}

type RenewRequest struct {
	StartDate string `json:"start_date"`
}

type TeamMemberRequest struct {
	MemberID int `json:"member_id" binding:"required"`
}

type HolidayRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type HolidayResult struct {
	Holiday  *Holiday `json:"holiday"`
	Extended int      `json:"extended_subscriptions"`
}

type SweepResult struct {
	Ended int `json:"ended"`
}
