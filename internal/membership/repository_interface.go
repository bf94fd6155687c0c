package membership

import (
	"context"
	"time"

	"courtyard/internal/timeslot"
)

// SubscribeParams carries a validated subscription request into the write
// transaction.
type SubscribeParams struct {
	PackageID     int
	CourtID       int
	OwnerID       int
	StartDate     time.Time
	TimeSlot      string
	Slot          timeslot.Interval
	MemberIDs     []int
	DiscountCents int64
	PaidCents     int64
	PaymentMode   string
}

// LeaveParams is a leave-of-absence request: the pause window plus an
// optional explicit start for the compensating extension.
type LeaveParams struct {
	StartDate      time.Time
	EndDate        time.Time
	ExtensionStart *time.Time
}

type Repository interface {
	CreatePackage(ctx context.Context, sportID int, name string, durationDays int, perPersonPriceCents int64, maxTeamSize int) (*Package, error)
	ListPackages(ctx context.Context) ([]Package, error)
	GetPackageByID(ctx context.Context, id int) (*Package, error)

	// Subscribe admits the whole [start, start+duration-1] range against the
	// court day by day under lock, then writes the subscription, its team
	// and the opening payment atomically.
	Subscribe(ctx context.Context, p SubscribeParams) (*Subscription, error)

	GetByID(ctx context.Context, id int) (*Subscription, error)
	ListByMember(ctx context.Context, memberID int) ([]Subscription, error)
	ListTeam(ctx context.Context, subscriptionID int) ([]TeamMember, error)

	RequestLeave(ctx context.Context, subscriptionID int, p LeaveParams) (*Leave, error)

	// DecideLeave approves or rejects a pending leave. Approval re-checks
	// both the pause window and the extension window for overlaps and is
	// all-or-nothing: any hit rejects the grant with the full conflict list.
	DecideLeave(ctx context.Context, leaveID int, approve bool) (*Leave, error)
	ListLeaves(ctx context.Context, subscriptionID int) ([]Leave, error)

	// Renew restarts an ended (or expired active) subscription for a fresh
	// package period, repricing from scratch and resetting the billing
	// cycle.
	Renew(ctx context.Context, subscriptionID int, start time.Time) (*Subscription, error)

	Terminate(ctx context.Context, subscriptionID int) error

	AddTeamMember(ctx context.Context, subscriptionID, memberID int) (*Subscription, error)
	RemoveTeamMember(ctx context.Context, subscriptionID, memberID int) (*Subscription, error)

	// DeclareHoliday inserts the facility holiday and pushes the end date of
	// every spanning active subscription forward one day. Returns how many
	// subscriptions were extended.
	DeclareHoliday(ctx context.Context, date time.Time, reason string) (*Holiday, int, error)
	ListHolidays(ctx context.Context) ([]Holiday, error)

	// SweepExpired flips active subscriptions whose end date has passed to
	// ended. Idempotent: a second run in the same day is a no-op.
	SweepExpired(ctx context.Context) (int, error)

	CountActive(ctx context.Context) (int, error)
}
