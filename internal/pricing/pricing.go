package pricing

import (
	"courtyard/internal/apperr"
)

// All money is int64 minor units (cents). Conversion to display currency
// happens at the boundary only.

type AccessoryLine struct {
	PriceCents int64
	Quantity   int
}

// BookingBase prices a reservation before discount and accessories.
//
// Capacity-1 courts bill strictly by time: hourly rate prorated to the
// minute. Multi-capacity courts bill whole hours plus a half-hour tier once
// the remainder reaches 30 minutes, multiplied by the slots taken.
func BookingBase(durationMinutes int, hourlyCents int64, capacity, slotsBooked int) int64 {
	if durationMinutes <= 0 {
		return 0
	}

	if capacity <= 1 {
		return hourlyCents * int64(durationMinutes) / 60
	}

	base := int64(durationMinutes/60) * hourlyCents
	if durationMinutes%60 >= 30 {
		base += hourlyCents / 2
	}
	return base * int64(slotsBooked)
}

// BookingTotal folds discount and accessory add-ons into the final price.
func BookingTotal(baseCents, discountCents int64, accessories []AccessoryLine) int64 {
	total := baseCents - discountCents
	for _, a := range accessories {
		total += a.PriceCents * int64(a.Quantity)
	}
	if total < 0 {
		total = 0
	}
	return total
}

// CheckPayment rejects a payment that would push amount_paid past the final
// price. Enforced before commit, never clamped silently.
func CheckPayment(totalCents, paidCents int64) error {
	if paidCents < 0 {
		return apperr.New(apperr.Validation, "payment amount cannot be negative")
	}
	if paidCents > totalCents {
		return apperr.Newf(apperr.Validation,
			"amount paid (%d) exceeds total price (%d)", paidCents, totalCents)
	}
	return nil
}

// MembershipBase prices a subscription for its team size.
func MembershipBase(perPersonCents int64, teamSize int, discountCents int64) int64 {
	total := perPersonCents*int64(teamSize) - discountCents
	if total < 0 {
		total = 0
	}
	return total
}

// MembershipReprice applies the monotonic rule on team edits: the price may
// grow with the team but never shrinks below what was already agreed. A full
// recomputation happens only at renewal.
func MembershipReprice(currentFinalCents, perPersonCents int64, newTeamSize int, discountCents int64) int64 {
	candidate := MembershipBase(perPersonCents, newTeamSize, discountCents)
	if candidate > currentFinalCents {
		return candidate
	}
	return currentFinalCents
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentReceived  PaymentStatus = "received"
	PaymentCompleted PaymentStatus = "completed"
)

// PaymentStatusFor derives the payment state from the running balance.
func PaymentStatusFor(totalCents, paidCents int64) PaymentStatus {
	switch {
	case paidCents >= totalCents:
		return PaymentCompleted
	case paidCents <= 0:
		return PaymentPending
	default:
		return PaymentReceived
	}
}
