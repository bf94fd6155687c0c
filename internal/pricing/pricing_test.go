package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"courtyard/internal/apperr"
)

func TestBookingBaseSingleCapacity(t *testing.T) {
	// 90 minutes at 600 cents/hour, capacity 1: exact proration.
	assert.Equal(t, int64(900), BookingBase(90, 600, 1, 1))
	assert.Equal(t, int64(600), BookingBase(60, 600, 1, 1))
	assert.Equal(t, int64(100), BookingBase(10, 600, 1, 1))
	assert.Equal(t, int64(0), BookingBase(0, 600, 1, 1))
	assert.Equal(t, int64(0), BookingBase(-30, 600, 1, 1))
}

func TestBookingBaseMultiCapacity(t *testing.T) {
	// Half-hour tiering: remainder under 30 minutes is not billed.
	assert.Equal(t, int64(600), BookingBase(75, 600, 4, 1))
	assert.Equal(t, int64(900), BookingBase(90, 600, 4, 1))
	assert.Equal(t, int64(900), BookingBase(119, 600, 4, 1))
	assert.Equal(t, int64(1200), BookingBase(120, 600, 4, 1))
	// Under the 30-minute minimum nothing accrues.
	assert.Equal(t, int64(0), BookingBase(20, 600, 4, 1))
	// Multiplied by slots booked.
	assert.Equal(t, int64(2700), BookingBase(90, 600, 4, 3))
}

func TestBookingTotal(t *testing.T) {
	accessories := []AccessoryLine{
		{PriceCents: 250, Quantity: 2},
		{PriceCents: 100, Quantity: 1},
	}
	assert.Equal(t, int64(1400), BookingTotal(1000, 200, accessories))
	assert.Equal(t, int64(1000), BookingTotal(1000, 0, nil))
	// A discount larger than everything floors at zero.
	assert.Equal(t, int64(0), BookingTotal(500, 900, nil))
}

func TestCheckPayment(t *testing.T) {
	assert.NoError(t, CheckPayment(1000, 1000))
	assert.NoError(t, CheckPayment(1000, 400))

	err := CheckPayment(1000, 1001)
	assert.True(t, apperr.IsValidation(err))

	err = CheckPayment(1000, -1)
	assert.True(t, apperr.IsValidation(err))
}

func TestMembershipBase(t *testing.T) {
	assert.Equal(t, int64(4000), MembershipBase(1000, 4, 0))
	assert.Equal(t, int64(3500), MembershipBase(1000, 4, 500))
	assert.Equal(t, int64(0), MembershipBase(1000, 1, 2000))
}

func TestMembershipRepriceIsMonotonic(t *testing.T) {
	// Growing the team raises the price.
	assert.Equal(t, int64(5000), MembershipReprice(4000, 1000, 5, 0))
	// Shrinking the team never lowers it.
	assert.Equal(t, int64(5000), MembershipReprice(5000, 1000, 3, 0))
	// Removing then re-adding the same member ends where it started.
	afterRemove := MembershipReprice(5000, 1000, 4, 0)
	afterReAdd := MembershipReprice(afterRemove, 1000, 5, 0)
	assert.Equal(t, int64(5000), afterReAdd)
}

func TestPaymentStatusFor(t *testing.T) {
	assert.Equal(t, PaymentPending, PaymentStatusFor(1000, 0))
	assert.Equal(t, PaymentReceived, PaymentStatusFor(1000, 500))
	assert.Equal(t, PaymentCompleted, PaymentStatusFor(1000, 1000))
	assert.Equal(t, PaymentCompleted, PaymentStatusFor(0, 0))
}
