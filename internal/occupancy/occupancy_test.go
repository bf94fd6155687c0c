package occupancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtyard/internal/apperr"
	"courtyard/internal/timeslot"
)

var june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func slot(s string) timeslot.Interval {
	iv, err := timeslot.ParseSlot(s)
	if err != nil {
		panic(err)
	}
	return iv
}

func TestAdmitCapacityOne(t *testing.T) {
	existing := []BookingUnit{
		{ID: 1, Date: june1, TimeSlot: "10:00 AM - 11:00 AM", Slot: slot("10:00 AM - 11:00 AM"), SlotsBooked: 1},
	}

	// Overlapping request rejected with Conflict.
	err := Admit(1, "", june1, slot("10:30 AM - 11:30 AM"), 1, existing, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	details := apperr.Details(err)
	require.Len(t, details, 1)
	assert.Equal(t, 1, details[0].RefID)
	assert.Equal(t, "booking", details[0].Source)

	// Touching endpoints admit.
	assert.NoError(t, Admit(1, "", june1, slot("11:00 AM - 12:00 PM"), 1, existing, nil))
}

func TestAdmitCapacityThree(t *testing.T) {
	window := slot("2:00 PM - 3:00 PM")
	existing := []BookingUnit{
		{ID: 1, Date: june1, Slot: window, SlotsBooked: 1},
		{ID: 2, Date: june1, Slot: window, SlotsBooked: 1},
	}

	// 1 + 1 + 2 > 3 rejected.
	err := Admit(3, "", june1, window, 2, existing, nil)
	assert.True(t, apperr.IsConflict(err))

	// 1 + 1 + 1 <= 3 admitted.
	assert.NoError(t, Admit(3, "", june1, window, 1, existing, nil))
}

func TestCancelledBookingsDoNotCount(t *testing.T) {
	existing := []BookingUnit{
		{ID: 1, Date: june1, Slot: slot("10:00 AM - 11:00 AM"), SlotsBooked: 1, Cancelled: true},
	}
	assert.NoError(t, Admit(1, "", june1, slot("10:00 AM - 11:00 AM"), 1, existing, nil))
}

func TestBlockedCourtRejectsRegardlessOfOccupancy(t *testing.T) {
	err := Admit(4, "under_maintenance", june1, slot("10:00 AM - 11:00 AM"), 1, nil, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Contains(t, err.Error(), "under_maintenance")
}

func TestSubscriptionsOccupyOneUnit(t *testing.T) {
	subs := []SubscriptionUnit{
		{
			ID:        9,
			StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
			TimeSlot:  "6:00 PM - 7:00 PM",
			Slot:      slot("6:00 PM - 7:00 PM"),
		},
	}

	err := Admit(1, "", june1, slot("6:30 PM - 7:30 PM"), 1, nil, subs)
	require.Error(t, err)
	details := apperr.Details(err)
	require.Len(t, details, 1)
	assert.Equal(t, "subscription", details[0].Source)

	// Outside the subscription's date range the slot is free.
	aug1 := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, Admit(1, "", aug1, slot("6:30 PM - 7:30 PM"), 1, nil, subs))
}

func TestComputeBreakdown(t *testing.T) {
	window := slot("2:00 PM - 4:00 PM")
	bookings := []BookingUnit{
		{ID: 1, Date: june1, Slot: slot("2:00 PM - 3:00 PM"), SlotsBooked: 2},
		{ID: 2, Date: june1, Slot: slot("5:00 PM - 6:00 PM"), SlotsBooked: 1}, // outside
	}
	subs := []SubscriptionUnit{
		{ID: 3, StartDate: june1, EndDate: june1, Slot: slot("3:00 PM - 4:00 PM")},
	}

	res := Compute(june1, window, bookings, subs)
	assert.Equal(t, 3, res.Occupied)
	require.Len(t, res.Sources, 2)
}

func TestAdmitRangeCollectsEveryConflictDay(t *testing.T) {
	start := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	window := slot("6:00 PM - 7:00 PM")

	bookings := []BookingUnit{
		{ID: 5, Date: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), TimeSlot: "6:00 PM - 7:00 PM", Slot: window, SlotsBooked: 1},
	}

	conflicts := AdmitRange(1, start, end, window, 1, bookings, nil, 0)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "2024-01-12", conflicts[0].Date)
	assert.Equal(t, 5, conflicts[0].RefID)

	// A clean range reports nothing.
	assert.Empty(t, AdmitRange(1, start, end, slot("8:00 PM - 9:00 PM"), 1, bookings, nil, 0))
}

func TestRangeHitsIgnoresCapacity(t *testing.T) {
	start := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	window := slot("6:00 PM - 7:00 PM")

	bookings := []BookingUnit{
		{ID: 5, Date: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), TimeSlot: "6:00 PM - 7:00 PM", Slot: window, SlotsBooked: 1},
	}

	// On a capacity-4 court AdmitRange would wave this through; RangeHits
	// reports the overlap anyway.
	hits := RangeHits(start, end, window, bookings, nil, 0)
	require.Len(t, hits, 1)
	assert.Equal(t, "2024-01-12", hits[0].Date)
	assert.Equal(t, 5, hits[0].RefID)

	assert.Empty(t, RangeHits(start, end, slot("8:00 PM - 9:00 PM"), bookings, nil, 0))
}

func TestRangeHitsExcludesOwnSubscription(t *testing.T) {
	start := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	window := slot("6:00 PM - 7:00 PM")

	subs := []SubscriptionUnit{
		{ID: 9, StartDate: start, EndDate: end, Slot: window},
	}

	assert.Empty(t, RangeHits(start, end, window, nil, subs, 9))
	assert.Len(t, RangeHits(start, end, window, nil, subs, 0), 1)
}

func TestAdmitRangeExcludesOwnSubscription(t *testing.T) {
	start := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	window := slot("6:00 PM - 7:00 PM")

	subs := []SubscriptionUnit{
		{ID: 9, StartDate: start, EndDate: end, Slot: window},
	}

	assert.Empty(t, AdmitRange(1, start, end, window, 1, nil, subs, 9))
	assert.Len(t, AdmitRange(1, start, end, window, 1, nil, subs, 0), 3)
}
