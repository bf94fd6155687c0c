package occupancy

import (
	"time"

	"courtyard/internal/apperr"
	"courtyard/internal/timeslot"
)

// The occupancy calculator is the single implementation behind the
// availability heatmap, the pre-submit clash preview and the authoritative
// in-transaction admission check. Keeping one code path keeps preview and
// enforcement from drifting apart.

// BookingUnit is the slice of a booking row the calculator needs.
type BookingUnit struct {
	ID          int
	Date        time.Time
	TimeSlot    string
	Slot        timeslot.Interval
	SlotsBooked int
	Cancelled   bool
}

// SubscriptionUnit is the slice of an active subscription row the
// calculator needs. A subscription occupies exactly one capacity unit on
// every day of its range, regardless of team size.
type SubscriptionUnit struct {
	ID        int
	StartDate time.Time
	EndDate   time.Time
	TimeSlot  string
	Slot      timeslot.Interval
}

type Result struct {
	Occupied int
	Sources  []apperr.ConflictDetail
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return day(a).Equal(day(b))
}

func rangeContains(start, end, d time.Time) bool {
	dd := day(d)
	return !dd.Before(day(start)) && !dd.After(day(end))
}

// Compute sums the capacity units a candidate interval would collide with
// on one court and date.
func Compute(date time.Time, candidate timeslot.Interval, bookings []BookingUnit, subs []SubscriptionUnit) Result {
	var res Result

	for _, b := range bookings {
		if b.Cancelled || !sameDay(b.Date, date) {
			continue
		}
		if !timeslot.Overlaps(candidate, b.Slot) {
			continue
		}
		res.Occupied += b.SlotsBooked
		res.Sources = append(res.Sources, apperr.ConflictDetail{
			Date:          day(date).Format(time.DateOnly),
			TimeSlot:      b.TimeSlot,
			Source:        "booking",
			RefID:         b.ID,
			UnitsOccupied: b.SlotsBooked,
		})
	}

	for _, s := range subs {
		if !rangeContains(s.StartDate, s.EndDate, date) {
			continue
		}
		if !timeslot.Overlaps(candidate, s.Slot) {
			continue
		}
		res.Occupied++
		res.Sources = append(res.Sources, apperr.ConflictDetail{
			Date:          day(date).Format(time.DateOnly),
			TimeSlot:      s.TimeSlot,
			Source:        "subscription",
			RefID:         s.ID,
			UnitsOccupied: 1,
		})
	}

	return res
}

// Admit decides whether a request for units capacity units fits. A blocked
// court rejects outright; otherwise the general capacity rule applies, and
// capacity-1 courts degenerate to "any overlap rejects" through the same
// path.
func Admit(capacity int, blockedStatus string, date time.Time, candidate timeslot.Interval, units int, bookings []BookingUnit, subs []SubscriptionUnit) error {
	if blockedStatus != "" {
		return apperr.Newf(apperr.Conflict, "court unavailable: %s", blockedStatus)
	}
	if units < 1 {
		return apperr.New(apperr.Validation, "slots requested must be at least 1")
	}

	res := Compute(date, candidate, bookings, subs)
	if res.Occupied+units > capacity {
		details := res.Sources
		for i := range details {
			details[i].UnitsRequested = units
			details[i].Capacity = capacity
		}
		return apperr.Newf(apperr.Conflict,
			"capacity exceeded: %d occupied + %d requested > %d", res.Occupied, units, capacity).
			WithConflicts(details)
	}
	return nil
}

// RangeHits lists every overlap a candidate interval has inside a date
// range, regardless of capacity. Leave grants use it: any hit anywhere
// rejects the grant wholesale.
func RangeHits(start, end time.Time, candidate timeslot.Interval, bookings []BookingUnit, subs []SubscriptionUnit, excludeSubID int) []apperr.ConflictDetail {
	var hits []apperr.ConflictDetail

	kept := make([]SubscriptionUnit, 0, len(subs))
	for _, s := range subs {
		if s.ID != excludeSubID {
			kept = append(kept, s)
		}
	}

	for d := day(start); !d.After(day(end)); d = d.AddDate(0, 0, 1) {
		res := Compute(d, candidate, bookings, kept)
		hits = append(hits, res.Sources...)
	}

	return hits
}

// AdmitRange runs the day-by-day conservative check used when a
// subscription claims a whole date range: any day that would exceed
// capacity is a conflict. Returns the full conflict list, never a partial
// verdict. excludeSubID skips the caller's own row during extension checks.
func AdmitRange(capacity int, start, end time.Time, candidate timeslot.Interval, units int, bookings []BookingUnit, subs []SubscriptionUnit, excludeSubID int) []apperr.ConflictDetail {
	var conflicts []apperr.ConflictDetail

	kept := make([]SubscriptionUnit, 0, len(subs))
	for _, s := range subs {
		if s.ID != excludeSubID {
			kept = append(kept, s)
		}
	}

	for d := day(start); !d.After(day(end)); d = d.AddDate(0, 0, 1) {
		res := Compute(d, candidate, bookings, kept)
		if res.Occupied+units > capacity {
			for i := range res.Sources {
				res.Sources[i].UnitsRequested = units
				res.Sources[i].Capacity = capacity
			}
			conflicts = append(conflicts, res.Sources...)
		}
	}

	return conflicts
}
