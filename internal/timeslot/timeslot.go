package timeslot

import (
	"strings"
	"time"

	"courtyard/internal/apperr"
)

const minutesPerDay = 24 * 60

// Interval is a slot within a calendar day in minutes since midnight,
// half-open: [Start, End). An interval crossing midnight is normalized so
// that End exceeds minutesPerDay.
type Interval struct {
	Start int
	End   int
}

var clockLayouts = []string{"3:04 PM", "15:04"}

// ToMinutes parses a clock string ("7:30 PM" or "19:30") into minutes since
// midnight. Unparseable input yields 0; format validation belongs to the
// request boundary, not here.
func ToMinutes(s string) int {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute()
		}
	}
	return 0
}

// Normalize builds an interval from raw minute offsets, pushing the end past
// midnight when it does not follow the start on the same day.
func Normalize(start, end int) Interval {
	if end <= start {
		end += minutesPerDay
	}
	return Interval{Start: start, End: end}
}

// ParseSlot parses "H:MM AM/PM - H:MM AM/PM" (or the 24-hour equivalent)
// into a normalized interval.
func ParseSlot(s string) (Interval, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Interval{}, apperr.Newf(apperr.Validation, "invalid time slot %q, want \"start - end\"", s)
	}

	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])
	if !parseable(startStr) || !parseable(endStr) {
		return Interval{}, apperr.Newf(apperr.Validation, "invalid time slot %q", s)
	}

	return Normalize(ToMinutes(startStr), ToMinutes(endStr)), nil
}

func parseable(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Duration reports the interval length in minutes.
func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

func (iv Interval) shift() Interval {
	return Interval{Start: iv.Start + minutesPerDay, End: iv.End + minutesPerDay}
}

func rawOverlap(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// Overlaps reports whether two intervals share any instant. Touching
// endpoints do not overlap. Intervals that cross midnight are compared
// against the neighbouring day as well, so "11:00 PM - 12:30 AM" collides
// with "12:15 AM - 1:00 AM".
func Overlaps(a, b Interval) bool {
	if a.Duration() <= 0 || b.Duration() <= 0 {
		return false
	}
	return rawOverlap(a, b) || rawOverlap(a.shift(), b) || rawOverlap(a, b.shift())
}

// ParseDate parses a calendar day in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, apperr.Newf(apperr.Validation, "invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}

// EpochDay numbers a calendar day for advisory lock keys.
func EpochDay(t time.Time) int {
	return int(t.Unix() / (24 * 60 * 60))
}
