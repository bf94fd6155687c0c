package booking

import (
	"context"
	"fmt"
	"time"

	"courtyard/internal/apperr"
	"courtyard/internal/court"
	"courtyard/internal/logger"
	"courtyard/internal/metrics"
	"courtyard/internal/occupancy"
	"courtyard/internal/pricing"
	"courtyard/internal/timeslot"
)

// Notifier publishes domain events after a successful write. Failures are
// logged, never surfaced: the reservation already committed.
type Notifier interface {
	Publish(ctx context.Context, event string, payload any) error
}

type Service interface {
	Create(ctx context.Context, memberID int, req CreateRequest) (*Booking, error)
	Get(ctx context.Context, memberID, bookingID int, admin bool) (*Booking, error)
	Cancel(ctx context.Context, memberID, bookingID int, admin bool) error
	Reschedule(ctx context.Context, bookingID int, req RescheduleRequest) (*Booking, error)
	Extend(ctx context.Context, bookingID int, req ExtendRequest) (*Booking, error)
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	Check(ctx context.Context, req CheckRequest) (*CheckResult, error)
	Availability(ctx context.Context, courtID int, date string) ([]AvailabilityCell, error)
	ListMine(ctx context.Context, memberID int) ([]Booking, error)
	ListByCourtDate(ctx context.Context, courtID int, date string) ([]Booking, error)
	StatsByDay(ctx context.Context, from, to string) ([]DayStat, error)
	StatsByCourt(ctx context.Context, from, to string) ([]CourtStat, error)
}

type service struct {
	repo     Repository
	courts   court.Repository
	notifier Notifier
}

func NewService(repo Repository, courts court.Repository, notifier Notifier) Service {
	return &service{repo: repo, courts: courts, notifier: notifier}
}

func (s *service) Create(ctx context.Context, memberID int, req CreateRequest) (*Booking, error) {
	date, err := timeslot.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	slot, err := timeslot.ParseSlot(req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if req.DiscountCents < 0 || req.PaidCents < 0 {
		return nil, apperr.New(apperr.Validation, "discount and payment must not be negative")
	}

	b, err := s.repo.CreateReservation(ctx, CreateParams{
		CourtID:       req.CourtID,
		MemberID:      memberID,
		Date:          date,
		TimeSlot:      req.TimeSlot,
		Slot:          slot,
		SlotsBooked:   req.SlotsBooked,
		DiscountCents: req.DiscountCents,
		PaidCents:     req.PaidCents,
		PaymentMode:   req.PaymentMode,
		Accessories:   req.Accessories,
	})
	if err != nil {
		if apperr.IsConflict(err) {
			metrics.BookingConflicts.Inc()
		}
		if apperr.IsContention(err) {
			metrics.LockContention.Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.publish(ctx, "booking.created", b)
	return b, nil
}

func (s *service) Get(ctx context.Context, memberID, bookingID int, admin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !admin && b.MemberID != memberID {
		return nil, apperr.Newf(apperr.NotFound, "booking %d not found", bookingID)
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, memberID, bookingID int, admin bool) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !admin && b.MemberID != memberID {
		return apperr.Newf(apperr.NotFound, "booking %d not found", bookingID)
	}

	if err := s.repo.Cancel(ctx, bookingID); err != nil {
		return err
	}

	s.publish(ctx, "booking.cancelled", map[string]int{"booking_id": bookingID})
	return nil
}

func (s *service) Reschedule(ctx context.Context, bookingID int, req RescheduleRequest) (*Booking, error) {
	date, err := timeslot.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	slot, err := timeslot.ParseSlot(req.TimeSlot)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.Reschedule(ctx, bookingID, date, req.TimeSlot, slot)
	if err != nil {
		if apperr.IsConflict(err) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	s.publish(ctx, "booking.rescheduled", b)
	return b, nil
}

func (s *service) Extend(ctx context.Context, bookingID int, req ExtendRequest) (*Booking, error) {
	slot, err := timeslot.ParseSlot(req.TimeSlot)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.Extend(ctx, bookingID, req.TimeSlot, slot)
	if err != nil {
		if apperr.IsConflict(err) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	s.publish(ctx, "booking.extended", b)
	return b, nil
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	slot, err := timeslot.ParseSlot(req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if req.DiscountCents < 0 {
		return nil, apperr.New(apperr.Validation, "discount must not be negative")
	}

	c, err := s.courts.GetCourtByID(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}

	base := pricing.BookingBase(slot.Duration(), c.HourlyPriceCents, c.Capacity, req.SlotsBooked)
	lines := make([]pricing.AccessoryLine, 0, len(req.Accessories))
	var accessories int64
	for _, a := range req.Accessories {
		lines = append(lines, pricing.AccessoryLine{PriceCents: a.PriceCents, Quantity: a.Quantity})
		accessories += a.PriceCents * int64(a.Quantity)
	}

	return &Quote{
		BaseCents:        base,
		DiscountCents:    req.DiscountCents,
		AccessoriesCents: accessories,
		TotalCents:       pricing.BookingTotal(base, req.DiscountCents, lines),
		DurationMinutes:  slot.Duration(),
	}, nil
}

func (s *service) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	date, err := timeslot.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	slot, err := timeslot.ParseSlot(req.TimeSlot)
	if err != nil {
		return nil, err
	}

	c, err := s.courts.GetCourtByID(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}

	bookings, subs, err := s.repo.Snapshot(ctx, req.CourtID, date)
	if err != nil {
		return nil, err
	}

	result := occupancy.Compute(date, slot, bookings, subs)
	free := c.Capacity - result.Occupied
	return &CheckResult{
		Available: c.Status == court.StatusAvailable && free >= req.SlotsBooked,
		Occupied:  result.Occupied,
		Capacity:  c.Capacity,
		Conflicts: result.Sources,
	}, nil
}

// Availability renders a 48-cell half-hour heatmap for one court and date
// from a single occupancy snapshot.
func (s *service) Availability(ctx context.Context, courtID int, dateStr string) ([]AvailabilityCell, error) {
	date, err := timeslot.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	c, err := s.courts.GetCourtByID(ctx, courtID)
	if err != nil {
		return nil, err
	}

	bookings, subs, err := s.repo.Snapshot(ctx, courtID, date)
	if err != nil {
		return nil, err
	}

	blocked := c.Status != court.StatusAvailable
	cells := make([]AvailabilityCell, 0, 48)
	for start := 0; start < 24*60; start += 30 {
		cell := timeslot.Interval{Start: start, End: start + 30}
		result := occupancy.Compute(date, cell, bookings, subs)
		free := c.Capacity - result.Occupied
		if free < 0 {
			free = 0
		}
		cells = append(cells, AvailabilityCell{
			TimeSlot:  fmt.Sprintf("%s - %s", formatMinutes(start), formatMinutes(start+30)),
			Occupied:  result.Occupied,
			Capacity:  c.Capacity,
			Free:      free,
			Available: !blocked && free > 0,
		})
	}

	return cells, nil
}

func formatMinutes(m int) string {
	m = m % (24 * 60)
	return time.Date(2000, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("3:04 PM")
}

func (s *service) ListMine(ctx context.Context, memberID int) ([]Booking, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *service) ListByCourtDate(ctx context.Context, courtID int, dateStr string) ([]Booking, error) {
	date, err := timeslot.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCourtDate(ctx, courtID, date)
}

func (s *service) statsRange(from, to string) (time.Time, time.Time, error) {
	start, err := timeslot.ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := timeslot.ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.New(apperr.Validation, "range end precedes start")
	}
	return start, end, nil
}

func (s *service) StatsByDay(ctx context.Context, from, to string) ([]DayStat, error) {
	start, end, err := s.statsRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.StatsByDay(ctx, start, end)
}

func (s *service) StatsByCourt(ctx context.Context, from, to string) ([]CourtStat, error) {
	start, end, err := s.statsRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.StatsByCourt(ctx, start, end)
}

func (s *service) publish(ctx context.Context, event string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, event, payload); err != nil {
		logger.WithError(err).Error("publish event failed", "event", event)
		return
	}
	metrics.EventsPublished.WithLabelValues(event).Inc()
}
