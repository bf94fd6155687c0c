package membership

import (
	"context"
	"time"

	"courtyard/internal/apperr"
	"courtyard/internal/logger"
	"courtyard/internal/metrics"
	"courtyard/internal/timeslot"
)

// Notifier publishes domain events after a successful write. Failures are
// logged, never surfaced.
type Notifier interface {
	Publish(ctx context.Context, event string, payload any) error
}

type Service interface {
	CreatePackage(ctx context.Context, req CreatePackageRequest) (*Package, error)
	ListPackages(ctx context.Context) ([]Package, error)
	GetPackage(ctx context.Context, id int) (*Package, error)

	Subscribe(ctx context.Context, ownerID int, req SubscribeRequest) (*Subscription, error)
	Get(ctx context.Context, memberID, subscriptionID int, admin bool) (*Subscription, error)
	ListMine(ctx context.Context, memberID int) ([]Subscription, error)
	Team(ctx context.Context, subscriptionID int) ([]TeamMember, error)

	RequestLeave(ctx context.Context, memberID, subscriptionID int, admin bool, req LeaveRequest) (*Leave, error)
	DecideLeave(ctx context.Context, leaveID int, req DecideLeaveRequest) (*Leave, error)
	ListLeaves(ctx context.Context, subscriptionID int) ([]Leave, error)

	Renew(ctx context.Context, subscriptionID int, req RenewRequest) (*Subscription, error)
	Terminate(ctx context.Context, subscriptionID int) error
	AddTeamMember(ctx context.Context, subscriptionID int, req TeamMemberRequest) (*Subscription, error)
	RemoveTeamMember(ctx context.Context, subscriptionID, memberID int) (*Subscription, error)

	DeclareHoliday(ctx context.Context, req HolidayRequest) (*HolidayResult, error)
	ListHolidays(ctx context.Context) ([]Holiday, error)

	Sweep(ctx context.Context) (*SweepResult, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) CreatePackage(ctx context.Context, req CreatePackageRequest) (*Package, error) {
	return s.repo.CreatePackage(ctx, req.SportID, req.Name, req.DurationDays, req.PerPersonPriceCents, req.MaxTeamSize)
}

func (s *service) ListPackages(ctx context.Context) ([]Package, error) {
	return s.repo.ListPackages(ctx)
}

func (s *service) GetPackage(ctx context.Context, id int) (*Package, error) {
	return s.repo.GetPackageByID(ctx, id)
}

func (s *service) Subscribe(ctx context.Context, ownerID int, req SubscribeRequest) (*Subscription, error) {
	start, err := timeslot.ParseDate(req.StartDate)
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
	if hasDuplicates(req.MemberIDs) {
		return nil, apperr.New(apperr.Conflict, "duplicate team member")
	}

	sub, err := s.repo.Subscribe(ctx, SubscribeParams{
		PackageID:     req.PackageID,
		CourtID:       req.CourtID,
		OwnerID:       ownerID,
		StartDate:     start,
		TimeSlot:      req.TimeSlot,
		Slot:          slot,
		MemberIDs:     req.MemberIDs,
		DiscountCents: req.DiscountCents,
		PaidCents:     req.PaidCents,
		PaymentMode:   req.PaymentMode,
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

	s.publish(ctx, "subscription.created", sub)
	return sub, nil
}

func hasDuplicates(ids []int) bool {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func (s *service) Get(ctx context.Context, memberID, subscriptionID int, admin bool) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !admin && sub.OwnerID != memberID {
		return nil, apperr.Newf(apperr.NotFound, "subscription %d not found", subscriptionID)
	}
	return sub, nil
}

func (s *service) ListMine(ctx context.Context, memberID int) ([]Subscription, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *service) Team(ctx context.Context, subscriptionID int) ([]TeamMember, error) {
	return s.repo.ListTeam(ctx, subscriptionID)
}

func (s *service) RequestLeave(ctx context.Context, memberID, subscriptionID int, admin bool, req LeaveRequest) (*Leave, error) {
	start, err := timeslot.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := timeslot.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	var extStart *time.Time
	if req.ExtensionStart != "" {
		parsed, err := timeslot.ParseDate(req.ExtensionStart)
		if err != nil {
			return nil, err
		}
		extStart = &parsed
	}

	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !admin && sub.OwnerID != memberID {
		return nil, apperr.Newf(apperr.NotFound, "subscription %d not found", subscriptionID)
	}

	return s.repo.RequestLeave(ctx, subscriptionID, LeaveParams{
		StartDate:      start,
		EndDate:        end,
		ExtensionStart: extStart,
	})
}

func (s *service) DecideLeave(ctx context.Context, leaveID int, req DecideLeaveRequest) (*Leave, error) {
	leave, err := s.repo.DecideLeave(ctx, leaveID, req.Approve)
	if err != nil {
		if apperr.IsConflict(err) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	if leave.Status == LeaveApproved {
		s.publish(ctx, "subscription.leave_granted", leave)
	}
	return leave, nil
}

func (s *service) ListLeaves(ctx context.Context, subscriptionID int) ([]Leave, error) {
	return s.repo.ListLeaves(ctx, subscriptionID)
}

func (s *service) Renew(ctx context.Context, subscriptionID int, req RenewRequest) (*Subscription, error) {
	start := time.Now().UTC()
	if req.StartDate != "" {
		parsed, err := timeslot.ParseDate(req.StartDate)
		if err != nil {
			return nil, err
		}
		if day(parsed).Before(day(start)) {
			return nil, apperr.New(apperr.Validation, "renewal cannot start in the past")
		}
		start = parsed
	}

	sub, err := s.repo.Renew(ctx, subscriptionID, start)
	if err != nil {
		if apperr.IsConflict(err) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	s.publish(ctx, "subscription.renewed", sub)
	return sub, nil
}

func (s *service) Terminate(ctx context.Context, subscriptionID int) error {
	if err := s.repo.Terminate(ctx, subscriptionID); err != nil {
		return err
	}
	s.publish(ctx, "subscription.terminated", map[string]int{"subscription_id": subscriptionID})
	return nil
}

func (s *service) AddTeamMember(ctx context.Context, subscriptionID int, req TeamMemberRequest) (*Subscription, error) {
	return s.repo.AddTeamMember(ctx, subscriptionID, req.MemberID)
}

func (s *service) RemoveTeamMember(ctx context.Context, subscriptionID, memberID int) (*Subscription, error) {
	return s.repo.RemoveTeamMember(ctx, subscriptionID, memberID)
}

func (s *service) DeclareHoliday(ctx context.Context, req HolidayRequest) (*HolidayResult, error) {
	date, err := timeslot.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	holiday, extended, err := s.repo.DeclareHoliday(ctx, date, req.Reason)
	if err != nil {
		return nil, err
	}

	result := &HolidayResult{Holiday: holiday, Extended: extended}
	s.publish(ctx, "holiday.declared", result)
	return result, nil
}

func (s *service) ListHolidays(ctx context.Context) ([]Holiday, error) {
	return s.repo.ListHolidays(ctx)
}

func (s *service) Sweep(ctx context.Context) (*SweepResult, error) {
	ended, err := s.repo.SweepExpired(ctx)
	if err != nil {
		return nil, err
	}

	if active, err := s.repo.CountActive(ctx); err == nil {
		metrics.SubscriptionsActive.Set(float64(active))
	}

	if ended > 0 {
		s.publish(ctx, "subscription.sweep", SweepResult{Ended: ended})
	}
	return &SweepResult{Ended: ended}, nil
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
