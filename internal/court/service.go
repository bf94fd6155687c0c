package court

import (
	"context"

	"courtyard/internal/apperr"
)

type Service interface {
	CreateSport(ctx context.Context, req CreateSportRequest) (*Sport, error)
	ListSports(ctx context.Context) ([]Sport, error)

	CreateCourt(ctx context.Context, req CreateCourtRequest) (*Court, error)
	ListCourts(ctx context.Context) ([]CourtWithSport, error)
	GetCourt(ctx context.Context, id int) (*CourtWithSport, error)
	ChangeStatus(ctx context.Context, id int, status string) error
	DeleteCourt(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateSport(ctx context.Context, req CreateSportRequest) (*Sport, error) {
	if req.HourlyPriceCents <= 0 {
		return nil, apperr.New(apperr.Validation, "hourly price must be positive")
	}
	if req.Capacity < 1 {
		return nil, apperr.New(apperr.Validation, "capacity must be at least 1")
	}
	return s.repo.CreateSport(ctx, req.Name, req.HourlyPriceCents, req.Capacity)
}

func (s *service) ListSports(ctx context.Context) ([]Sport, error) {
	return s.repo.GetAllSports(ctx)
}

func (s *service) CreateCourt(ctx context.Context, req CreateCourtRequest) (*Court, error) {
	if _, err := s.repo.GetSportByID(ctx, req.SportID); err != nil {
		return nil, err
	}
	return s.repo.CreateCourt(ctx, req.SportID, req.Name)
}

func (s *service) ListCourts(ctx context.Context) ([]CourtWithSport, error) {
	return s.repo.GetAllCourts(ctx)
}

func (s *service) GetCourt(ctx context.Context, id int) (*CourtWithSport, error) {
	return s.repo.GetCourtByID(ctx, id)
}

func (s *service) ChangeStatus(ctx context.Context, id int, status string) error {
	st := Status(status)
	if !st.Valid() {
		return apperr.Newf(apperr.Validation, "unknown court status %q", status)
	}
	return s.repo.UpdateCourtStatus(ctx, id, st)
}

func (s *service) DeleteCourt(ctx context.Context, id int) error {
	return s.repo.DeleteCourt(ctx, id)
}
