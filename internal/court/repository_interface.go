package court

import "context"

type Repository interface {
	CreateSport(ctx context.Context, name string, hourlyPriceCents int64, capacity int) (*Sport, error)
	GetAllSports(ctx context.Context) ([]Sport, error)
	GetSportByID(ctx context.Context, id int) (*Sport, error)

	CreateCourt(ctx context.Context, sportID int, name string) (*Court, error)
	GetAllCourts(ctx context.Context) ([]CourtWithSport, error)
	GetCourtByID(ctx context.Context, id int) (*CourtWithSport, error)
	UpdateCourtStatus(ctx context.Context, id int, status Status) error
	DeleteCourt(ctx context.Context, id int) error
}
