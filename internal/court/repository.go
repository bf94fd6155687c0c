package court

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"courtyard/internal/apperr"
	"courtyard/internal/db"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CreateSport(ctx context.Context, name string, hourlyPriceCents int64, capacity int) (*Sport, error) {
	query := `
		INSERT INTO sports (name, hourly_price_cents, capacity)
		VALUES ($1, $2, $3)
		RETURNING id, name, hourly_price_cents, capacity, created_at
	`

	var sport Sport
	err := r.db.GetContext(ctx, &sport, query, name, hourlyPriceCents, capacity)
	if err != nil {
		return nil, db.Translate(err)
	}

	return &sport, nil
}

func (r *repository) GetAllSports(ctx context.Context) ([]Sport, error) {
	query := `
		SELECT id, name, hourly_price_cents, capacity, created_at
		FROM sports
		ORDER BY name ASC
	`

	var sports []Sport
	if err := r.db.SelectContext(ctx, &sports, query); err != nil {
		return nil, db.Translate(err)
	}

	return sports, nil
}

func (r *repository) GetSportByID(ctx context.Context, id int) (*Sport, error) {
	query := `
		SELECT id, name, hourly_price_cents, capacity, created_at
		FROM sports
		WHERE id = $1
	`

	var sport Sport
	err := r.db.GetContext(ctx, &sport, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "sport %d not found", id)
	}
	if err != nil {
		return nil, db.Translate(err)
	}

	return &sport, nil
}

func (r *repository) CreateCourt(ctx context.Context, sportID int, name string) (*Court, error) {
	query := `
		INSERT INTO courts (sport_id, name, status)
		VALUES ($1, $2, 'available')
		RETURNING id, sport_id, name, status, created_at
	`

	var c Court
	if err := r.db.GetContext(ctx, &c, query, sportID, name); err != nil {
		return nil, db.Translate(err)
	}

	return &c, nil
}

const courtWithSportColumns = `
	c.id, c.sport_id, c.name, c.status, c.created_at,
	s.name AS sport_name,
	s.hourly_price_cents,
	s.capacity
`

func (r *repository) GetAllCourts(ctx context.Context) ([]CourtWithSport, error) {
	query := `
		SELECT ` + courtWithSportColumns + `
		FROM courts c
		JOIN sports s ON c.sport_id = s.id
		ORDER BY s.name, c.name
	`

	var courts []CourtWithSport
	if err := r.db.SelectContext(ctx, &courts, query); err != nil {
		return nil, db.Translate(err)
	}

	return courts, nil
}

func (r *repository) GetCourtByID(ctx context.Context, id int) (*CourtWithSport, error) {
	query := `
		SELECT ` + courtWithSportColumns + `
		FROM courts c
		JOIN sports s ON c.sport_id = s.id
		WHERE c.id = $1
	`

	var c CourtWithSport
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "court %d not found", id)
	}
	if err != nil {
		return nil, db.Translate(err)
	}

	return &c, nil
}

func (r *repository) UpdateCourtStatus(ctx context.Context, id int, status Status) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE courts SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return db.Translate(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.Translate(err)
	}
	if rowsAffected == 0 {
		return apperr.Newf(apperr.NotFound, "court %d not found", id)
	}

	return nil
}

func (r *repository) DeleteCourt(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courts WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.Translate(err)
	}
	if rowsAffected == 0 {
		return apperr.Newf(apperr.NotFound, "court %d not found", id)
	}

	return nil
}
