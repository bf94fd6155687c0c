package member

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

const memberColumns = `id, name, email, password_hash, role, phone, created_at`

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role, phone string) (*Member, error) {
	var m Member
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO members (name, email, password_hash, role, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+memberColumns+`
	`, name, email, passwordHash, role, phone).StructScan(&m)
	if err != nil {
		return nil, db.Translate(err)
	}
	return &m, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `
		SELECT `+memberColumns+` FROM members WHERE email = $1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "member not found")
	}
	if err != nil {
		return nil, db.Translate(err)
	}
	return &m, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `
		SELECT `+memberColumns+` FROM members WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "member %d not found", id)
	}
	if err != nil {
		return nil, db.Translate(err)
	}
	return &m, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS (SELECT 1 FROM members WHERE email = $1)
	`, email)
}
