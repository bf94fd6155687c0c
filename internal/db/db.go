package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"courtyard/internal/apperr"
)

func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func RunMigrations(db *sqlx.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", absPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// lockTimeout bounds how long a write transaction waits on a row lock held
// by a concurrent writer before failing with a retryable Contention error.
const lockTimeout = "3s"

// Transact runs fn inside a transaction with a bounded lock wait. Any error
// from fn rolls the transaction back; pq errors are translated to apperr kinds.
func Transact(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.Unexpected, err, "begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", lockTimeout)); err != nil {
		return apperr.Wrap(apperr.Unexpected, err, "set lock timeout")
	}

	if err := fn(tx); err != nil {
		return Translate(err)
	}

	if err := tx.Commit(); err != nil {
		return Translate(err)
	}

	return nil
}

// Postgres error codes surfaced to callers with a meaning of their own.
const (
	pgLockNotAvailable    = "55P03"
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Translate maps driver-level failures onto the error taxonomy. apperr
// values pass through untouched.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgLockNotAvailable:
			return apperr.Wrap(apperr.Contention, err, "lock wait timed out, retry the request")
		case pgUniqueViolation:
			return apperr.Wrap(apperr.Conflict, err, "duplicate entry")
		case pgForeignKeyViolation:
			return apperr.Wrap(apperr.NotFound, err, "referenced row not found")
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(apperr.NotFound, err, "row not found")
	}

	return apperr.Wrap(apperr.Unexpected, err, "database error")
}

// AdvisoryLockSlot serializes writers on one (court, date) pair without
// blocking unrelated courts or dates. Transaction-scoped, released at
// commit or rollback.
func AdvisoryLockSlot(ctx context.Context, tx *sqlx.Tx, courtID int, epochDay int) error {
	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1, $2)", courtID, epochDay)
	if err != nil {
		return Translate(err)
	}
	return nil
}

func Exists(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return exists, err
}
