package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "github.com/patitas/vets-api/pkg/errors"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Postgres error codes translated to client errors.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// translateError converts constraint violations into Validation errors
// so unknown foreign keys surface as client faults, not 500s.
func translateError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgForeignKeyViolation:
			return apperrors.NewValidation(
				fmt.Sprintf("unknown reference (%s)", pqErr.Constraint), err)
		case pgUniqueViolation:
			return apperrors.NewValidation(
				fmt.Sprintf("duplicate entry (%s)", pqErr.Constraint), err)
		case pgCheckViolation:
			return apperrors.NewValidation(
				fmt.Sprintf("constraint violated (%s)", pqErr.Constraint), err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
