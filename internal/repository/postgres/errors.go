package postgres

import (
	"errors"
	"fmt"

	"authcore/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// mapError translates driver errors into repository sentinels
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicateEntry, pqErr.Constraint)
	}
	return err
}

// NewTransactor returns the transaction runner shared by all repositories
func NewTransactor(db *sqlx.DB) repository.Transactor {
	base := repository.NewBaseRepository(db)
	return &base
}
