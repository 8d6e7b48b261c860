package repository

import (
	"errors"
	"fmt"

	domainRepo "go-clinic-booking/internal/domain/repository"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// classify tags unique violations with ErrDuplicateKey, leaving other errors as they are
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w (%s): %w", domainRepo.ErrDuplicateKey, pgErr.ConstraintName, err)
	}
	return err
}

const dateLayout = "2006-01-02"
