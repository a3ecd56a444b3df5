package postgres

import (
	"fmt"

	"catalogapi/internal/database"
	"catalogapi/internal/repository"
)

// translate maps PostgreSQL constraint violations to repository sentinels,
// keeping the driver error in the chain.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%w (%s): %w", repository.ErrDuplicateKey, database.ConstraintName(err), err)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w (%s): %w", repository.ErrForeignKey, database.ConstraintName(err), err)
	default:
		return err
	}
}
