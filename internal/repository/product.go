package repository

import (
	"context"

	"catalogapi/internal/model"
)

// ProductRepository defines data access for products using SQL queries only.
// Lookups of a single row return sql.ErrNoRows when the row is absent.
type ProductRepository interface {
	// List returns every product with its association rows, loaded in one query.
	List(ctx context.Context) ([]model.Product, error)

	// FindByID returns a product with its association rows.
	FindByID(ctx context.Context, id int64) (*model.Product, error)

	// FindByIDs returns the subset of ids that exist, without associations.
	// Unknown ids are skipped; an empty input yields an empty result.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// SearchByName returns products whose name contains pattern (case-sensitive).
	// Result order is storage order.
	SearchByName(ctx context.Context, pattern string) ([]model.Product, error)

	// Create inserts a product and returns the stored row.
	Create(ctx context.Context, p *model.Product) (*model.Product, error)

	// Update overwrites name and price in place; associations are untouched.
	Update(ctx context.Context, p *model.Product) (*model.Product, error)

	// DeleteUnlinked removes the product in one transaction, after locking it
	// and checking it has no associations. It returns ErrProductLinked and
	// leaves everything unchanged when associations exist.
	DeleteUnlinked(ctx context.Context, id int64) error
}
