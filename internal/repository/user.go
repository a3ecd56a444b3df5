package repository

import (
	"context"

	"catalogapi/internal/model"
)

// UserRepository defines data access for users and their association rows.
type UserRepository interface {
	// List returns all users and the products they reference as one graph,
	// loaded in a single query.
	List(ctx context.Context) (*model.Graph, error)

	// FindByID returns a graph holding exactly one user and its products,
	// or sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*model.Graph, error)

	// ExistsByEmail reports whether a user already uses email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts the user and one association row per product id in a
	// single transaction. Any failure rolls back the user row too.
	// Returns ErrDuplicateKey when the email is taken and ErrForeignKey when a
	// product vanished before commit.
	Create(ctx context.Context, u *model.User, productIDs []int64) (*model.User, error)

	// Link inserts one association row. Returns ErrDuplicateKey when the pair
	// exists and ErrForeignKey when either endpoint is missing.
	Link(ctx context.Context, userID, productID int64) error
}
