package postgres

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userGraphSelect = `
		SELECT u.id, u.name, u.email, p.id, p.name, p.price
		FROM users u
		LEFT JOIN user_products up ON up.user_id = u.id
		LEFT JOIN products p ON p.id = up.product_id
`

// List loads every user with its products in one query.
func (r *UserPostgres) List(ctx context.Context) (*model.Graph, error) {
	q := userGraphSelect + `ORDER BY u.id, p.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUserGraph(rows)
}

// FindByID loads one user with its products.
func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.Graph, error) {
	q := userGraphSelect + `WHERE u.id = $1 ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	g, err := scanUserGraph(rows)
	if err != nil {
		return nil, err
	}
	if len(g.Users) == 0 {
		return nil, sql.ErrNoRows
	}
	return g, nil
}

// ExistsByEmail checks for an existing user with the given email.
func (r *UserPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts the user and its association rows atomically.
func (r *UserPostgres) Create(ctx context.Context, u *model.User, productIDs []int64) (_ *model.User, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qUser = `
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		RETURNING id, name, email
	`
	out := model.User{}
	if err = tx.QueryRowContext(ctx, qUser, u.Name, u.Email).Scan(&out.ID, &out.Name, &out.Email); err != nil {
		err = translate(err)
		return nil, err
	}

	const qLink = `INSERT INTO user_products (user_id, product_id) VALUES ($1, $2)`
	out.Associations = make([]model.UserProduct, 0, len(productIDs))
	for _, pid := range productIDs {
		if _, err = tx.ExecContext(ctx, qLink, out.ID, pid); err != nil {
			err = translate(err)
			return nil, err
		}
		out.Associations = append(out.Associations, model.UserProduct{UserID: out.ID, ProductID: pid})
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Link inserts a single association row.
func (r *UserPostgres) Link(ctx context.Context, userID, productID int64) error {
	const q = `INSERT INTO user_products (user_id, product_id) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, q, userID, productID)
	return translate(err)
}

// scanUserGraph folds (user, product) join rows into a Graph. Users without
// any association yield one row with NULL product columns and end up with
// no associations.
func scanUserGraph(rows *sql.Rows) (*model.Graph, error) {
	g := model.NewGraph()
	index := make(map[int64]int)
	for rows.Next() {
		var (
			u            model.User
			productID    sql.NullInt64
			productName  sql.NullString
			productPrice decimal.NullDecimal
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &productID, &productName, &productPrice); err != nil {
			return nil, err
		}
		i, seen := index[u.ID]
		if !seen {
			i = len(g.Users)
			index[u.ID] = i
			g.Users = append(g.Users, u)
		}
		if !productID.Valid {
			continue
		}
		g.Users[i].Associations = append(g.Users[i].Associations, model.UserProduct{
			UserID:    u.ID,
			ProductID: productID.Int64,
		})
		if _, ok := g.Products[productID.Int64]; !ok {
			g.Products[productID.Int64] = model.Product{
				ID:    productID.Int64,
				Name:  productName.String,
				Price: productPrice.Decimal,
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return g, nil
}
