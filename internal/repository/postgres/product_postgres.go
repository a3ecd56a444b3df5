package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

// List returns all products joined with their association rows.
func (r *ProductPostgres) List(ctx context.Context) ([]model.Product, error) {
	const q = `
		SELECT p.id, p.name, p.price, up.user_id
		FROM products p
		LEFT JOIN user_products up ON up.product_id = p.id
		ORDER BY p.id, up.user_id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProductsWithLinks(rows)
}

// FindByID fetches a product and its association rows.
func (r *ProductPostgres) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	const q = `
		SELECT p.id, p.name, p.price, up.user_id
		FROM products p
		LEFT JOIN user_products up ON up.product_id = p.id
		WHERE p.id = $1
		ORDER BY up.user_id
	`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products, err := scanProductsWithLinks(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, sql.ErrNoRows
	}
	return &products[0], nil
}

// FindByIDs returns the products among ids that exist.
func (r *ProductPostgres) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := `SELECT id, name, price FROM products WHERE id IN (` + strings.Join(placeholders, ", ") + `) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

// SearchByName matches pattern as a literal, case-sensitive substring.
// strpos is used instead of LIKE so '%' and '_' in the pattern are not wildcards.
func (r *ProductPostgres) SearchByName(ctx context.Context, pattern string) ([]model.Product, error) {
	const q = `SELECT id, name, price FROM products WHERE strpos(name, $1) > 0`
	rows, err := r.db.QueryContext(ctx, q, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Create inserts a product row.
func (r *ProductPostgres) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO products (name, price)
		VALUES ($1, $2)
		RETURNING id, name, price
	`
	var out model.Product
	if err := r.db.QueryRowContext(ctx, q, p.Name, p.Price).Scan(&out.ID, &out.Name, &out.Price); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// Update sets name and price of an existing product.
func (r *ProductPostgres) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		UPDATE products
		SET name = $2, price = $3
		WHERE id = $1
		RETURNING id, name, price
	`
	var out model.Product
	if err := r.db.QueryRowContext(ctx, q, p.ID, p.Name, p.Price).Scan(&out.ID, &out.Name, &out.Price); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// DeleteUnlinked deletes a product that no user references.
func (r *ProductPostgres) DeleteUnlinked(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The row lock conflicts with the key-share lock an association insert
	// takes on the product, so no link can appear between count and delete.
	var locked int64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		return err
	}

	var links int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_products WHERE product_id = $1`, id).Scan(&links); err != nil {
		return err
	}
	if links > 0 {
		err = fmt.Errorf("%w: %d association(s)", repository.ErrProductLinked, links)
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return translate(err)
	}
	return tx.Commit()
}

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	items := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// scanProductsWithLinks folds (product, user_id) join rows into products,
// preserving the order in which products first appear.
func scanProductsWithLinks(rows *sql.Rows) ([]model.Product, error) {
	items := make([]model.Product, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			p      model.Product
			userID sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &userID); err != nil {
			return nil, err
		}
		i, seen := index[p.ID]
		if !seen {
			i = len(items)
			index[p.ID] = i
			items = append(items, p)
		}
		if userID.Valid {
			items[i].Associations = append(items[i].Associations, model.UserProduct{
				UserID:    userID.Int64,
				ProductID: p.ID,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
