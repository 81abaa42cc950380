package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Product is a stored catalog item. CategoryID is nil until the product
// is assigned to a category.
type Product struct {
	ID         int64
	Name       string
	Price      float64
	Stock      int64
	CategoryID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductStore provides CRUD access to the products table.
type ProductStore struct {
	db      *sql.DB
	dialect string
}

// NewProductStore creates a ProductStore on an existing connection.
// Used by tests; normal callers get one from Open.
func NewProductStore(db *sql.DB, dialect string) *ProductStore {
	return &ProductStore{db: db, dialect: dialect}
}

const productColumns = `id, name, price, stock, category_id, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts the product and fills in its ID. Timestamps are assigned
// by the database; callers that need them should re-fetch.
func (s *ProductStore) Create(ctx context.Context, p *Product) error {
	if s.dialect == "postgres" {
		q := rebind(s.dialect, `INSERT INTO products (name, price, stock, category_id) VALUES (?, ?, ?, ?) RETURNING id`)
		if err := s.db.QueryRowContext(ctx, q, p.Name, p.Price, p.Stock, p.CategoryID).Scan(&p.ID); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, price, stock, category_id) VALUES (?, ?, ?, ?)`,
		p.Name, p.Price, p.Stock, p.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted product id: %w", err)
	}
	p.ID = id
	return nil
}

// GetByID fetches a product by primary key. Returns ErrNotFound if absent.
func (s *ProductStore) GetByID(ctx context.Context, id int64) (*Product, error) {
	q := rebind(s.dialect, `SELECT `+productColumns+` FROM products WHERE id = ?`)
	p, err := scanProduct(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return p, nil
}

// List returns products ordered by id, with offset/limit paging.
func (s *ProductStore) List(ctx context.Context, offset, limit int) ([]*Product, error) {
	q := rebind(s.dialect, `SELECT `+productColumns+` FROM products ORDER BY id LIMIT ? OFFSET ?`)
	rows, err := s.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Update writes name, price, stock, and category for an existing product.
func (s *ProductStore) Update(ctx context.Context, p *Product) error {
	q := rebind(s.dialect, `UPDATE products SET name = ?, price = ?, stock = ?, category_id = ? WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, q, p.Name, p.Price, p.Stock, p.CategoryID, p.ID); err != nil {
		return fmt.Errorf("failed to update product %d: %w", p.ID, err)
	}
	return nil
}

// Delete removes a product. Returns ErrNotFound if no row was deleted.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	q := rebind(s.dialect, `DELETE FROM products WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
