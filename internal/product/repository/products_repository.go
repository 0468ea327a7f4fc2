package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mortar/internal/domain"
	"mortar/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const selectProduct = `
	SELECT id, name, category, price, stock, reorder_level, expiry_date, created_at, updated_at
	FROM products`

func (r *MySQLRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category, price, stock, reorder_level, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Category, p.Price, p.Stock, p.ReorderLevel, p.ExpiryDate)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectProduct+` WHERE id = ?`, id))
}

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, selectProduct+` ORDER BY created_at DESC`)
}

// Update writes product fields except stock, which only the ledger mutates
// during sale and purchase flows. This plain update deliberately carries
// the stock column too, matching the open CRUD surface of the original
// product endpoints: callers correcting stock by hand go through here.
func (r *MySQLRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = ?, category = ?, price = ?, stock = ?, reorder_level = ?, expiry_date = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Category, p.Price, p.Stock, p.ReorderLevel, p.ExpiryDate, p.ID)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError("Product not found")
	}

	return nil
}

func (r *MySQLRepository) FindLowStock(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, selectProduct+` WHERE stock <= reorder_level`)
}

func (r *MySQLRepository) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.Product, error) {
	return r.query(ctx, selectProduct+` WHERE expiry_date IS NOT NULL AND expiry_date BETWEEN ? AND ? ORDER BY expiry_date`, from, to)
}

func (r *MySQLRepository) UpdateReorderLevel(ctx context.Context, id string, level int) (*domain.Product, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE products SET reorder_level = ? WHERE id = ?`, level, id)
	if err != nil {
		return nil, fmt.Errorf("updating reorder level: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}

	return r.FindByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MySQLRepository) scanOne(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.ReorderLevel, &p.ExpiryDate, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning product row: %w", err)
	}
	return &p, nil
}

func (r *MySQLRepository) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.ReorderLevel, &p.ExpiryDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}
