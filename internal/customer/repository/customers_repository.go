package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mortar/internal/database"
	"mortar/internal/domain"
	"mortar/internal/errors"
)

// MySQLRepository stores the nested address, health and insurance documents
// as JSON columns so the row layout stays flat.
type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const selectCustomer = `
	SELECT id, name, email, phone, address, health_info, date_of_birth, gender, insurance_info, created_at, updated_at
	FROM customers`

func (r *MySQLRepository) Create(ctx context.Context, c *domain.Customer) error {
	address, healthInfo, insurance, err := marshalDocs(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO customers (id, name, email, phone, address, health_info, date_of_birth, gender, insurance_info)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, address, healthInfo, c.DateOfBirth, c.Gender, insurance)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return errors.NewConflictError("A customer with this email already exists")
		}
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	return scanOne(r.db.QueryRowContext(ctx, selectCustomer+` WHERE id = ?`, id))
}

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	return r.query(ctx, selectCustomer+` ORDER BY created_at DESC`)
}

func (r *MySQLRepository) Search(ctx context.Context, query string) ([]domain.Customer, error) {
	pattern := "%" + query + "%"
	return r.query(ctx,
		selectCustomer+` WHERE name LIKE ? OR email LIKE ? OR phone LIKE ?`,
		pattern, pattern, pattern)
}

func (r *MySQLRepository) Update(ctx context.Context, c *domain.Customer) error {
	address, healthInfo, insurance, err := marshalDocs(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE customers
		SET name = ?, email = ?, phone = ?, address = ?, health_info = ?, date_of_birth = ?, gender = ?, insurance_info = ?
		WHERE id = ?`

	_, err = r.db.ExecContext(ctx, query,
		c.Name, c.Email, c.Phone, address, healthInfo, c.DateOfBirth, c.Gender, insurance, c.ID)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return errors.NewConflictError("A customer with this email already exists")
		}
		return fmt.Errorf("updating customer: %w", err)
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError("Customer not found")
	}

	return nil
}

func marshalDocs(c *domain.Customer) (address, healthInfo, insurance []byte, err error) {
	if address, err = json.Marshal(c.Address); err != nil {
		return nil, nil, nil, fmt.Errorf("marshaling address: %w", err)
	}
	if healthInfo, err = json.Marshal(c.HealthInfo); err != nil {
		return nil, nil, nil, fmt.Errorf("marshaling health info: %w", err)
	}
	if insurance, err = json.Marshal(c.Insurance); err != nil {
		return nil, nil, nil, fmt.Errorf("marshaling insurance info: %w", err)
	}
	return address, healthInfo, insurance, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		c                              domain.Customer
		address, healthInfo, insurance []byte
	)

	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &address, &healthInfo,
		&c.DateOfBirth, &c.Gender, &insurance, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(address, &c.Address); err != nil {
		return nil, fmt.Errorf("unmarshaling address: %w", err)
	}
	if err := json.Unmarshal(healthInfo, &c.HealthInfo); err != nil {
		return nil, fmt.Errorf("unmarshaling health info: %w", err)
	}
	if err := json.Unmarshal(insurance, &c.Insurance); err != nil {
		return nil, fmt.Errorf("unmarshaling insurance info: %w", err)
	}

	return &c, nil
}

func scanOne(row rowScanner) (*domain.Customer, error) {
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Customer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning customer row: %w", err)
	}
	return c, nil
}

func (r *MySQLRepository) query(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer row: %w", err)
		}
		customers = append(customers, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, nil
}
