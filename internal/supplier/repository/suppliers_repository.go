package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mortar/internal/domain"
	"mortar/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const selectSupplier = `
	SELECT id, name, email, phone, address, contact_person, tax_id, status, notes, created_at, updated_at
	FROM suppliers`

func (r *MySQLRepository) Create(ctx context.Context, s *domain.Supplier) error {
	address, err := json.Marshal(s.Address)
	if err != nil {
		return fmt.Errorf("marshaling address: %w", err)
	}

	query := `
		INSERT INTO suppliers (id, name, email, phone, address, contact_person, tax_id, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Email, s.Phone, address, s.ContactPerson, s.TaxID, s.Status, s.Notes)
	if err != nil {
		return fmt.Errorf("inserting supplier: %w", err)
	}
	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*domain.Supplier, error) {
	s, err := scanSupplier(r.db.QueryRowContext(ctx, selectSupplier+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Supplier not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning supplier row: %w", err)
	}
	return s, nil
}

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := r.db.QueryContext(ctx, selectSupplier+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning supplier row: %w", err)
		}
		suppliers = append(suppliers, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating supplier rows: %w", err)
	}

	return suppliers, nil
}

func (r *MySQLRepository) Update(ctx context.Context, s *domain.Supplier) error {
	address, err := json.Marshal(s.Address)
	if err != nil {
		return fmt.Errorf("marshaling address: %w", err)
	}

	query := `
		UPDATE suppliers
		SET name = ?, email = ?, phone = ?, address = ?, contact_person = ?, tax_id = ?, status = ?, notes = ?
		WHERE id = ?`

	_, err = r.db.ExecContext(ctx, query,
		s.Name, s.Email, s.Phone, address, s.ContactPerson, s.TaxID, s.Status, s.Notes, s.ID)
	if err != nil {
		return fmt.Errorf("updating supplier: %w", err)
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError("Supplier not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSupplier(row rowScanner) (*domain.Supplier, error) {
	var (
		s       domain.Supplier
		address []byte
		contact sql.NullString
		taxID   sql.NullString
		notes   sql.NullString
	)

	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &address, &contact, &taxID, &s.Status, &notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(address, &s.Address); err != nil {
		return nil, fmt.Errorf("unmarshaling address: %w", err)
	}

	s.ContactPerson = contact.String
	s.TaxID = taxID.String
	s.Notes = notes.String

	return &s, nil
}
