package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"mortar/internal/database"
	"mortar/internal/errors"
)

type MySQLLedger struct{}

func NewMySQLLedger() *MySQLLedger {
	return &MySQLLedger{}
}

func (l *MySQLLedger) Reserve(ctx context.Context, tx database.Tx, productID string, quantity int) error {
	query := `UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`

	result, err := tx.ExecContext(ctx, query, quantity, productID, quantity)
	if err != nil {
		return fmt.Errorf("reserving stock for product %s: %w", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Zero rows means either the product is missing or its stock is
		// short; a follow-up read inside the same transaction tells which.
		var name string
		err := tx.QueryRowContext(ctx, `SELECT name FROM products WHERE id = ?`, productID).Scan(&name)
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError(fmt.Sprintf("Product not found: %s", productID))
		}
		if err != nil {
			return fmt.Errorf("checking product %s: %w", productID, err)
		}
		return errors.NewInsufficientStockError(productID, name)
	}

	return nil
}

func (l *MySQLLedger) Credit(ctx context.Context, tx database.Tx, productID string, quantity int) error {
	return l.apply(ctx, tx, productID, quantity)
}

func (l *MySQLLedger) Debit(ctx context.Context, tx database.Tx, productID string, quantity int) error {
	return l.apply(ctx, tx, productID, -quantity)
}

func (l *MySQLLedger) apply(ctx context.Context, tx database.Tx, productID string, delta int) error {
	query := `UPDATE products SET stock = stock + ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, delta, productID)
	if err != nil {
		return fmt.Errorf("adjusting stock for product %s: %w", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Product not found: %s", productID))
	}

	return nil
}
