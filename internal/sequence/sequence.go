// Package sequence mints human-readable document numbers (INV000123,
// PO000045) from per-entity counter rows. The counter is incremented
// atomically inside the caller's transaction, so two concurrent creations
// can never read the same value.
package sequence

import (
	"context"
	"fmt"

	"mortar/internal/database"
)

const (
	NameSale          = "sale"
	NamePurchaseOrder = "purchase_order"

	PrefixInvoice = "INV"
	PrefixOrder   = "PO"
)

type MySQLGenerator struct{}

func NewMySQLGenerator() *MySQLGenerator {
	return &MySQLGenerator{}
}

// Next increments the named counter and returns the formatted number.
// LAST_INSERT_ID(expr) makes the new value readable from the same
// connection without a second round trip, on both the insert and the
// update path.
func (g *MySQLGenerator) Next(ctx context.Context, tx database.Tx, name, prefix string) (string, error) {
	query := `
		INSERT INTO sequences (name, value) VALUES (?, LAST_INSERT_ID(1))
		ON DUPLICATE KEY UPDATE value = LAST_INSERT_ID(value + 1)`

	result, err := tx.ExecContext(ctx, query, name)
	if err != nil {
		return "", fmt.Errorf("incrementing sequence %s: %w", name, err)
	}

	value, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading sequence %s: %w", name, err)
	}

	return Format(prefix, value), nil
}

// Format left-pads the counter value to six digits behind the prefix.
// External consumers parse this shape; keep it stable.
func Format(prefix string, value int64) string {
	return fmt.Sprintf("%s%06d", prefix, value)
}
