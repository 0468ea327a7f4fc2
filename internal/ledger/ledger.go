// Package ledger owns product stock mutation. Sales and purchase orders
// never touch the stock column directly; they apply signed deltas through
// a Ledger inside their own transaction, so stock changes commit or abort
// together with the documents that caused them.
package ledger

import (
	"context"

	"mortar/internal/database"
)

type Ledger interface {
	// Reserve debits quantity from the product's stock, failing if the
	// remaining stock would go negative. The conditional update is the
	// concurrency guard: two competing sales for the last unit resolve to
	// exactly one success.
	Reserve(ctx context.Context, tx database.Tx, productID string, quantity int) error

	// Credit adds quantity to the product's stock.
	Credit(ctx context.Context, tx database.Tx, productID string, quantity int) error

	// Debit removes quantity without checking current stock. Used to
	// reverse a prior credit when a purchase order leaves the received
	// state; the reversal mirrors recorded quantities and is assumed
	// well-formed.
	Debit(ctx context.Context, tx database.Tx, productID string, quantity int) error
}
