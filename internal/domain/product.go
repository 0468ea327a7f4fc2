package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ReorderLevel int             `json:"reorderLevel"`
	ExpiryDate   *time.Time      `json:"expiryDate,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NeedsReorder reports whether stock has fallen to or below the reorder level.
func (p Product) NeedsReorder() bool {
	return p.Stock <= p.ReorderLevel
}
