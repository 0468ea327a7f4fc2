package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ReorderLevel int             `json:"reorderLevel"`
	ExpiryDate   *time.Time      `json:"expiryDate"`
}

type ReorderLevelRequest struct {
	ReorderLevel int `json:"reorderLevel"`
}
