package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unitCost"`
}

type PurchaseOrderRequest struct {
	SupplierID           string                     `json:"supplier"`
	Items                []PurchaseOrderItemRequest `json:"items"`
	Status               string                     `json:"status"`
	ExpectedDeliveryDate *time.Time                 `json:"expectedDeliveryDate"`
	Notes                string                     `json:"notes"`
}

// NewPurchaseOrder is the validated input for creating an order; the same
// shape carries a full-order update through a status transition.
type NewPurchaseOrder struct {
	SupplierID           string
	CreatedBy            string
	Status               string
	Items                []NewPurchaseOrderItem
	ExpectedDeliveryDate *time.Time
	Notes                string
}

type NewPurchaseOrderItem struct {
	ProductID string
	Quantity  int
	UnitCost  decimal.Decimal
}
