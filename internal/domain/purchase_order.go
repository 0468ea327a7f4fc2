package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusDraft     = "draft"
	OrderStatusOrdered   = "ordered"
	OrderStatusReceived  = "received"
	OrderStatusCancelled = "cancelled"
)

type PurchaseOrderItem struct {
	ID        uint            `json:"-"`
	OrderID   string          `json:"-"`
	ProductID string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unitCost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type PurchaseOrder struct {
	ID                   string              `json:"id"`
	OrderNumber          string              `json:"orderNumber"`
	SupplierID           string              `json:"supplier"`
	CreatedBy            string              `json:"createdBy"`
	Items                []PurchaseOrderItem `json:"items"`
	Status               string              `json:"status"`
	TotalAmount          decimal.Decimal     `json:"totalAmount"`
	ExpectedDeliveryDate *time.Time          `json:"expectedDeliveryDate,omitempty"`
	ReceivedDate         *time.Time          `json:"receivedDate,omitempty"`
	Notes                string              `json:"notes,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

func (o PurchaseOrder) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusDraft, OrderStatusOrdered, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// SameItems reports whether two item lists carry the same product, quantity
// and unit cost entries in the same order. Used to detect item edits on
// orders that stay in the received state.
func SameItems(a, b []PurchaseOrderItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductID != b[i].ProductID ||
			a[i].Quantity != b[i].Quantity ||
			!a[i].UnitCost.Equal(b[i].UnitCost) {
			return false
		}
	}
	return true
}
