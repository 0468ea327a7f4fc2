package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidOrderStatus(t *testing.T) {
	for _, status := range []string{OrderStatusDraft, OrderStatusOrdered, OrderStatusReceived, OrderStatusCancelled} {
		assert.True(t, ValidOrderStatus(status), status)
	}
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}

func TestPurchaseOrderItemsTotal(t *testing.T) {
	order := PurchaseOrder{
		Items: []PurchaseOrderItem{
			{ProductID: "p-1", Quantity: 10, Subtotal: decimal.RequireFromString("45.00")},
			{ProductID: "p-2", Quantity: 3, Subtotal: decimal.RequireFromString("12.75")},
		},
	}

	assert.True(t, order.ItemsTotal().Equal(decimal.RequireFromString("57.75")))
}

func TestSameItems(t *testing.T) {
	a := []PurchaseOrderItem{
		{ProductID: "p-1", Quantity: 5, UnitCost: decimal.RequireFromString("2.00")},
		{ProductID: "p-2", Quantity: 1, UnitCost: decimal.RequireFromString("9.99")},
	}

	same := []PurchaseOrderItem{
		{ProductID: "p-1", Quantity: 5, UnitCost: decimal.RequireFromString("2.0")},
		{ProductID: "p-2", Quantity: 1, UnitCost: decimal.RequireFromString("9.99")},
	}
	assert.True(t, SameItems(a, same))

	differentQty := []PurchaseOrderItem{
		{ProductID: "p-1", Quantity: 6, UnitCost: decimal.RequireFromString("2.00")},
		{ProductID: "p-2", Quantity: 1, UnitCost: decimal.RequireFromString("9.99")},
	}
	assert.False(t, SameItems(a, differentQty))

	differentCost := []PurchaseOrderItem{
		{ProductID: "p-1", Quantity: 5, UnitCost: decimal.RequireFromString("2.50")},
		{ProductID: "p-2", Quantity: 1, UnitCost: decimal.RequireFromString("9.99")},
	}
	assert.False(t, SameItems(a, differentCost))

	assert.False(t, SameItems(a, a[:1]))
	assert.True(t, SameItems(nil, nil))
}
