package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSaleItemsTotal(t *testing.T) {
	sale := Sale{
		Items: []SaleItem{
			{ProductID: "p-1", Quantity: 2, Subtotal: decimal.RequireFromString("19.98")},
			{ProductID: "p-2", Quantity: 1, Subtotal: decimal.RequireFromString("5.50")},
		},
	}

	assert.True(t, sale.ItemsTotal().Equal(decimal.RequireFromString("25.48")))
}

func TestSaleItemsTotalEmpty(t *testing.T) {
	assert.True(t, Sale{}.ItemsTotal().IsZero())
}

func TestSaleStatusFor(t *testing.T) {
	assert.Equal(t, SaleStatusPaid, SaleStatusFor(decimal.Zero))
	assert.Equal(t, SaleStatusPaid, SaleStatusFor(decimal.RequireFromString("-0.01")))
	assert.Equal(t, SaleStatusPartial, SaleStatusFor(decimal.RequireFromString("0.01")))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodCash))
	assert.True(t, ValidPaymentMethod(PaymentMethodCard))
	assert.False(t, ValidPaymentMethod("cheque"))
	assert.False(t, ValidPaymentMethod(""))
}
