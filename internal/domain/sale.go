package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

const (
	SaleStatusPaid    = "paid"
	SaleStatusPartial = "partial"
)

type SaleItem struct {
	ID        uint            `json:"-"`
	SaleID    string          `json:"-"`
	ProductID string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Sale struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          time.Time       `json:"date"`
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	Items         []SaleItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	DueAmount     decimal.Decimal `json:"dueAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ItemsTotal sums the line-item subtotals. The stored total must always
// equal this value.
func (s Sale) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// SaleStatusFor derives the payment status from the due amount: fully paid
// when nothing (or less than nothing) remains due, partial otherwise.
func SaleStatusFor(due decimal.Decimal) string {
	if due.Sign() <= 0 {
		return SaleStatusPaid
	}
	return SaleStatusPartial
}

func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}
