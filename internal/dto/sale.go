package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleItemRequest struct {
	ProductID string          `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CreateSaleRequest struct {
	CustomerID    string            `json:"customerId"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	Items         []SaleItemRequest `json:"items"`
	Total         decimal.Decimal   `json:"total"`
	PaidAmount    decimal.Decimal   `json:"paidAmount"`
	PaymentMethod string            `json:"paymentMethod"`
}

type RecordPaymentRequest struct {
	PaidAmount decimal.Decimal `json:"paidAmount"`
}

// NewSale is the validated input the sale processor turns into a committed
// sale document plus stock debits.
type NewSale struct {
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	Items         []NewSaleItem
	PaidAmount    decimal.Decimal
	PaymentMethod string
}

type NewSaleItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

type SalesSummaryBucket struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type SalesSummary struct {
	Daily   SalesSummaryBucket `json:"daily"`
	Monthly SalesSummaryBucket `json:"monthly"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

type DeleteResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
