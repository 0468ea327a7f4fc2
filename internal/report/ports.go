package report

import (
	"context"
	"time"

	"mortar/internal/dto"
)

type Repository interface {
	SalesReport(ctx context.Context, from, to time.Time) (*dto.SalesReport, error)
	InventoryReport(ctx context.Context, now time.Time) (*dto.InventoryReport, error)
	CustomersReport(ctx context.Context, from, to time.Time) (*dto.CustomersReport, error)
	PurchasesReport(ctx context.Context, from, to time.Time) (*dto.PurchasesReport, error)
}
