package customer

import (
	"context"

	"mortar/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, c *domain.Customer) error
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	FindAll(ctx context.Context) ([]domain.Customer, error)
	Search(ctx context.Context, query string) ([]domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id string) error
}

// SaleHistory is the slice of the sales module the customer surface needs
// for the purchase history endpoint.
type SaleHistory interface {
	FindByCustomer(ctx context.Context, customerID string) ([]domain.Sale, error)
}
