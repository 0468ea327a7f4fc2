package product

import (
	"context"
	"time"

	"mortar/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	FindLowStock(ctx context.Context) ([]domain.Product, error)
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.Product, error)
	UpdateReorderLevel(ctx context.Context, id string, level int) (*domain.Product, error)
}
