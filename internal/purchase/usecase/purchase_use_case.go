package usecase

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"mortar/internal/database"
	"mortar/internal/domain"
	"mortar/internal/dto"
	apperrors "mortar/internal/errors"
)

const maxItemsPerOrder = 100

type PurchaseProcessor interface {
	Create(ctx context.Context, input dto.NewPurchaseOrder) (*domain.PurchaseOrder, error)
	Transition(ctx context.Context, orderID string, input dto.NewPurchaseOrder) (*domain.PurchaseOrder, error)
	Delete(ctx context.Context, orderID string) error
}

type PurchaseOrderReader interface {
	FindByID(ctx context.Context, id string) (*domain.PurchaseOrder, error)
	FindAll(ctx context.Context) ([]domain.PurchaseOrder, error)
}

type PurchaseUseCase struct {
	processor        PurchaseProcessor
	reader           PurchaseOrderReader
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewPurchaseUseCase(processor PurchaseProcessor, reader PurchaseOrderReader, logger *zap.Logger, maxRetryAttempts int) *PurchaseUseCase {
	return &PurchaseUseCase{
		processor:        processor,
		reader:           reader,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *PurchaseUseCase) CreateOrder(ctx context.Context, createdBy string, req dto.PurchaseOrderRequest) (*domain.PurchaseOrder, error) {
	input, err := toNewOrder(createdBy, req)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("purchase order submitted",
		zap.String("supplierId", req.SupplierID),
		zap.String("status", input.Status),
		zap.Int("itemCount", len(input.Items)))

	return uc.withRetry(ctx, func() (*domain.PurchaseOrder, error) {
		return uc.processor.Create(ctx, input)
	})
}

func (uc *PurchaseUseCase) UpdateOrder(ctx context.Context, orderID string, req dto.PurchaseOrderRequest) (*domain.PurchaseOrder, error) {
	// createdBy is preserved from the stored order during the transition.
	input, err := toNewOrder("", req)
	if err != nil {
		return nil, err
	}

	return uc.withRetry(ctx, func() (*domain.PurchaseOrder, error) {
		return uc.processor.Transition(ctx, orderID, input)
	})
}

func (uc *PurchaseUseCase) DeleteOrder(ctx context.Context, orderID string) error {
	_, err := uc.withRetry(ctx, func() (*domain.PurchaseOrder, error) {
		return nil, uc.processor.Delete(ctx, orderID)
	})
	return err
}

func (uc *PurchaseUseCase) GetOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	return uc.reader.FindByID(ctx, id)
}

func (uc *PurchaseUseCase) ListOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	return uc.reader.FindAll(ctx)
}

func toNewOrder(createdBy string, req dto.PurchaseOrderRequest) (dto.NewPurchaseOrder, error) {
	var details []apperrors.ValidationDetail

	if req.SupplierID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "supplier",
			Message: "supplier is required",
		})
	}

	status := req.Status
	if status == "" {
		status = domain.OrderStatusDraft
	}
	if !domain.ValidOrderStatus(status) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of draft, ordered, received, cancelled",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxItemsPerOrder {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of " + strconv.Itoa(maxItemsPerOrder),
		})
	}

	seen := make(map[string]bool)
	items := make([]dto.NewPurchaseOrderItem, len(req.Items))
	for idx, item := range req.Items {
		field := "items[" + strconv.Itoa(idx) + "]"

		if item.ProductID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".product",
				Message: "product is required",
			})
		}

		if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".product",
				Message: "product must not be duplicated",
			})
		}
		seen[item.ProductID] = true

		if item.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".quantity",
				Message: "quantity must be a positive integer",
			})
		}

		if item.UnitCost.Sign() < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".unitCost",
				Message: "unitCost must be non-negative",
			})
		}

		items[idx] = dto.NewPurchaseOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		}
	}

	if len(details) > 0 {
		return dto.NewPurchaseOrder{}, apperrors.NewValidationError("validation failed", details...)
	}

	return dto.NewPurchaseOrder{
		SupplierID:           req.SupplierID,
		CreatedBy:            createdBy,
		Status:               status,
		Items:                items,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
	}, nil
}

func (uc *PurchaseUseCase) withRetry(ctx context.Context, fn func() (*domain.PurchaseOrder, error)) (*domain.PurchaseOrder, error) {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		order, err := fn()
		if err == nil {
			return order, nil
		}

		if !database.IsDeadlock(err) {
			return nil, err
		}

		if attempt < uc.maxRetryAttempts {
			base := backoffs[min(attempt-1, len(backoffs)-1)]
			wait := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
			uc.logger.Warn("deadlock detected, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", uc.maxRetryAttempts))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}
