package usecase

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mortar/internal/database"
	"mortar/internal/domain"
	"mortar/internal/dto"
	apperrors "mortar/internal/errors"
)

const maxItemsPerSale = 100

type SaleProcessor interface {
	CreateSale(ctx context.Context, input dto.NewSale) (*domain.Sale, error)
	RecordPayment(ctx context.Context, saleID string, amount decimal.Decimal) (*domain.Sale, error)
}

type SaleReader interface {
	FindByID(ctx context.Context, id string) (*domain.Sale, error)
	FindAll(ctx context.Context) ([]domain.Sale, error)
	FindDuesByCustomer(ctx context.Context, customerID string) ([]domain.Sale, error)
	Summary(ctx context.Context, dayStart, monthStart time.Time) (*dto.SalesSummary, error)
}

type SaleUseCase struct {
	processor        SaleProcessor
	reader           SaleReader
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewSaleUseCase(processor SaleProcessor, reader SaleReader, logger *zap.Logger, maxRetryAttempts int) *SaleUseCase {
	return &SaleUseCase{
		processor:        processor,
		reader:           reader,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *SaleUseCase) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*domain.Sale, error) {
	if err := validateCreateSale(req); err != nil {
		return nil, err
	}

	items := make([]dto.NewSaleItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = dto.NewSaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		}
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodCash
	}

	input := dto.NewSale{
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Items:         items,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: paymentMethod,
	}

	uc.logger.Info("sale submitted",
		zap.String("customerId", req.CustomerID),
		zap.Int("itemCount", len(items)))

	return retryOnDeadlock(ctx, uc.logger, uc.maxRetryAttempts, func() (*domain.Sale, error) {
		return uc.processor.CreateSale(ctx, input)
	})
}

func (uc *SaleUseCase) RecordPayment(ctx context.Context, saleID string, req dto.RecordPaymentRequest) (*domain.Sale, error) {
	if req.PaidAmount.Sign() <= 0 {
		return nil, apperrors.NewValidationError("paidAmount must be positive", apperrors.ValidationDetail{
			Field:   "paidAmount",
			Message: "paidAmount must be a positive amount",
		})
	}

	return retryOnDeadlock(ctx, uc.logger, uc.maxRetryAttempts, func() (*domain.Sale, error) {
		return uc.processor.RecordPayment(ctx, saleID, req.PaidAmount)
	})
}

func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return uc.reader.FindByID(ctx, id)
}

func (uc *SaleUseCase) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return uc.reader.FindAll(ctx)
}

func (uc *SaleUseCase) CustomerDues(ctx context.Context, customerID string) ([]domain.Sale, error) {
	return uc.reader.FindDuesByCustomer(ctx, customerID)
}

func (uc *SaleUseCase) StatsSummary(ctx context.Context) (*dto.SalesSummary, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return uc.reader.Summary(ctx, dayStart, monthStart)
}

func validateCreateSale(req dto.CreateSaleRequest) error {
	var details []apperrors.ValidationDetail

	if req.CustomerID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customerId",
			Message: "customerId is required",
		})
	}

	if req.CustomerName == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customerName",
			Message: "customerName is required",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxItemsPerSale {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of " + strconv.Itoa(maxItemsPerSale),
		})
	}

	seen := make(map[string]bool)
	computedTotal := decimal.Zero
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

		if item.Price.Sign() < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".price",
				Message: "price must be non-negative",
			})
		}

		computedTotal = computedTotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if req.PaidAmount.Sign() < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paidAmount",
			Message: "paidAmount must be non-negative",
		})
	}

	if req.PaymentMethod != "" && !domain.ValidPaymentMethod(req.PaymentMethod) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentMethod",
			Message: "paymentMethod must be cash or card",
		})
	}

	// The total is recomputed from the line items; a caller-supplied total
	// that disagrees is rejected rather than stored.
	if !req.Total.IsZero() && !req.Total.Equal(computedTotal) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "total",
			Message: "total does not match the sum of item subtotals",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

// retryOnDeadlock reruns the whole atomic unit on MySQL deadlock or lock
// wait timeout with linear backoff and jitter; any other error returns
// immediately.
func retryOnDeadlock(ctx context.Context, logger *zap.Logger, maxAttempts int, fn func() (*domain.Sale, error)) (*domain.Sale, error) {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		sale, err := fn()
		if err == nil {
			return sale, nil
		}

		if !database.IsDeadlock(err) {
			return nil, err
		}

		if attempt < maxAttempts {
			base := backoffs[min(attempt-1, len(backoffs)-1)]
			wait := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
			logger.Warn("deadlock detected, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}
