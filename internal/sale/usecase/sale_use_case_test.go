package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mortar/internal/domain"
	"mortar/internal/dto"
	apperrors "mortar/internal/errors"
)

type mockSaleProcessor struct {
	CreateSaleFunc    func(ctx context.Context, input dto.NewSale) (*domain.Sale, error)
	RecordPaymentFunc func(ctx context.Context, saleID string, amount decimal.Decimal) (*domain.Sale, error)
}

func (m *mockSaleProcessor) CreateSale(ctx context.Context, input dto.NewSale) (*domain.Sale, error) {
	return m.CreateSaleFunc(ctx, input)
}

func (m *mockSaleProcessor) RecordPayment(ctx context.Context, saleID string, amount decimal.Decimal) (*domain.Sale, error) {
	return m.RecordPaymentFunc(ctx, saleID, amount)
}

type mockSaleReader struct {
	FindByIDFunc           func(ctx context.Context, id string) (*domain.Sale, error)
	FindAllFunc            func(ctx context.Context) ([]domain.Sale, error)
	FindDuesByCustomerFunc func(ctx context.Context, customerID string) ([]domain.Sale, error)
	SummaryFunc            func(ctx context.Context, dayStart, monthStart time.Time) (*dto.SalesSummary, error)
}

func (m *mockSaleReader) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockSaleReader) FindAll(ctx context.Context) ([]domain.Sale, error) {
	return m.FindAllFunc(ctx)
}

func (m *mockSaleReader) FindDuesByCustomer(ctx context.Context, customerID string) ([]domain.Sale, error) {
	return m.FindDuesByCustomerFunc(ctx, customerID)
}

func (m *mockSaleReader) Summary(ctx context.Context, dayStart, monthStart time.Time) (*dto.SalesSummary, error) {
	return m.SummaryFunc(ctx, dayStart, monthStart)
}

func newTestSaleUseCase(processor SaleProcessor) *SaleUseCase {
	return NewSaleUseCase(processor, &mockSaleReader{}, zap.NewNop(), 3)
}

func validRequest() dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerID:   "c-1",
		CustomerName: "Jane Smith",
		Items: []dto.SaleItemRequest{
			{ProductID: "p-1", Quantity: 2, Price: decimal.RequireFromString("9.99")},
		},
		PaidAmount: decimal.RequireFromString("19.98"),
	}
}

func detailFields(err error) map[string]bool {
	fields := map[string]bool{}
	if ve, ok := apperrors.IsValidationError(err); ok {
		for _, d := range ve.Details {
			fields[d.Field] = true
		}
	}
	return fields
}

func TestCreateSale_MissingCustomer(t *testing.T) {
	uc := newTestSaleUseCase(&mockSaleProcessor{})

	req := validRequest()
	req.CustomerID = ""
	req.CustomerName = ""

	_, err := uc.CreateSale(context.Background(), req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	fields := detailFields(err)
	if !fields["customerId"] || !fields["customerName"] {
		t.Errorf("expected customerId and customerName details, got %v", fields)
	}
}

func TestCreateSale_EmptyItems(t *testing.T) {
	uc := newTestSaleUseCase(&mockSaleProcessor{})

	req := validRequest()
	req.Items = nil

	_, err := uc.CreateSale(context.Background(), req)
	if !detailFields(err)["items"] {
		t.Errorf("expected items detail, got %v", err)
	}
}

func TestCreateSale_DuplicateProduct(t *testing.T) {
	uc := newTestSaleUseCase(&mockSaleProcessor{})

	req := validRequest()
	req.Items = append(req.Items, dto.SaleItemRequest{
		ProductID: "p-1", Quantity: 1, Price: decimal.RequireFromString("9.99"),
	})
	req.PaidAmount = decimal.Zero

	_, err := uc.CreateSale(context.Background(), req)
	if !detailFields(err)["items[1].product"] {
		t.Errorf("expected duplicate product detail, got %v", err)
	}
}

func TestCreateSale_NonPositiveQuantity(t *testing.T) {
	uc := newTestSaleUseCase(&mockSaleProcessor{})

	req := validRequest()
	req.Items[0].Quantity = 0

	_, err := uc.CreateSale(context.Background(), req)
	if !detailFields(err)["items[0].quantity"] {
		t.Errorf("expected quantity detail, got %v", err)
	}
}

func TestCreateSale_TotalMismatchRejected(t *testing.T) {
	uc := newTestSaleUseCase(&mockSaleProcessor{})

	req := validRequest()
	req.Total = decimal.RequireFromString("99.99")

	_, err := uc.CreateSale(context.Background(), req)
	if !detailFields(err)["total"] {
		t.Errorf("expected total detail, got %v", err)
	}
}

func TestCreateSale_MatchingTotalAccepted(t *testing.T) {
	processor := &mockSaleProcessor{
		CreateSaleFunc: func(ctx context.Context, input dto.NewSale) (*domain.Sale, error) {
			return &domain.Sale{ID: "s-1"}, nil
		},
	}
	uc := newTestSaleUseCase(processor)

	req := validRequest()
	req.Total = decimal.RequireFromString("19.98")

	if _, err := uc.CreateSale(context.Background(), req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateSale_DefaultsPaymentMethodToCash(t *testing.T) {
	var got string
	processor := &mockSaleProcessor{
		CreateSaleFunc: func(ctx context.Context, input dto.NewSale) (*domain.Sale, error) {
			got = input.PaymentMethod
			return &domain.Sale{ID: "s-1"}, nil
		},
	}
	uc := newTestSaleUseCase(processor)

	if _, err := uc.CreateSale(context.Background(), validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.PaymentMethodCash {
		t.Errorf("expected cash, got %q", got)
	}
}

func TestCreateSale_InvalidPaymentMethod(t *testing.T) {
	uc := newTestSaleUseCase(&mockSaleProcessor{})

	req := validRequest()
	req.PaymentMethod = "cheque"

	_, err := uc.CreateSale(context.Background(), req)
	if !detailFields(err)["paymentMethod"] {
		t.Errorf("expected paymentMethod detail, got %v", err)
	}
}

func TestCreateSale_RetriesDeadlockThenSucceeds(t *testing.T) {
	attempts := 0
	processor := &mockSaleProcessor{
		CreateSaleFunc: func(ctx context.Context, input dto.NewSale) (*domain.Sale, error) {
			attempts++
			if attempts < 3 {
				return nil, &mysql.MySQLError{Number: 1213}
			}
			return &domain.Sale{ID: "s-1"}, nil
		},
	}
	uc := newTestSaleUseCase(processor)

	sale, err := uc.CreateSale(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sale.ID != "s-1" {
		t.Errorf("expected sale s-1, got %v", sale)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestCreateSale_RetryBudgetExhausted(t *testing.T) {
	attempts := 0
	processor := &mockSaleProcessor{
		CreateSaleFunc: func(ctx context.Context, input dto.NewSale) (*domain.Sale, error) {
			attempts++
			return nil, &mysql.MySQLError{Number: 1213}
		},
	}
	uc := newTestSaleUseCase(processor)

	_, err := uc.CreateSale(context.Background(), validRequest())
	if _, ok := apperrors.IsDeadlockError(err); !ok {
		t.Errorf("expected DeadlockError, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestCreateSale_NonDeadlockErrorNotRetried(t *testing.T) {
	attempts := 0
	processor := &mockSaleProcessor{
		CreateSaleFunc: func(ctx context.Context, input dto.NewSale) (*domain.Sale, error) {
			attempts++
			return nil, apperrors.NewInsufficientStockError("p-1", "Aspirin")
		},
	}
	uc := newTestSaleUseCase(processor)

	_, err := uc.CreateSale(context.Background(), validRequest())
	if _, ok := apperrors.IsInsufficientStockError(err); !ok {
		t.Errorf("expected InsufficientStockError, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestRecordPayment_RejectsNonPositiveAmount(t *testing.T) {
	uc := newTestSaleUseCase(&mockSaleProcessor{})

	for _, amount := range []string{"0", "-5.00"} {
		_, err := uc.RecordPayment(context.Background(), "s-1", dto.RecordPaymentRequest{
			PaidAmount: decimal.RequireFromString(amount),
		})
		if _, ok := apperrors.IsValidationError(err); !ok {
			t.Errorf("amount %s: expected ValidationError, got %v", amount, err)
		}
	}
}
