package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mortar/internal/domain"
	"mortar/internal/dto"
	apperrors "mortar/internal/errors"
)

type mockSaleUseCase struct {
	CreateSaleFunc    func(ctx context.Context, req dto.CreateSaleRequest) (*domain.Sale, error)
	RecordPaymentFunc func(ctx context.Context, saleID string, req dto.RecordPaymentRequest) (*domain.Sale, error)
	GetSaleFunc       func(ctx context.Context, id string) (*domain.Sale, error)
	ListSalesFunc     func(ctx context.Context) ([]domain.Sale, error)
	CustomerDuesFunc  func(ctx context.Context, customerID string) ([]domain.Sale, error)
	StatsSummaryFunc  func(ctx context.Context) (*dto.SalesSummary, error)
}

func (m *mockSaleUseCase) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*domain.Sale, error) {
	return m.CreateSaleFunc(ctx, req)
}

func (m *mockSaleUseCase) RecordPayment(ctx context.Context, saleID string, req dto.RecordPaymentRequest) (*domain.Sale, error) {
	return m.RecordPaymentFunc(ctx, saleID, req)
}

func (m *mockSaleUseCase) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return m.GetSaleFunc(ctx, id)
}

func (m *mockSaleUseCase) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return m.ListSalesFunc(ctx)
}

func (m *mockSaleUseCase) CustomerDues(ctx context.Context, customerID string) ([]domain.Sale, error) {
	return m.CustomerDuesFunc(ctx, customerID)
}

func (m *mockSaleUseCase) StatsSummary(ctx context.Context) (*dto.SalesSummary, error) {
	return m.StatsSummaryFunc(ctx)
}

func newTestRouter(uc SaleUseCase) http.Handler {
	ctrl := NewSaleController(uc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/sales", ctrl.Create)
	r.Get("/sales", ctrl.List)
	r.Get("/sales/{id}", ctrl.Get)
	r.Patch("/sales/{id}/payment", ctrl.RecordPayment)
	return r
}

const createBody = `{
	"customerId": "c-1",
	"customerName": "Jane Smith",
	"items": [{"product": "p-1", "quantity": 2, "price": 9.99}],
	"paidAmount": 19.98
}`

func TestCreate_Returns201(t *testing.T) {
	uc := &mockSaleUseCase{
		CreateSaleFunc: func(ctx context.Context, req dto.CreateSaleRequest) (*domain.Sale, error) {
			return &domain.Sale{
				ID:            "s-1",
				InvoiceNumber: "INV000001",
				Total:         decimal.RequireFromString("19.98"),
				Status:        domain.SaleStatusPaid,
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(createBody))
	newTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var sale domain.Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	assert.Equal(t, "INV000001", sale.InvoiceNumber)
	assert.Equal(t, domain.SaleStatusPaid, sale.Status)
}

func TestCreate_InvalidJSONReturns400(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("{not json"))
	newTestRouter(&mockSaleUseCase{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_InsufficientStockReturns400(t *testing.T) {
	uc := &mockSaleUseCase{
		CreateSaleFunc: func(ctx context.Context, req dto.CreateSaleRequest) (*domain.Sale, error) {
			return nil, apperrors.NewInsufficientStockError("p-1", "Aspirin")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(createBody))
	newTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Code)
	assert.Contains(t, resp.Message, "Aspirin")
	assert.NotEmpty(t, resp.TraceID)
}

func TestCreate_MissingProductReturns400(t *testing.T) {
	uc := &mockSaleUseCase{
		CreateSaleFunc: func(ctx context.Context, req dto.CreateSaleRequest) (*domain.Sale, error) {
			return nil, apperrors.NewNotFoundError("Product not found: p-1")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(createBody))
	newTestRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_ValidationDetailsInResponse(t *testing.T) {
	uc := &mockSaleUseCase{
		CreateSaleFunc: func(ctx context.Context, req dto.CreateSaleRequest) (*domain.Sale, error) {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "items",
				Message: "items must not be empty",
			})
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(createBody))
	newTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp validationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "items", resp.Details[0].Field)
}

func TestCreate_DeadlockReturns409(t *testing.T) {
	uc := &mockSaleUseCase{
		CreateSaleFunc: func(ctx context.Context, req dto.CreateSaleRequest) (*domain.Sale, error) {
			return nil, apperrors.NewDeadlockError("max retries exceeded")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(createBody))
	newTestRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRecordPayment_MissingSaleReturns404(t *testing.T) {
	uc := &mockSaleUseCase{
		RecordPaymentFunc: func(ctx context.Context, saleID string, req dto.RecordPaymentRequest) (*domain.Sale, error) {
			return nil, apperrors.NewNotFoundError("Sale not found")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/sales/missing/payment", strings.NewReader(`{"paidAmount": 5}`))
	newTestRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGet_MissingSaleReturns404(t *testing.T) {
	uc := &mockSaleUseCase{
		GetSaleFunc: func(ctx context.Context, id string) (*domain.Sale, error) {
			return nil, apperrors.NewNotFoundError("Sale not found")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sales/missing", nil)
	newTestRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_EmptyIsJSONArray(t *testing.T) {
	uc := &mockSaleUseCase{
		ListSalesFunc: func(ctx context.Context) ([]domain.Sale, error) {
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	newTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
