package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mortar/internal/domain"
	"mortar/internal/dto"
	apperrors "mortar/internal/errors"
)

type SaleUseCase interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*domain.Sale, error)
	RecordPayment(ctx context.Context, saleID string, req dto.RecordPaymentRequest) (*domain.Sale, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
	CustomerDues(ctx context.Context, customerID string) ([]domain.Sale, error)
	StatsSummary(ctx context.Context) (*dto.SalesSummary, error)
}

type SaleController struct {
	useCase SaleUseCase
	logger  *zap.Logger
}

func NewSaleController(useCase SaleUseCase, logger *zap.Logger) *SaleController {
	return &SaleController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *SaleController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", traceID)
		return
	}

	sale, err := c.useCase.CreateSale(r.Context(), req)
	if err != nil {
		c.handleSaleError(w, traceID, err, logger, true)
		return
	}

	writeJSON(w, http.StatusCreated, sale, logger)
}

func (c *SaleController) RecordPayment(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	saleID := chi.URLParam(r, "id")

	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", traceID)
		return
	}

	sale, err := c.useCase.RecordPayment(r.Context(), saleID, req)
	if err != nil {
		c.handleSaleError(w, traceID, err, logger, false)
		return
	}

	writeJSON(w, http.StatusOK, sale, logger)
}

func (c *SaleController) List(w http.ResponseWriter, r *http.Request) {
	sales, err := c.useCase.ListSales(r.Context())
	if err != nil {
		c.logger.Error("listing sales failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", "")
		return
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	writeJSON(w, http.StatusOK, sales, c.logger)
}

func (c *SaleController) Get(w http.ResponseWriter, r *http.Request) {
	sale, err := c.useCase.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), "")
			return
		}
		c.logger.Error("fetching sale failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", "")
		return
	}
	writeJSON(w, http.StatusOK, sale, c.logger)
}

func (c *SaleController) CustomerDues(w http.ResponseWriter, r *http.Request) {
	sales, err := c.useCase.CustomerDues(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		c.logger.Error("fetching customer dues failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", "")
		return
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	writeJSON(w, http.StatusOK, sales, c.logger)
}

func (c *SaleController) StatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.useCase.StatsSummary(r.Context())
	if err != nil {
		c.logger.Error("fetching sales summary failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", "")
		return
	}
	writeJSON(w, http.StatusOK, summary, c.logger)
}

// handleSaleError maps processor errors to HTTP responses. In the create
// flow a missing product is a bad request (the sale itself has no identity
// yet); in the payment flow a missing sale is a plain 404.
func (c *SaleController) handleSaleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger, creating bool) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		writeValidationError(w, traceID, ve, logger)
		return
	}

	if _, ok := apperrors.IsInsufficientStockError(err); ok {
		writeError(w, http.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error(), traceID)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		if creating {
			writeError(w, http.StatusBadRequest, "NOT_FOUND", err.Error(), traceID)
		} else {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), traceID)
		}
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		writeError(w, http.StatusConflict, "CONFLICT", err.Error(), traceID)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		writeError(w, http.StatusConflict, "DEADLOCK", err.Error(), traceID)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", traceID)
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	TraceID string                       `json:"traceId,omitempty"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func writeValidationError(w http.ResponseWriter, traceID string, ve *apperrors.ValidationError, logger *zap.Logger) {
	writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: ve.Message,
		TraceID: traceID,
		Details: ve.Details,
	}, logger)
}

func writeError(w http.ResponseWriter, status int, code, message, traceID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Message: message,
		Code:    code,
		TraceID: traceID,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
