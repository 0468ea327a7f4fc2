package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mortar/internal/domain"
	"mortar/internal/dto"
	apperrors "mortar/internal/errors"
	"mortar/internal/middleware"
)

type PurchaseUseCase interface {
	CreateOrder(ctx context.Context, createdBy string, req dto.PurchaseOrderRequest) (*domain.PurchaseOrder, error)
	UpdateOrder(ctx context.Context, orderID string, req dto.PurchaseOrderRequest) (*domain.PurchaseOrder, error)
	DeleteOrder(ctx context.Context, orderID string) error
	GetOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error)
	ListOrders(ctx context.Context) ([]domain.PurchaseOrder, error)
}

type PurchaseController struct {
	useCase PurchaseUseCase
	logger  *zap.Logger
}

func NewPurchaseController(useCase PurchaseUseCase, logger *zap.Logger) *PurchaseController {
	return &PurchaseController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *PurchaseController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.PurchaseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", traceID)
		return
	}

	actor, _ := middleware.ActorFromContext(r.Context())

	order, err := c.useCase.CreateOrder(r.Context(), actor.ID, req)
	if err != nil {
		// A missing product reference aborts the create as a bad request.
		c.handleError(w, traceID, err, logger, http.StatusBadRequest)
		return
	}

	c.writeJSON(w, http.StatusCreated, order)
}

func (c *PurchaseController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	orderID := chi.URLParam(r, "id")

	var req dto.PurchaseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", traceID)
		return
	}

	order, err := c.useCase.UpdateOrder(r.Context(), orderID, req)
	if err != nil {
		c.handleError(w, traceID, err, logger, http.StatusNotFound)
		return
	}

	c.writeJSON(w, http.StatusOK, order)
}

func (c *PurchaseController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	orderID := chi.URLParam(r, "id")

	if err := c.useCase.DeleteOrder(r.Context(), orderID); err != nil {
		c.handleError(w, traceID, err, logger, http.StatusNotFound)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.DeleteResponse{
		Message:   "Purchase order deleted successfully",
		Timestamp: time.Now().UTC(),
	})
}

func (c *PurchaseController) Get(w http.ResponseWriter, r *http.Request) {
	order, err := c.useCase.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), "")
			return
		}
		c.logger.Error("fetching purchase order failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", "")
		return
	}
	c.writeJSON(w, http.StatusOK, order)
}

func (c *PurchaseController) List(w http.ResponseWriter, r *http.Request) {
	orders, err := c.useCase.ListOrders(r.Context())
	if err != nil {
		c.logger.Error("listing purchase orders failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", "")
		return
	}
	if orders == nil {
		orders = []domain.PurchaseOrder{}
	}
	c.writeJSON(w, http.StatusOK, orders)
}

// handleError maps use-case errors to HTTP responses. notFoundStatus
// distinguishes flows where the order itself must exist (404) from the
// create flow where a missing reference is a bad request (400).
func (c *PurchaseController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger, notFoundStatus int) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "VALIDATION_ERROR",
			"message": ve.Message,
			"traceId": traceID,
			"details": ve.Details,
		})
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, notFoundStatus, "NOT_FOUND", err.Error(), traceID)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, "CONFLICT", err.Error(), traceID)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, http.StatusConflict, "DEADLOCK", err.Error(), traceID)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", traceID)
}

func (c *PurchaseController) writeError(w http.ResponseWriter, status int, code, message, traceID string) {
	c.writeJSON(w, status, dto.ErrorResponse{
		Message: message,
		Code:    code,
		TraceID: traceID,
	})
}

func (c *PurchaseController) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
