package product

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mortar/internal/domain"
	"mortar/internal/dto"
	apperrors "mortar/internal/errors"
)

// expiryAlertWindow is how far ahead the expiring-products alert looks.
const expiryAlertWindow = 6 // months

type Controller struct {
	repo   Repository
	logger *zap.Logger
}

func NewController(repo Repository, logger *zap.Logger) *Controller {
	return &Controller{
		repo:   repo,
		logger: logger,
	}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.repo.FindAll(r.Context())
	if err != nil {
		c.logger.Error("listing products failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.writeJSON(w, http.StatusOK, products)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	product, err := c.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, "fetching product failed")
		return
	}
	c.writeJSON(w, http.StatusOK, product)
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if err := validate(req); err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Category:     req.Category,
		Price:        req.Price,
		Stock:        req.Stock,
		ReorderLevel: req.ReorderLevel,
		ExpiryDate:   req.ExpiryDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.repo.Create(r.Context(), product); err != nil {
		c.logger.Error("creating product failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	c.logger.Info("product created",
		zap.String("productId", product.ID),
		zap.String("name", product.Name))

	c.writeJSON(w, http.StatusCreated, product)
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if err := validate(req); err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Existence check first: a no-op UPDATE affects zero rows in MySQL,
	// which is indistinguishable from a missing product.
	product, err := c.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, "fetching product failed")
		return
	}

	product.Name = req.Name
	product.Category = req.Category
	product.Price = req.Price
	product.Stock = req.Stock
	product.ReorderLevel = req.ReorderLevel
	product.ExpiryDate = req.ExpiryDate

	if err := c.repo.Update(r.Context(), product); err != nil {
		c.logger.Error("updating product failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	updated, err := c.repo.FindByID(r.Context(), product.ID)
	if err != nil {
		c.handleError(w, err, "fetching product failed")
		return
	}

	c.writeJSON(w, http.StatusOK, updated)
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		c.handleError(w, err, "deleting product failed")
		return
	}
	c.writeJSON(w, http.StatusOK, dto.DeleteResponse{
		Message:   "Product deleted successfully",
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) LowStockAlerts(w http.ResponseWriter, r *http.Request) {
	products, err := c.repo.FindLowStock(r.Context())
	if err != nil {
		c.logger.Error("fetching low stock products failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.writeJSON(w, http.StatusOK, products)
}

func (c *Controller) ExpiringAlerts(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	products, err := c.repo.FindExpiringBetween(r.Context(), now, now.AddDate(0, expiryAlertWindow, 0))
	if err != nil {
		c.logger.Error("fetching expiring products failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.writeJSON(w, http.StatusOK, products)
}

func (c *Controller) UpdateReorderLevel(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if req.ReorderLevel < 0 {
		c.writeError(w, http.StatusBadRequest, "reorderLevel must not be negative")
		return
	}

	product, err := c.repo.UpdateReorderLevel(r.Context(), chi.URLParam(r, "id"), req.ReorderLevel)
	if err != nil {
		c.handleError(w, err, "updating reorder level failed")
		return
	}

	c.writeJSON(w, http.StatusOK, product)
}

func validate(req dto.ProductRequest) error {
	switch {
	case req.Name == "":
		return apperrors.NewValidationError("name is required")
	case req.Price.Sign() < 0:
		return apperrors.NewValidationError("price must not be negative")
	case req.Stock < 0:
		return apperrors.NewValidationError("stock must not be negative")
	case req.ReorderLevel < 0:
		return apperrors.NewValidationError("reorderLevel must not be negative")
	}
	return nil
}

func (c *Controller) handleError(w http.ResponseWriter, err error, logMsg string) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	c.logger.Error(logMsg, zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "Server error")
}

func (c *Controller) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, dto.ErrorResponse{Message: message})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
