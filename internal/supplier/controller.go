package supplier

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
	suppliers, err := c.repo.FindAll(r.Context())
	if err != nil {
		c.logger.Error("listing suppliers failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}
	c.writeJSON(w, http.StatusOK, suppliers)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	supplier, err := c.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, "fetching supplier failed")
		return
	}
	c.writeJSON(w, http.StatusOK, supplier)
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if err := validate(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	supplier := &domain.Supplier{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		TaxID:         req.TaxID,
		Status:        req.Status,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.repo.Create(r.Context(), supplier); err != nil {
		c.logger.Error("creating supplier failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	c.logger.Info("supplier created", zap.String("supplierId", supplier.ID))

	c.writeJSON(w, http.StatusCreated, supplier)
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if err := validate(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	supplier, err := c.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, "fetching supplier failed")
		return
	}

	supplier.Name = req.Name
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.ContactPerson = req.ContactPerson
	supplier.TaxID = req.TaxID
	supplier.Status = req.Status
	supplier.Notes = req.Notes

	if err := c.repo.Update(r.Context(), supplier); err != nil {
		c.logger.Error("updating supplier failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	updated, err := c.repo.FindByID(r.Context(), supplier.ID)
	if err != nil {
		c.handleError(w, err, "fetching supplier failed")
		return
	}

	c.writeJSON(w, http.StatusOK, updated)
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		c.handleError(w, err, "deleting supplier failed")
		return
	}
	c.writeJSON(w, http.StatusOK, dto.DeleteResponse{
		Message:   "Supplier deleted successfully",
		Timestamp: time.Now().UTC(),
	})
}

func validate(req *dto.SupplierRequest) error {
	if req.Name == "" {
		return apperrors.NewValidationError("name is required")
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email is required")
	}
	if req.Phone == "" {
		return apperrors.NewValidationError("phone is required")
	}
	if req.Status == "" {
		req.Status = domain.SupplierStatusActive
	}
	if req.Status != domain.SupplierStatusActive && req.Status != domain.SupplierStatusInactive {
		return apperrors.NewValidationError("status must be active or inactive")
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
