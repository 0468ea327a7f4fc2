package customer

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mortar/internal/domain"
	"mortar/internal/dto"
	apperrors "mortar/internal/errors"
)

var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

type Controller struct {
	repo   Repository
	sales  SaleHistory
	logger *zap.Logger
}

func NewController(repo Repository, sales SaleHistory, logger *zap.Logger) *Controller {
	return &Controller{
		repo:   repo,
		sales:  sales,
		logger: logger,
	}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	customers, err := c.repo.FindAll(r.Context())
	if err != nil {
		c.logger.Error("listing customers failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	c.writeJSON(w, http.StatusOK, customers)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := c.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, "fetching customer failed")
		return
	}
	c.writeJSON(w, http.StatusOK, customer)
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if err := validate(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		HealthInfo:  req.HealthInfo,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Insurance:   req.Insurance,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.repo.Create(r.Context(), customer); err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			c.writeError(w, http.StatusConflict, err.Error())
			return
		}
		c.logger.Error("creating customer failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	c.logger.Info("customer created", zap.String("customerId", customer.ID))

	c.writeJSON(w, http.StatusCreated, customer)
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if err := validate(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := c.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, "fetching customer failed")
		return
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.HealthInfo = req.HealthInfo
	customer.DateOfBirth = req.DateOfBirth
	customer.Gender = req.Gender
	customer.Insurance = req.Insurance

	if err := c.repo.Update(r.Context(), customer); err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			c.writeError(w, http.StatusConflict, err.Error())
			return
		}
		c.logger.Error("updating customer failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	updated, err := c.repo.FindByID(r.Context(), customer.ID)
	if err != nil {
		c.handleError(w, err, "fetching customer failed")
		return
	}

	c.writeJSON(w, http.StatusOK, updated)
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		c.handleError(w, err, "deleting customer failed")
		return
	}
	c.writeJSON(w, http.StatusOK, dto.DeleteResponse{
		Message:   "Customer deleted successfully",
		Timestamp: time.Now().UTC(),
	})
}

// PurchaseHistory returns the customer's sales, newest first. The customer
// must exist; sales are keyed by the stored customer id, not the name.
func (c *Controller) PurchaseHistory(w http.ResponseWriter, r *http.Request) {
	customer, err := c.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, "fetching customer failed")
		return
	}

	sales, err := c.sales.FindByCustomer(r.Context(), customer.ID)
	if err != nil {
		c.logger.Error("fetching purchase history failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	c.writeJSON(w, http.StatusOK, sales)
}

func (c *Controller) Search(w http.ResponseWriter, r *http.Request) {
	customers, err := c.repo.Search(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		c.logger.Error("searching customers failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	c.writeJSON(w, http.StatusOK, customers)
}

func validate(req *dto.CustomerRequest) error {
	if req.Name == "" {
		return apperrors.NewValidationError("name is required")
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperrors.NewValidationError("email is not valid")
	}
	if req.Phone == "" {
		return apperrors.NewValidationError("phone is required")
	}
	if req.Gender == "" {
		req.Gender = "other"
	}
	if !validGenders[req.Gender] {
		return apperrors.NewValidationError("gender must be one of male, female, other")
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
