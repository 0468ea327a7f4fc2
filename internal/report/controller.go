package report

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mortar/internal/dto"
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

func (c *Controller) Sales(w http.ResponseWriter, r *http.Request) {
	from, to, ok := c.dateRange(w, r)
	if !ok {
		return
	}

	report, err := c.repo.SalesReport(r.Context(), from, to)
	if err != nil {
		c.logger.Error("building sales report failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	c.writeJSON(w, http.StatusOK, report)
}

func (c *Controller) Inventory(w http.ResponseWriter, r *http.Request) {
	report, err := c.repo.InventoryReport(r.Context(), time.Now().UTC())
	if err != nil {
		c.logger.Error("building inventory report failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	c.writeJSON(w, http.StatusOK, report)
}

func (c *Controller) Customers(w http.ResponseWriter, r *http.Request) {
	from, to, ok := c.dateRange(w, r)
	if !ok {
		return
	}

	report, err := c.repo.CustomersReport(r.Context(), from, to)
	if err != nil {
		c.logger.Error("building customers report failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	c.writeJSON(w, http.StatusOK, report)
}

func (c *Controller) Purchases(w http.ResponseWriter, r *http.Request) {
	from, to, ok := c.dateRange(w, r)
	if !ok {
		return
	}

	report, err := c.repo.PurchasesReport(r.Context(), from, to)
	if err != nil {
		c.logger.Error("building purchases report failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	c.writeJSON(w, http.StatusOK, report)
}

// dateRange reads the startDate and endDate query parameters. A date-only
// endDate is widened to the end of that day so the range is inclusive.
func (c *Controller) dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, _, err := parseDate(r.URL.Query().Get("startDate"))
	if err != nil {
		c.writeError(w, http.StatusBadRequest, "startDate must be an RFC 3339 timestamp or YYYY-MM-DD date")
		return time.Time{}, time.Time{}, false
	}

	to, toDateOnly, err := parseDate(r.URL.Query().Get("endDate"))
	if err != nil {
		c.writeError(w, http.StatusBadRequest, "endDate must be an RFC 3339 timestamp or YYYY-MM-DD date")
		return time.Time{}, time.Time{}, false
	}
	if toDateOnly {
		to = to.AddDate(0, 0, 1).Add(-time.Second)
	}

	if to.Before(from) {
		c.writeError(w, http.StatusBadRequest, "endDate must not be before startDate")
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}

func parseDate(value string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), true, nil
	}
	if t, err = time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, err
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
