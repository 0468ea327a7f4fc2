package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"mortar/internal/customer"
	"mortar/internal/middleware"
	"mortar/internal/product"
	purchasectrl "mortar/internal/purchase/controller"
	"mortar/internal/report"
	salectrl "mortar/internal/sale/controller"
	"mortar/internal/supplier"
)

type Controllers struct {
	Products  *product.Controller
	Sales     *salectrl.SaleController
	Purchases *purchasectrl.PurchaseController
	Customers *customer.Controller
	Suppliers *supplier.Controller
	Reports   *report.Controller
}

func NewRouter(ctrl Controllers, auth *middleware.Auth, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(auth.RequireAuth)

		api.Route("/products", func(pr chi.Router) {
			pr.Get("/", ctrl.Products.List)
			pr.Post("/", ctrl.Products.Create)
			pr.Get("/alerts/low-stock", ctrl.Products.LowStockAlerts)
			pr.Get("/alerts/expiring", ctrl.Products.ExpiringAlerts)
			pr.Get("/{id}", ctrl.Products.Get)
			pr.Put("/{id}", ctrl.Products.Update)
			pr.Delete("/{id}", ctrl.Products.Delete)
			pr.Patch("/{id}/reorder-level", ctrl.Products.UpdateReorderLevel)
		})

		api.Route("/sales", func(sr chi.Router) {
			sr.Get("/", ctrl.Sales.List)
			sr.Post("/", ctrl.Sales.Create)
			sr.Get("/stats/summary", ctrl.Sales.StatsSummary)
			sr.Get("/customer-dues/{customerId}", ctrl.Sales.CustomerDues)
			sr.Get("/{id}", ctrl.Sales.Get)
			sr.Patch("/{id}/payment", ctrl.Sales.RecordPayment)
		})

		api.Route("/purchases", func(por chi.Router) {
			por.Get("/", ctrl.Purchases.List)
			por.Post("/", ctrl.Purchases.Create)
			por.Get("/{id}", ctrl.Purchases.Get)
			por.Put("/{id}", ctrl.Purchases.Update)
			por.Delete("/{id}", ctrl.Purchases.Delete)
		})

		api.Route("/customers", func(cr chi.Router) {
			cr.Get("/", ctrl.Customers.List)
			cr.Post("/", ctrl.Customers.Create)
			cr.Get("/search/{query}", ctrl.Customers.Search)
			cr.Get("/{id}", ctrl.Customers.Get)
			cr.Put("/{id}", ctrl.Customers.Update)
			cr.Delete("/{id}", ctrl.Customers.Delete)
			cr.Get("/{id}/purchases", ctrl.Customers.PurchaseHistory)
		})

		api.Route("/suppliers", func(sup chi.Router) {
			sup.Get("/", ctrl.Suppliers.List)
			sup.Post("/", ctrl.Suppliers.Create)
			sup.Get("/{id}", ctrl.Suppliers.Get)
			sup.Put("/{id}", ctrl.Suppliers.Update)
			sup.Delete("/{id}", ctrl.Suppliers.Delete)
		})

		api.Route("/reports", func(rr chi.Router) {
			rr.Get("/sales", ctrl.Reports.Sales)
			rr.Get("/inventory", ctrl.Reports.Inventory)
			rr.Get("/customers", ctrl.Reports.Customers)
			rr.Get("/purchases", ctrl.Reports.Purchases)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
