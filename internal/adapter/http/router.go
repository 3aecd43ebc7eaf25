package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/stockledger/internal/adapter/http/handler"
	"github.com/iho/stockledger/internal/adapter/http/middleware"
	"github.com/iho/stockledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	InventoryHandler *handler.InventoryHandler
	OrderHandler     *handler.OrderHandler
	ReportHandler    *handler.ReportHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Logger           *zerolog.Logger
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(*cfg.Logger).Wrap)
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Inventory ledger
		r.Route("/inventory", func(r chi.Router) {
			r.Post("/initialize", cfg.InventoryHandler.Initialize)
			r.Post("/purchase", cfg.InventoryHandler.Purchase)
			r.Post("/sale", cfg.InventoryHandler.Sale)
			r.Post("/adjustment", cfg.InventoryHandler.Adjustment)
			r.Post("/return", cfg.InventoryHandler.Return)
			r.Post("/transfer", cfg.InventoryHandler.Transfer)
			r.Get("/value", cfg.InventoryHandler.TotalValue)
			r.Get("/low-stock", cfg.InventoryHandler.LowStock)
			r.Get("/out-of-stock", cfg.InventoryHandler.OutOfStock)
			r.Get("/movements", cfg.InventoryHandler.Movements)
			r.Get("/stores/{storeID}", cfg.InventoryHandler.ListByStore)
			r.Get("/products/{productID}", cfg.InventoryHandler.ListByProduct)
			r.Get("/{storeID}/{productID}", cfg.InventoryHandler.GetBalance)
			r.Get("/{storeID}/{productID}/reconcile", cfg.InventoryHandler.Reconcile)
		})

		// Orders
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", cfg.OrderHandler.Create)
			r.Get("/", cfg.OrderHandler.List)
			r.Get("/{id}", cfg.OrderHandler.Get)
			r.Get("/{id}/items", cfg.OrderHandler.GetItems)
			r.Post("/{id}/complete", cfg.OrderHandler.Complete)
			r.Post("/{id}/cancel", cfg.OrderHandler.Cancel)
			r.Post("/{id}/refund", cfg.OrderHandler.Refund)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", cfg.ReportHandler.TotalSales)
			r.Get("/sales/statistics", cfg.ReportHandler.Statistics)
			r.Get("/products/{productID}/sales", cfg.ReportHandler.ProductSales)
			r.Get("/inventory-value", cfg.ReportHandler.InventoryValue)
		})
	})

	return r
}
