package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/rogerio-castellano/inventory-analytics/docs"
	"github.com/rogerio-castellano/inventory-analytics/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-analytics/internal/http/middleware"
	rl "github.com/rogerio-castellano/inventory-analytics/internal/http/rate_limiter"
)

// Options configure the cross-cutting middleware. A nil Limiter disables rate limiting.
type Options struct {
	Logger         *zap.Logger
	Limiter        *rl.Limiter
	AllowedOrigins []string
	Swagger        bool
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(mw.RequestID(log))
	r.Use(mw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader, "Content-Disposition", handlers.TotalCountHeader, handlers.CriticalCountHeader},
		MaxAge:         300,
	}))
	if opts.Limiter != nil {
		r.Use(mw.RateLimit(opts.Limiter))
	}

	r.Get("/", handlers.RootHandler)
	r.Get("/health", handlers.HealthHandler)

	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/summary", handlers.GetAnalyticsSummaryHandler)
		r.Get("/products/performance", handlers.GetProductPerformanceHandler)
		r.Get("/products/{id}/predictions", handlers.GetPredictionsHandler)
		r.Get("/stores/performance", handlers.GetStorePerformanceHandler)
		r.Get("/regional/trends", handlers.GetRegionalTrendsHandler)
		r.Get("/trends", handlers.GetTrendsHandler)
		r.Get("/trends/daily-summary", handlers.GetDailySummaryHandler)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handlers.GetProductsHandler)
		r.Post("/", handlers.CreateProductHandler)
		r.Post("/import", handlers.ImportProductsHandler)
		r.Get("/{id}", handlers.GetProductByIDHandler)
		r.Put("/{id}", handlers.UpdateProductHandler)
		r.Delete("/{id}", handlers.DeleteProductHandler)
	})

	r.Route("/stores", func(r chi.Router) {
		r.Get("/", handlers.GetStoresHandler)
		r.Post("/", handlers.CreateStoreHandler)
		r.Get("/stats", handlers.GetStoresStatsHandler)
		r.Get("/{id}", handlers.GetStoreByIDHandler)
		r.Put("/{id}", handlers.UpdateStoreHandler)
		r.Delete("/{id}", handlers.DeleteStoreHandler)
		r.Get("/{id}/stats", handlers.GetStoreStatsHandler)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", handlers.GetInventoryHandler)
		r.Post("/", handlers.CreateInventoryHandler)
		r.Get("/low-stock/summary", handlers.GetLowStockSummaryHandler)
		r.Get("/{id}", handlers.GetInventoryByIDHandler)
		r.Put("/{id}", handlers.UpdateInventoryHandler)
		r.Delete("/{id}", handlers.DeleteInventoryHandler)
		r.Post("/{id}/restock", handlers.RestockInventoryHandler)
		r.Get("/{id}/movements", handlers.GetMovementsHandler)
		r.Get("/{id}/movements/export", handlers.ExportMovementsHandler)
	})

	r.Route("/purchase-orders", func(r chi.Router) {
		r.Post("/calculate-reorder", handlers.CalculateReorderHandler)
		r.Get("/", handlers.GetPurchaseOrdersHandler)
		r.Post("/", handlers.CreatePurchaseOrderHandler)
		r.Get("/{id}", handlers.GetPurchaseOrderHandler)
		r.Put("/{id}", handlers.UpdatePurchaseOrderStatusHandler)
	})

	r.Get("/alerts/low-stock", handlers.GetLowStockAlertsHandler)

	return r
}
