package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cataloghttp "github.com/Guilherme-Denarde/coffee-orders/internal/catalog/handler/http"
	catalogservice "github.com/Guilherme-Denarde/coffee-orders/internal/catalog/service"
	identitydomain "github.com/Guilherme-Denarde/coffee-orders/internal/identity/domain"
	orderhttp "github.com/Guilherme-Denarde/coffee-orders/internal/order/handler/http"
	orderservice "github.com/Guilherme-Denarde/coffee-orders/internal/order/service"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/health"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/middleware"
)

// NewRouter creates a chi router with all orderd routes registered. Order
// creation and order detail stay open for guest checkout; order listing,
// status updates, deletion, and product mutations are staff only.
func NewRouter(
	orderService *orderservice.OrderService,
	productService *catalogservice.ProductService,
	validate middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsCfg middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("orderd"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(corsCfg))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	staffOnly := middleware.RequireRole(identitydomain.RoleCoffeeMaker)

	orderHandler := orderhttp.NewOrderHandler(orderService, logger)

	r.Route("/pedidos", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(validate))
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/{id}", orderHandler.GetOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validate), staffOnly)
			r.Get("/", orderHandler.ListOrders)
			r.Patch("/{id}", orderHandler.UpdateOrderStatus)
			r.Delete("/{id}", orderHandler.DeleteOrder)
		})
	})

	productHandler := cataloghttp.NewProductHandler(productService, logger)

	r.Route("/produtos", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Get("/slug/{slug}", productHandler.GetProductBySlug)
		r.Get("/{id}", productHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validate), staffOnly)
			r.Post("/", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})

	return r
}
