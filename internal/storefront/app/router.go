package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	carthttp "github.com/Guilherme-Denarde/coffee-orders/internal/cart/handler/http"
	cartservice "github.com/Guilherme-Denarde/coffee-orders/internal/cart/service"
	checkouthttp "github.com/Guilherme-Denarde/coffee-orders/internal/checkout/handler/http"
	checkoutservice "github.com/Guilherme-Denarde/coffee-orders/internal/checkout/service"
	identitydomain "github.com/Guilherme-Denarde/coffee-orders/internal/identity/domain"
	identityhttp "github.com/Guilherme-Denarde/coffee-orders/internal/identity/handler/http"
	identityservice "github.com/Guilherme-Denarde/coffee-orders/internal/identity/service"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/health"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered. Cart
// and checkout serve guests via X-Session-ID and signed-in customers via
// bearer tokens; profile routes require authentication.
func NewRouter(
	cartService *cartservice.CartService,
	checkoutService *checkoutservice.CheckoutService,
	profileService *identityservice.ProfileService,
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
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(corsCfg))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := carthttp.NewCartHandler(cartService, logger)
	checkoutHandler := checkouthttp.NewCheckoutHandler(checkoutService, logger)
	profileHandler := identityhttp.NewProfileHandler(profileService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(validate))

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productID}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
		})

		r.With(middleware.OptionalAuth(validate)).Post("/checkout", checkoutHandler.Checkout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validate))

			r.Post("/auth/session", profileHandler.SignIn)
			r.Get("/me", profileHandler.Me)
			r.With(middleware.RequireRole(identitydomain.RoleCoffeeMaker)).
				Put("/profiles/{uid}/coffee-maker", profileHandler.SetCoffeeMaker)
		})
	})

	return r
}
