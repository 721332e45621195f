package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kartikmehra/shopkart-backend/api/controllers"
	"github.com/kartikmehra/shopkart-backend/api/middleware"
	ordersvc "github.com/kartikmehra/shopkart-backend/internal/orders"
	productsvc "github.com/kartikmehra/shopkart-backend/internal/products"
	"github.com/kartikmehra/shopkart-backend/pkg/config"
	"github.com/kartikmehra/shopkart-backend/pkg/logger"
	pkgredis "github.com/kartikmehra/shopkart-backend/pkg/redis"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *pkgredis.Client
	Orders      *ordersvc.Service
	Products    *productsvc.Service
	MetricsReg  *prometheus.Registry
	Idempotency pkgredis.IdempotencyStore
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Idempotency(deps.Idempotency, deps.Config.Checkout.IdempotencyTTL, deps.Logger),
	)

	readiness := map[string]controllers.Pinger{
		"database": deps.DB,
	}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, readiness))
	})

	if deps.MetricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, deps.Logger))
			r.Get("/{productID}", controllers.GetProduct(deps.Products, deps.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, deps.Logger))
			r.Post("/place", controllers.PlaceOrder(deps.Orders, deps.Logger))
			r.Get("/{orderID}", controllers.GetOrder(deps.Orders, deps.Logger))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/products", controllers.AdminCreateProduct(deps.Products, deps.Logger))
			r.Patch("/products/{productID}/stock", controllers.AdminUpdateProductStock(deps.Products, deps.Logger))
			r.Delete("/products/{productID}", controllers.AdminDeleteProduct(deps.Products, deps.Logger))
		})
	})

	return r
}
