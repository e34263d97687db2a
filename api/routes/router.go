package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lcanales/stockdeck-backend/api/controllers"
	"github.com/lcanales/stockdeck-backend/api/middleware"
	"github.com/lcanales/stockdeck-backend/internal/analytics"
	"github.com/lcanales/stockdeck-backend/internal/auth"
	"github.com/lcanales/stockdeck-backend/internal/products"
	"github.com/lcanales/stockdeck-backend/internal/rbac"
	"github.com/lcanales/stockdeck-backend/internal/sales"
	"github.com/lcanales/stockdeck-backend/internal/stock"
	"github.com/lcanales/stockdeck-backend/internal/supplierproducts"
	"github.com/lcanales/stockdeck-backend/internal/suppliers"
	"github.com/lcanales/stockdeck-backend/internal/users"
	"github.com/lcanales/stockdeck-backend/pkg/config"
	"github.com/lcanales/stockdeck-backend/pkg/db"
	"github.com/lcanales/stockdeck-backend/pkg/logger"
	"github.com/lcanales/stockdeck-backend/pkg/metrics"
	"github.com/lcanales/stockdeck-backend/pkg/redis"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *redis.Client
	Metrics   *metrics.HTTPMetrics
	Gatherer  prometheus.Gatherer
	RBAC      *rbac.Service
	Auth      auth.Service
	Signup    auth.SignupService
	Users     users.Service
	Products  products.Service
	Suppliers suppliers.Service
	Stock     stock.Service
	Sales     sales.Service
	Links     supplierproducts.Service
	Analytics analytics.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(p.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, cachePinger(p.Redis), logg))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupUsernameLimit,
	)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateLimitStore(p.Redis), logg)).
			Post("/login", controllers.Login(p.Auth, logg))
		r.With(middleware.AuthRateLimit(signupPolicy, rateLimitStore(p.Redis), logg)).
			Post("/signup", controllers.Signup(p.Signup, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/validate-token", controllers.ValidateToken(logg))
			r.Get("/capabilities", controllers.Capabilities(p.RBAC, logg))

			guard := func(action rbac.Action) func(http.Handler) http.Handler {
				return middleware.Authorize(p.RBAC, action, logg)
			}

			r.Route("/products", func(r chi.Router) {
				r.With(guard(rbac.ActionProductsRead)).Get("/", controllers.ProductList(p.Products, logg))
				r.With(guard(rbac.ActionProductsWrite)).Post("/", controllers.ProductCreate(p.Products, logg))
				r.Route("/{id}", func(r chi.Router) {
					r.With(guard(rbac.ActionProductsRead)).Get("/", controllers.ProductGet(p.Products, logg))
					r.With(guard(rbac.ActionProductsWrite)).Put("/", controllers.ProductUpdate(p.Products, logg))
					r.With(guard(rbac.ActionProductsWrite)).Delete("/", controllers.ProductDelete(p.Products, logg))
					r.With(guard(rbac.ActionProductsRead)).Get("/suppliers", controllers.ProductSuppliers(p.Products, logg))
					r.With(guard(rbac.ActionStockRead)).Get("/stock-detail", controllers.ProductStockDetail(p.Products, logg))
				})
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.With(guard(rbac.ActionSuppliersRead)).Get("/", controllers.SupplierList(p.Suppliers, logg))
				r.With(guard(rbac.ActionSuppliersWrite)).Post("/", controllers.SupplierCreate(p.Suppliers, logg))
				r.Route("/{id}", func(r chi.Router) {
					r.With(guard(rbac.ActionSuppliersRead)).Get("/", controllers.SupplierGet(p.Suppliers, logg))
					r.With(guard(rbac.ActionSuppliersWrite)).Put("/", controllers.SupplierUpdate(p.Suppliers, logg))
					r.With(guard(rbac.ActionSuppliersWrite)).Delete("/", controllers.SupplierDelete(p.Suppliers, logg))
					r.With(guard(rbac.ActionSuppliersRead)).Get("/products", controllers.SupplierProducts(p.Suppliers, logg))
				})
			})

			r.Route("/stock", func(r chi.Router) {
				r.With(guard(rbac.ActionStockWrite)).Post("/", controllers.StockAdd(p.Stock, logg))
				r.Route("/{productId}/{supplierId}", func(r chi.Router) {
					r.With(guard(rbac.ActionStockRead)).Get("/", controllers.StockGet(p.Stock, logg))
					r.With(guard(rbac.ActionStockWrite)).Put("/", controllers.StockReplace(p.Stock, logg))
				})
			})

			r.Route("/supplier-products", func(r chi.Router) {
				r.With(guard(rbac.ActionLinksRead)).Get("/", controllers.LinkList(p.Links, logg))
				r.Route("/{supplierId}/{productId}", func(r chi.Router) {
					r.With(guard(rbac.ActionLinksWrite)).Post("/", controllers.LinkCreate(p.Links, logg))
					r.With(guard(rbac.ActionLinksWrite)).Delete("/", controllers.LinkDelete(p.Links, logg))
				})
			})

			r.Route("/sales", func(r chi.Router) {
				r.With(guard(rbac.ActionSalesRead)).Get("/", controllers.SaleList(p.Sales, logg))
				r.With(guard(rbac.ActionSalesCreate)).Post("/", controllers.SaleCreate(p.Sales, logg))
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Use(guard(rbac.ActionAnalyticsRead))
				r.Get("/", controllers.AnalyticsOverview(p.Analytics, logg))
				r.Get("/stock", controllers.AnalyticsStock(p.Analytics, logg))
				r.Get("/sales", controllers.AnalyticsSales(p.Analytics, logg))
				r.Get("/suppliers", controllers.AnalyticsSuppliers(p.Analytics, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(guard(rbac.ActionUsersManage))
				r.Get("/", controllers.UserList(p.Users, logg))
				r.Post("/", controllers.UserCreate(p.Signup, logg))
			})
		})
	})

	return r
}

// Typed nil guards: a nil *redis.Client must become a nil interface so the
// middleware and health checks treat redis as absent.
func rateLimitStore(c *redis.Client) middleware.RateLimiterStore {
	if c == nil {
		return nil
	}
	return c
}

func cachePinger(c *redis.Client) redis.Pinger {
	if c == nil {
		return nil
	}
	return c
}
