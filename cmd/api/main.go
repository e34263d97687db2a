package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/lcanales/stockdeck-backend/api/routes"
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
	"github.com/lcanales/stockdeck-backend/pkg/migrate"
	"github.com/lcanales/stockdeck-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	defer func() {
		var closeErr error
		closeErr = multierr.Append(closeErr, dbClient.Close())
		if redisClient != nil {
			closeErr = multierr.Append(closeErr, redisClient.Close())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	userRepo := users.NewRepository(dbClient.DB())
	roleRepo := users.NewRoleRepository(dbClient.DB())

	rbacService, err := rbac.NewService(rbac.ServiceParams{RoleRepo: roleRepo})
	fatalOnErr(logg, "rbac service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	fatalOnErr(logg, "auth service", err)

	signupService, err := auth.NewSignupService(auth.SignupServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	fatalOnErr(logg, "signup service", err)

	usersService, err := users.NewService(users.ServiceParams{Repo: userRepo})
	fatalOnErr(logg, "users service", err)

	productService, err := products.NewService(products.ServiceParams{DB: dbClient})
	fatalOnErr(logg, "product service", err)

	supplierService, err := suppliers.NewService(suppliers.ServiceParams{DB: dbClient})
	fatalOnErr(logg, "supplier service", err)

	stockService, err := stock.NewService(stock.ServiceParams{DB: dbClient})
	fatalOnErr(logg, "stock service", err)

	salesService, err := sales.NewService(sales.ServiceParams{DB: dbClient})
	fatalOnErr(logg, "sales service", err)

	linkService, err := supplierproducts.NewService(supplierproducts.ServiceParams{DB: dbClient})
	fatalOnErr(logg, "supplier-products service", err)

	analyticsService, err := analytics.NewService(analytics.ServiceParams{DB: dbClient})
	fatalOnErr(logg, "analytics service", err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Metrics:   httpMetrics,
			Gatherer:  registry,
			RBAC:      rbacService,
			Auth:      authService,
			Signup:    signupService,
			Users:     usersService,
			Products:  productService,
			Suppliers: supplierService,
			Stock:     stockService,
			Sales:     salesService,
			Links:     linkService,
			Analytics: analyticsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fatalOnErr(logg *logger.Logger, what string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+what, err)
		os.Exit(1)
	}
}
