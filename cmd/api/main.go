package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mallexplorer/sme-backend/api/routes"
	"github.com/mallexplorer/sme-backend/internal/activity"
	"github.com/mallexplorer/sme-backend/internal/auth"
	"github.com/mallexplorer/sme-backend/internal/catalog"
	"github.com/mallexplorer/sme-backend/internal/favorites"
	"github.com/mallexplorer/sme-backend/internal/notifications"
	"github.com/mallexplorer/sme-backend/internal/onboarding"
	"github.com/mallexplorer/sme-backend/internal/products"
	"github.com/mallexplorer/sme-backend/internal/returns"
	"github.com/mallexplorer/sme-backend/internal/reviews"
	"github.com/mallexplorer/sme-backend/internal/sellers"
	"github.com/mallexplorer/sme-backend/internal/trending"
	"github.com/mallexplorer/sme-backend/internal/users"
	"github.com/mallexplorer/sme-backend/pkg/auth/session"
	"github.com/mallexplorer/sme-backend/pkg/config"
	"github.com/mallexplorer/sme-backend/pkg/db"
	"github.com/mallexplorer/sme-backend/pkg/kvstore"
	"github.com/mallexplorer/sme-backend/pkg/logger"
	"github.com/mallexplorer/sme-backend/pkg/metrics"
	"github.com/mallexplorer/sme-backend/pkg/migrate"
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
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	kvStore, err := kvstore.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap kv store", err)
		os.Exit(1)
	}
	defer func() {
		if err := kvStore.Close(); err != nil {
			logg.Error(context.Background(), "error closing kv store", err)
		}
	}()

	sessionManager, err := session.NewManager(kvStore, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	sellerRepo := sellers.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	returnRepo := returns.NewRepository(dbClient.DB())
	favoriteRepo := favorites.NewRepository(dbClient.DB())

	trendingService, err := trending.NewService(kvStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create trending service", err)
		os.Exit(1)
	}
	notificationService, err := notifications.NewService(kvStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}
	activityService, err := activity.NewService(kvStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create activity service", err)
		os.Exit(1)
	}
	reviewService, err := reviews.NewService(kvStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}
	onboardingService, err := onboarding.NewService(kvStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create onboarding service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		ApprovalsRepo:  sellerRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		AdminConfig:    cfg.Admin,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:     catalogRepo,
		Trending: trendingService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	sellerService, err := sellers.NewService(sellers.ServiceParams{
		RequestRepo: sellerRepo,
		StoreReader: catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create seller service", err)
		os.Exit(1)
	}

	sellerAdminService, err := sellers.NewAdminService(sellers.AdminServiceParams{
		RequestRepo: sellerRepo,
		Notifier:    notificationService,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create seller admin service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		Repo:      productRepo,
		Approvals: sellerRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	returnService, err := returns.NewService(returns.ServiceParams{
		Repo:      returnRepo,
		Approvals: sellerRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create return service", err)
		os.Exit(1)
	}

	favoriteService, err := favorites.NewService(favorites.ServiceParams{
		Repo:     favoriteRepo,
		Products: catalogService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			registry,
			dbClient,
			kvStore,
			sessionManager,
			routes.Services{
				Auth:          authService,
				Register:      registerService,
				Users:         userService,
				Catalog:       catalogService,
				Trending:      trendingService,
				Reviews:       reviewService,
				Sellers:       sellerService,
				SellersAdmin:  sellerAdminService,
				Products:      productService,
				Returns:       returnService,
				Notifications: notificationService,
				Activity:      activityService,
				Onboarding:    onboardingService,
				Favorites:     favoriteService,
			},
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
