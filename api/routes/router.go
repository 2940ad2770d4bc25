package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mallexplorer/sme-backend/api/controllers"
	"github.com/mallexplorer/sme-backend/api/middleware"
	"github.com/mallexplorer/sme-backend/internal/activity"
	authsvc "github.com/mallexplorer/sme-backend/internal/auth"
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
	"github.com/mallexplorer/sme-backend/pkg/logger"
	"github.com/mallexplorer/sme-backend/pkg/metrics"
)

type sessionManager interface {
	session.AccessSessionChecker
	Revoke(ctx context.Context, accessID string) error
}

// Services bundles every domain service the router mounts.
type Services struct {
	Auth          authsvc.Service
	Register      authsvc.RegisterService
	Users         users.Service
	Catalog       catalog.Service
	Trending      trending.Service
	Reviews       reviews.Service
	Sellers       sellers.Service
	SellersAdmin  sellers.AdminService
	Products      products.Service
	Returns       returns.Service
	Notifications notifications.Service
	Activity      activity.Service
	Onboarding    onboarding.Service
	Favorites     favorites.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	dbPinger controllers.Pinger,
	kvPinger controllers.Pinger,
	sessions sessionManager,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbPinger, kvPinger, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/register", controllers.Register(svcs.Register, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.Logout(svcs.Auth, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/malls", controllers.MallsList(svcs.Catalog, logg))
		r.Get("/malls/{mallId}", controllers.MallGet(svcs.Catalog, logg))
		r.Get("/stores/{storeId}", controllers.StoreGet(svcs.Catalog, logg))
		r.Get("/products/search", controllers.CatalogSearch(svcs.Catalog, logg))
		r.Get("/products/{productId}", controllers.ProductGet(svcs.Catalog, logg))
	})

	r.Get("/api/v1/trending", controllers.TrendingTop(svcs.Trending, logg))
	r.Get("/api/v1/reviews/{entityType}/{entityId}", controllers.ReviewsList(svcs.Reviews, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(svcs.Users, logg))
			r.Patch("/", controllers.ProfilePatch(svcs.Users, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationsList(svcs.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.NotificationRead(svcs.Notifications, logg))
				r.Post("/read-all", controllers.NotificationsReadAll(svcs.Notifications, logg))
			})

			r.Get("/activity", controllers.ActivityList(svcs.Activity, logg))

			r.Route("/onboarding", func(r chi.Router) {
				r.Get("/", controllers.OnboardingGet(svcs.Onboarding, logg))
				r.Post("/start", controllers.OnboardingStart(svcs.Onboarding, logg))
				r.Post("/complete", controllers.OnboardingComplete(svcs.Onboarding, logg))
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoritesList(svcs.Favorites, logg))
				r.Post("/", controllers.FavoriteAdd(svcs.Favorites, svcs.Activity, logg))
				r.Delete("/{productId}", controllers.FavoriteRemove(svcs.Favorites, logg))
			})
		})

		r.Post("/reviews/{entityType}/{entityId}", controllers.ReviewsAdd(svcs.Reviews, svcs.Users, svcs.Activity, logg))

		r.Route("/seller", func(r chi.Router) {
			r.Post("/requests", controllers.SellerRequestCreate(svcs.Sellers, svcs.Activity, logg))
			r.Get("/requests", controllers.SellerRequestsMine(svcs.Sellers, logg))
			r.Get("/stores", controllers.SellerStores(svcs.Sellers, logg))

			r.Route("/stores/{storeId}", func(r chi.Router) {
				r.Get("/status", controllers.SellerStoreStatus(svcs.Sellers, logg))

				r.Post("/products", controllers.CustomProductCreate(svcs.Products, logg))
				r.Put("/products/{productId}/override", controllers.OverrideUpsert(svcs.Products, logg))
				r.Delete("/products/{productId}/override", controllers.OverrideClear(svcs.Products, logg))
				r.Delete("/products/{productId}", controllers.CustomProductDelete(svcs.Products, logg))

				r.Get("/returns", controllers.ReturnsList(svcs.Returns, logg))
				r.Patch("/returns/{returnId}", controllers.ReturnUpdate(svcs.Returns, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.AdminGate(cfg.Admin, sessions, logg))

		r.Route("/seller-requests", func(r chi.Router) {
			r.Get("/", controllers.AdminSellerRequestsList(svcs.SellersAdmin, logg))
			r.Post("/{requestId}/approve", controllers.AdminSellerRequestApprove(svcs.SellersAdmin, logg))
			r.Post("/{requestId}/reject", controllers.AdminSellerRequestReject(svcs.SellersAdmin, logg))
		})
	})

	return r
}
