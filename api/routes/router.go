package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pharaonic/basket-backend/api/controllers"
	basketcontrollers "github.com/pharaonic/basket-backend/api/controllers/basket"
	"github.com/pharaonic/basket-backend/api/middleware"
	basketsvc "github.com/pharaonic/basket-backend/internal/basket"
	"github.com/pharaonic/basket-backend/internal/products"
	"github.com/pharaonic/basket-backend/internal/session"
	"github.com/pharaonic/basket-backend/pkg/config"
	"github.com/pharaonic/basket-backend/pkg/db"
	"github.com/pharaonic/basket-backend/pkg/logger"
	"github.com/pharaonic/basket-backend/pkg/metrics"
	"github.com/pharaonic/basket-backend/pkg/redis"
)

// RouterParams collects the dependencies of NewRouter.
type RouterParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      *redis.Client
	BasketRepo basketsvc.Repository
	Catalog    products.Repository
	Registry   *prometheus.Registry
}

// NewRouter wires the HTTP surface. A fresh basket manager is resolved per
// request: the identity middleware seeds the caller's principal and
// fingerprint, and the session package picks the carrier strategy.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	basketMetrics := metrics.NewBasketMetrics(params.Registry)

	var sessionStore session.Store
	var redisPinger redis.Pinger
	if params.Redis != nil {
		sessionStore = params.Redis
		redisPinger = params.Redis
	}

	resolve := func(w http.ResponseWriter, r *http.Request) (*basketsvc.Manager, error) {
		return basketsvc.NewManager(r.Context(), basketsvc.ManagerParams{
			Repo:     params.BasketRepo,
			Carrier:  session.Resolve(w, r, sessionStore, cfg.Session),
			Identity: middleware.IdentityFromContext(r.Context()),
			Config:   cfg.Basket,
			Logger:   logg,
			Metrics:  basketMetrics,
		})
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, redisPinger))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/basket", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, logg))

		r.Post("/", basketcontrollers.Create(resolve, logg))
		r.Get("/", basketcontrollers.Current(resolve, logg))

		r.Route("/{basketID}", func(r chi.Router) {
			r.Post("/use", basketcontrollers.UseBasket(resolve, logg))
			r.Delete("/", basketcontrollers.Destroy(resolve, logg))
			r.Post("/assign-user", basketcontrollers.AssignUser(resolve, logg))

			r.Route("/items", func(r chi.Router) {
				r.Post("/", basketcontrollers.ItemsAdd(resolve, params.Catalog, logg))
				r.Get("/", basketcontrollers.ItemsList(resolve, logg))
				r.Delete("/", basketcontrollers.ItemsClear(resolve, logg))
				r.Delete("/{index}", basketcontrollers.ItemRemove(resolve, logg))
				r.Patch("/{index}", basketcontrollers.ItemQuantity(resolve, logg))
			})
		})
	})

	return r
}
