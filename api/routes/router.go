package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muzammal-12/CarApp/api/controllers"
	"github.com/muzammal-12/CarApp/api/middleware"
	"github.com/muzammal-12/CarApp/internal/catalog"
	"github.com/muzammal-12/CarApp/internal/compare"
	"github.com/muzammal-12/CarApp/internal/learning"
	"github.com/muzammal-12/CarApp/internal/rates"
	"github.com/muzammal-12/CarApp/pkg/config"
	"github.com/muzammal-12/CarApp/pkg/db"
	"github.com/muzammal-12/CarApp/pkg/logger"
	"github.com/muzammal-12/CarApp/pkg/redis"
)

// Deps bundles the wired services the router exposes.
type Deps struct {
	DB       db.Pinger
	Redis    redis.Pinger
	Registry *prometheus.Registry

	CatalogRepo *catalog.Repository
	Resolver    *rates.Resolver
	Compare     *compare.Service
	Learning    *learning.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(logg))

		r.Post("/rates/lookup", controllers.RateLookup(deps.Resolver, logg))

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/compare", controllers.QuotesCompare(deps.Compare, logg))
			r.Post("/assess", controllers.QuotesAssess(deps.Compare, logg))
			r.Post("/learn", controllers.QuotesLearn(deps.Learning, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/{key}", controllers.CatalogEntry(deps.CatalogRepo, deps.Resolver, logg))
			r.Put("/{key}/base-range", controllers.CatalogUpsertBaseRange(deps.CatalogRepo, deps.Resolver, logg))
		})
	})

	return r
}
