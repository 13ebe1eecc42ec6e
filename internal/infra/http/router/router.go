package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xavierca1/buyerleads/internal/infra/http/handlers"
	"github.com/xavierca1/buyerleads/internal/infra/http/middleware"
	"github.com/xavierca1/buyerleads/internal/infra/ratelimit"
	"go.uber.org/zap"
)

type Deps struct {
	Buyers         *handlers.BuyerHandler
	Import         *handlers.ImportHandler
	Export         *handlers.ExportHandler
	Health         *handlers.HealthHandler
	Auth           *middleware.Authenticator
	ImportLimiter  ratelimit.Limiter
	AllowedOrigins []string
	TrustProxy     bool
	Logger         *zap.Logger
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/health", d.Health.Handle)

	r.Route("/api/buyers", func(r chi.Router) {
		r.Use(d.Auth.Require)
		r.Use(chimw.Timeout(30 * time.Second))

		r.Get("/", d.Buyers.List)
		r.Post("/", d.Buyers.Create)
		r.Get("/export", d.Export.CSV)
		r.Get("/export.xlsx", d.Export.XLSX)

		r.Group(func(r chi.Router) {
			if d.ImportLimiter != nil {
				r.Use(middleware.AdmitByOrigin(d.ImportLimiter, d.TrustProxy, d.Logger))
			}
			r.Post("/import", d.Import.Import)
		})

		r.Get("/{id}", d.Buyers.Get)
		r.Put("/{id}", d.Buyers.Update)
	})

	return r
}
