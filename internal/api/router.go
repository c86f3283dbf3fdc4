package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Odla19/DecissionsMaker/internal/decision"
	"github.com/Odla19/DecissionsMaker/internal/hermes"
	"github.com/Odla19/DecissionsMaker/internal/store"
)

type RouterConfig struct {
	AdminToken string
	RateLimit  int
}

func NewRouter(e *decision.Evaluator, s store.Store, h hermes.Client, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.RateLimit))

	engine := NewEngineHandler(e)
	decisions := NewDecisionsHandler(s, h, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/evaluate", engine.Evaluate)
		r.Post("/matrix", engine.Matrix)
		r.Post("/express", engine.Express)
		r.Post("/reweight", engine.Reweight)
		r.Post("/sensitivity", engine.Sensitivity)

		r.Post("/decisions", decisions.Save)
		r.Get("/decisions", decisions.List)
		r.Get("/decisions/insights", decisions.Insights)
		r.Get("/decisions/{id}", decisions.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Delete("/decisions/{id}", decisions.Delete)
		})
	})

	return r
}

// NewMetricsRouter serves health and metrics gathered from g.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
