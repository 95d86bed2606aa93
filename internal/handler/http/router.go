package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/service"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/health"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/middleware"
)

const serviceName = "seller-console"

// RouterConfig carries the HTTP-level knobs of the console.
type RouterConfig struct {
	CORS           middleware.CORSConfig
	SellerRoles    []string
	SavesPerMinute float64
	SaveBurst      int
}

// NewRouter creates a chi router with all seller console routes registered.
func NewRouter(
	consoleService *service.ConsoleService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	h := NewConsoleHandler(consoleService, logger)
	saveLimit := middleware.RateLimit(cfg.SavesPerMinute, cfg.SaveBurst, middleware.BySellerOrIP, logger)

	r.Route("/api/v1/console", func(r chi.Router) {
		r.Use(middleware.SellerIdentity)
		r.Use(middleware.RequireRole(cfg.SellerRoles...))

		r.Put("/session", h.SignIn)
		r.Delete("/session", h.SignOut)

		r.Route("/wizard", func(r chi.Router) {
			r.Get("/", h.GetWizard)
			r.Get("/events", h.Events)

			r.Post("/open", h.Open)
			r.Post("/close", h.Close)
			r.Post("/reset", h.Reset)

			r.Post("/next", h.Next)
			r.Post("/previous", h.Previous)
			r.Put("/step", h.GoToStep)

			r.Patch("/item", h.UpdateItem)
			r.Patch("/brand", h.UpdateNewBrand)
			r.Patch("/category", h.UpdateNewCategory)
			r.Put("/brand/selection", h.SelectBrand)
			r.Put("/category/selection", h.SelectCategory)

			r.Put("/images/{target}", h.SetImage)
			r.Delete("/images/{target}", h.ClearImage)

			r.With(saveLimit).Post("/save", h.Save)
		})
	})

	return r
}
