// Package api provides the HTTP API for carbonscope.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rshade/carbonscope/internal/api/handler"
	"github.com/rshade/carbonscope/internal/api/middleware"
	"github.com/rshade/carbonscope/internal/api/response"
	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/engine"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version string
	Commit  string
	Logger  zerolog.Logger

	// Registry receives the API metrics and backs GET /metrics. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry

	// RateLimitPerMinute caps requests per client IP on the estimation
	// endpoints. Zero disables limiting.
	RateLimitPerMinute int
	// MaxBodyBytes caps request bodies. Zero disables the cap.
	MaxBodyBytes int64

	Precision     int
	Equivalents   bool
	DefaultRegion emissions.Region
	Engine        engine.Options
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg RouterConfig) (*chi.Mux, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware())
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.MaxBodySize(cfg.MaxBodyBytes))

	r.NotFound(response.NotFound)
	r.MethodNotAllowed(response.MethodNotAllowed)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.Commit)
	estimateHandler := handler.NewEstimateHandler(handler.EstimateConfig{
		Precision:     cfg.Precision,
		Equivalents:   cfg.Equivalents,
		DefaultRegion: cfg.DefaultRegion,
		Engine:        engine.New(cfg.Engine),
		Metrics:       metrics,
	})
	rateLimit := middleware.RateLimitByIP(middleware.PerMinute(cfg.RateLimitPerMinute))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
		})

		r.Get("/regions", handler.ListRegions)

		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Post("/estimate", estimateHandler.Estimate)
			r.Post("/estimate:batch", estimateHandler.EstimateBatch)
			r.Post("/report", estimateHandler.Report)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r, nil
}
