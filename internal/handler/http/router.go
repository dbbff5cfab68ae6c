// Package http exposes the storefront over a chi router.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alfonso816/Tienda/internal/media"
	"github.com/alfonso816/Tienda/internal/service"
	"github.com/alfonso816/Tienda/pkg/health"
	"github.com/alfonso816/Tienda/pkg/middleware"
)

const serviceName = "tienda"

// Services are the use cases the router dispatches to.
type Services struct {
	Cart     *service.CartService
	Catalog  *service.CatalogService
	Settings *service.SettingsService
	Admin    *service.AdminService
	Media    *media.Encoder
}

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	CORSOrigins             []string
	RequestTimeout          time.Duration
	RateLimitPerMinute      int
	LoginRateLimitPerMinute int
	PprofCIDRs              []string
	// CatalogMaxAge is the public Cache-Control max-age of catalog reads, in
	// seconds.
	CatalogMaxAge int
}

// NewRouter creates a chi router with every storefront route registered.
// ctx bounds the background sweepers of the rate limiters.
func NewRouter(ctx context.Context, svc Services, healthHandler *health.Handler, logger *slog.Logger, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.CORSOrigins}))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.MountPprof(r, cfg.PprofCIDRs, logger)

	// Admin bodies may embed media as base64 data URLs.
	adminBody := svc.Media.MaxBytes()*4/3 + multipartOverhead

	cartHandler := NewCartHandler(svc.Cart, logger)
	catalogHandler := NewCatalogHandler(svc.Catalog, logger, adminBody)
	settingsHandler := NewSettingsHandler(svc.Settings, logger, adminBody)
	adminHandler := NewAdminHandler(svc.Admin, svc.Media, logger)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			r.Use(middleware.RateLimit(ctx, cfg.RateLimitPerMinute, max(1, cfg.RateLimitPerMinute/6), logger))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CatalogMaxAge))
			r.Get("/catalog", catalogHandler.GetCatalog)
			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{id}", catalogHandler.GetProduct)
			r.Get("/settings", settingsHandler.GetSettings)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(ContentTypeJSON)
			r.Use(SessionFromHeader)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/lines", cartHandler.AddLine)
			r.Patch("/lines/{itemId}/{size}", cartHandler.UpdateLine)
			r.Delete("/lines/{itemId}/{size}", cartHandler.RemoveLine)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Group(func(r chi.Router) {
				if cfg.LoginRateLimitPerMinute > 0 {
					r.Use(middleware.RateLimit(ctx, cfg.LoginRateLimitPerMinute, cfg.LoginRateLimitPerMinute, logger))
				}
				r.With(ContentTypeJSON).Post("/login", adminHandler.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireBearer(svc.Admin.ValidateToken))

				r.Post("/media", adminHandler.UploadMedia)

				r.Group(func(r chi.Router) {
					r.Use(ContentTypeJSON)
					r.Post("/categories", catalogHandler.CreateCategory)
					r.Delete("/categories/{id}", catalogHandler.DeleteCategory)
					r.Post("/products", catalogHandler.CreateProduct)
					r.Delete("/products/{id}", catalogHandler.DeleteProduct)
					r.Put("/settings", settingsHandler.UpdateSettings)
				})
			})
		})
	})

	return r
}
