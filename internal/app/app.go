// Package app wires the storefront's configuration, backends, services and
// HTTP server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/alfonso816/Tienda/internal/auth"
	"github.com/alfonso816/Tienda/internal/checkout"
	"github.com/alfonso816/Tienda/internal/config"
	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/event"
	handler "github.com/alfonso816/Tienda/internal/handler/http"
	"github.com/alfonso816/Tienda/internal/media"
	"github.com/alfonso816/Tienda/internal/repository"
	"github.com/alfonso816/Tienda/internal/repository/memory"
	pgrepo "github.com/alfonso816/Tienda/internal/repository/postgres"
	redisrepo "github.com/alfonso816/Tienda/internal/repository/redis"
	"github.com/alfonso816/Tienda/internal/repository/rest"
	"github.com/alfonso816/Tienda/internal/service"
	"github.com/alfonso816/Tienda/migrations"
	"github.com/alfonso816/Tienda/pkg/database"
	"github.com/alfonso816/Tienda/pkg/health"
	"github.com/alfonso816/Tienda/pkg/httpclient"
	pkgkafka "github.com/alfonso816/Tienda/pkg/kafka"
	"github.com/alfonso816/Tienda/pkg/tracing"
)

// ServiceName labels logs, traces and metrics.
const ServiceName = "tienda-storefront"

// devAdminPassword is accepted in development when no hash is configured.
const devAdminPassword = "admin123"

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	shutdownTracing tracing.ShutdownFunc
	stopBackground  context.CancelFunc
	httpServer      *http.Server
}

// backends are the repositories selected by configuration.
type backends struct {
	catalog  repository.CatalogRepository
	settings repository.SettingsRepository
	carts    repository.CartRepository
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.closeResources()
		}
	}()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.shutdownTracing = shutdownTracing

	healthHandler := health.NewHandler()

	b := backends{}
	if err := a.initCatalog(ctx, &b, healthHandler); err != nil {
		return nil, err
	}
	if err := a.initCarts(ctx, &b, healthHandler); err != nil {
		return nil, err
	}

	var events service.EventPublisher = event.Nop{}
	if cfg.EventsEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
		}, logger)
		events = event.NewProducer(a.producer, logger)
		healthHandler.RegisterOptional("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	tag, err := checkout.ParseLocale(cfg.MessageLocale)
	if err != nil {
		return nil, err
	}

	passwordHash, err := adminPasswordHash(cfg, logger)
	if err != nil {
		return nil, err
	}

	settingsService := service.NewSettingsService(b.settings, logger)
	services := handler.Services{
		Cart: service.NewCartService(b.carts, b.catalog, settingsService, events, logger, service.CartOptions{
			TTL:             cfg.CartTTL,
			ClearOnCheckout: cfg.ClearCartOnCheckout,
			Composer:        checkout.NewComposer(checkout.SpanishLabels, tag),
		}),
		Catalog:  service.NewCatalogService(b.catalog, logger),
		Settings: settingsService,
		Admin:    service.NewAdminService(passwordHash, auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL), logger),
		Media:    media.NewEncoder(cfg.MaxUploadBytes),
	}

	bgCtx, stop := context.WithCancel(context.Background())
	a.stopBackground = stop

	router := handler.NewRouter(bgCtx, services, healthHandler, logger, handler.RouterConfig{
		CORSOrigins:             cfg.CORSOrigins,
		RequestTimeout:          cfg.RequestTimeout,
		RateLimitPerMinute:      cfg.RateLimitRPM,
		LoginRateLimitPerMinute: cfg.LoginRateRPM,
		PprofCIDRs:              cfg.PprofCIDRs,
		CatalogMaxAge:           30,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ok = true
	return a, nil
}

func (a *App) initCatalog(ctx context.Context, b *backends, h *health.Handler) error {
	cfg, logger := a.cfg, a.logger
	switch cfg.CatalogBackend {
	case config.BackendPostgres:
		pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
			URL:             cfg.DatabaseURL,
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
			MaxConnIdleTime: cfg.DBMaxConnIdle,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, ServiceName); err != nil {
			logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
		}
		if cfg.DBAutoMigrate {
			if err := database.Migrate(ctx, pool, migrations.FS, logger); err != nil {
				return fmt.Errorf("migrate catalog schema: %w", err)
			}
		}
		inst := database.NewInstrument("postgresql", cfg.DBSlowQuery, logger)
		b.catalog = pgrepo.NewCatalogRepository(pool, inst)
		b.settings = pgrepo.NewSettingsRepository(pool, inst)
		h.Register("postgres", pool.Ping)

	case config.BackendRest:
		httpCfg := httpclient.DefaultConfig()
		httpCfg.Timeout = cfg.RestTimeout
		doer := httpclient.NewBreakerClient(httpclient.New(httpCfg), httpclient.DefaultBreakerConfig("catalog-backend"), logger)
		client := rest.NewClient(cfg.RestURL, cfg.RestAPIKey, doer)
		b.catalog = rest.NewCatalogRepository(client)
		b.settings = rest.NewSettingsRepository(client)
		h.Register("catalog-backend", client.Ping)

	default:
		categories, products := memory.DemoCatalog()
		b.catalog = memory.NewCatalogRepository(categories, products)
		var seed *domain.Settings
		if cfg.StoreWhatsApp != "" {
			s := domain.DefaultSettings()
			s.WhatsApp = cfg.StoreWhatsApp
			seed = &s
		}
		b.settings = memory.NewSettingsRepository(seed)
	}
	logger.Info("catalog backend ready", slog.String("backend", cfg.CatalogBackend))
	return nil
}

func (a *App) initCarts(ctx context.Context, b *backends, h *health.Handler) error {
	cfg, logger := a.cfg, a.logger
	switch cfg.CartBackend {
	case config.BackendRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		repo := redisrepo.NewCartRepository(rdb, cfg.CartTTL, database.NewInstrument("redis", cfg.DBSlowQuery, logger))
		b.carts = repo
		h.Register("redis", repo.Ping)
	default:
		b.carts = memory.NewCartRepository(cfg.CartTTL)
	}
	logger.Info("cart backend ready", slog.String("backend", cfg.CartBackend))
	return nil
}

// adminPasswordHash returns the configured bcrypt hash. Development without
// one falls back to a hash of devAdminPassword.
func adminPasswordHash(cfg *config.Config, logger *slog.Logger) (string, error) {
	if cfg.AdminPasswordHash != "" {
		return cfg.AdminPasswordHash, nil
	}
	if !cfg.IsDevelopment() {
		return "", errors.New("ADMIN_PASSWORD_HASH is required outside development")
	}
	logger.Warn("ADMIN_PASSWORD_HASH not set, accepting the development admin password")
	return auth.HashPassword(devAdminPassword)
}

// Handler exposes the HTTP handler, for tests.
func (a *App) Handler() http.Handler { return a.httpServer.Handler }

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.closeResources()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	a.closeResources()
	if err := a.shutdownTracing(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) closeResources() {
	if a.stopBackground != nil {
		a.stopBackground()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
		a.producer = nil
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
		a.rdb = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
