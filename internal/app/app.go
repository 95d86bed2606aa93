package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/catalog"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/config"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/event"
	handler "github.com/Maverickd18/Frontend-Perfume-sub000/internal/handler/http"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/service"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/session"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/database"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/health"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/httpclient"
	pkgkafka "github.com/Maverickd18/Frontend-Perfume-sub000/pkg/kafka"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/middleware"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/tracing"
)

const serviceName = "seller-console"

// App wires together all dependencies and runs the seller console.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{cfg: cfg, logger: logger, tracerShutdown: tracerShutdown}
	healthHandler := health.NewHandler()

	// Seller credential store.
	var tokens session.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Host = cfg.RedisHost
		redisCfg.Port = cfg.RedisPort
		redisCfg.Password = cfg.RedisPassword
		redisCfg.DB = cfg.RedisDB

		rdb, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", redisCfg.Addr()),
			slog.Int("db", redisCfg.DB),
		)
		a.rdb = rdb
		tokens = session.NewRedisStore(rdb)
		healthHandler.Register("redis", database.RedisChecker(rdb))
	default:
		logger.Warn("using in-memory session store; sessions are lost on restart")
		tokens = session.NewMemoryStore()
	}
	credentials := session.NewCredentials(
		tokens,
		session.NewInspector(cfg.SellerRoles, cfg.SessionLeeway),
		cfg.SessionMaxTTL,
	)

	// Catalog client: retrying transport behind a circuit breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.CatalogTimeout
	httpCfg.MaxRetries = cfg.CatalogMaxRetries
	breaker := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	catalogClient := catalog.NewClient(breaker, catalog.Config{
		BaseURL:        cfg.CatalogBaseURL,
		PublicFileHost: cfg.CatalogPublicFileHost,
	}, logger)
	healthHandler.Register("catalog", catalogClient.Ping)

	// Item-created events.
	var events service.ItemEventPublisher
	if cfg.EventsEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewProducer(a.producer, logger)
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	saver := service.NewOrchestrator(catalogClient, credentials, events, logger)
	consoleService := service.NewConsoleService(catalogClient, credentials, saver, logger)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSOrigins
	cors.Environment = cfg.Environment

	router := handler.NewRouter(consoleService, healthHandler, handler.RouterConfig{
		CORS:           cors,
		SellerRoles:    cfg.SellerRoles,
		SavesPerMinute: cfg.SavesPerMinute,
		SaveBurst:      cfg.SaveBurst,
	}, logger)

	// WriteTimeout stays zero: the wizard event stream is long-lived.
	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the components in order: HTTP server, Kafka
// producer, Redis, then the tracer so spans from drained requests are flushed.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
