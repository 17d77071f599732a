package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appcart "github.com/storefront/backend/internal/application/cart"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/session"
	appstorefront "github.com/storefront/backend/internal/application/storefront"
	apptenant "github.com/storefront/backend/internal/application/tenant"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/fallback"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	gormlogger "gorm.io/gorm/logger"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// OTLP log export has to exist before the application logger so zap can tee into it
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	log := bootLog
	if logProvider.IsEnabled() {
		log, err = logger.New(logCfg, logger.WithCore(logProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))))
		if err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	metrics, err := telemetry.NewStorefrontMetrics(meterProvider.Meter("storefront"))
	if err != nil {
		log.Fatal("Failed to create storefront metrics", zap.Error(err))
	}

	// Live data is optional; without a database every tenant comes from the fallback file
	var (
		db          *persistence.Database
		tenantRepo  tenant.Repository
		productRepo catalog.ProductRepository
	)
	if cfg.Database.Enabled {
		gormLevel := gormlogger.Warn
		if cfg.Log.Level == "debug" {
			gormLevel = gormlogger.Info
		}
		db, err = persistence.NewDatabase(&cfg.Database,
			persistence.WithLogger(log, gormLevel, cfg.Telemetry.DBSlowQueryThresh))
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			Enabled:               cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			DBName:                cfg.Database.DBName,
			IncludeQueryVariables: !cfg.IsProduction(),
		}, log); err != nil {
			log.Warn("Database tracing unavailable", zap.Error(err))
		}
		tenantRepo = persistence.NewGormTenantRepository(db.DB)
		productRepo = persistence.NewGormProductRepository(db.DB)
		log.Info("Database connected successfully")
	} else {
		log.Info("Database disabled, serving fallback tenants only")
	}

	currency, err := valueobject.ParseCurrency(cfg.Storefront.DefaultCurrency)
	if err != nil {
		log.Fatal("Invalid default currency", zap.Error(err))
	}
	fallbackData, err := fallback.Load(cfg.Storefront.FallbackFile, currency)
	if err != nil {
		log.Fatal("Failed to load fallback data",
			zap.String("file", cfg.Storefront.FallbackFile), zap.Error(err))
	}
	log.Info("Fallback data loaded", zap.Int("tenants", len(fallbackData.Directory.Tenants())))

	prefs, err := cache.NewPreferenceStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithPreferenceTTL(cfg.Storefront.SessionTTL)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create view-only store", zap.Error(err))
	}
	defer func() {
		_ = prefs.Close()
	}()

	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	registry := session.NewRegistry(cfg.Storefront.SessionTTL, log)
	registry.Start(cfg.Storefront.CleanupInterval)
	if err := metrics.ObserveActiveSessions(func() int64 { return int64(registry.Len()) }); err != nil {
		log.Warn("Active session gauge unavailable", zap.Error(err))
	}

	locale, err := language.Parse(cfg.Storefront.Locale)
	if err != nil {
		log.Warn("Unknown locale, using English", zap.String("locale", cfg.Storefront.Locale))
		locale = language.English
	}

	images := storage.NewImageResolver(cfg.Storage, log)
	sources := appcatalog.NewSources(productRepo, fallbackData.Products, images, log)
	tenantService := apptenant.NewService(tenantRepo, fallbackData.Directory, prefs, bus, log,
		apptenant.WithMetrics(metrics))
	cartService := appcart.NewService(sources, log,
		appcart.WithMetrics(metrics), appcart.WithLocale(locale))
	storefrontService := appstorefront.NewService(sources, cartService, log)

	stream := handler.NewViewOnlyStreamHandler(bus,
		handler.WithSSELogger(log),
		handler.WithSSEHeartbeat(cfg.Storefront.SSEHeartbeat),
		handler.WithSSEMaxClients(cfg.Storefront.SSEMaxClients))
	if err := stream.Start(); err != nil {
		log.Fatal("Failed to start view-only stream", zap.Error(err))
	}

	checks := map[string]handler.HealthCheck{
		"preferences": prefs.Ping,
	}
	if db != nil {
		checks["database"] = db.Ping
	}
	healthHandler := handler.NewHealthHandler(cfg.App.Name, serviceVersion, checks)

	var tokens middleware.TokenValidator
	if jwtService := auth.NewJWTService(cfg.JWT); jwtService.Enabled() {
		tokens = jwtService
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// RequestID, Recovery, Logger, Tracing, Metrics, Secure, CORS, BodyLimit, RateLimit, then
	// Session, OptionalJWT and span enrichment on the API group.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(meterProvider.Meter("http.server")))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", healthHandler.Live)
	engine.GET("/health/ready", healthHandler.Ready)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(
		middleware.Session(registry, middleware.SessionConfig{
			CookieName: cfg.Storefront.SessionCookie,
			Domain:     cfg.Cookie.Domain,
			Path:       cfg.Cookie.Path,
			Secure:     cfg.Cookie.Secure,
			SameSite:   middleware.ParseSameSite(cfg.Cookie.SameSite),
			MaxAge:     cfg.Storefront.SessionTTL,
		}),
		middleware.OptionalJWT(tokens, log),
		middleware.TracingAttributes(),
	)
	r.Register(router.StorefrontRoutes(router.StorefrontHandlers{
		Storefront: handler.NewStorefrontHandler(tenantService, storefrontService),
		Cart:       handler.NewCartHandler(tenantService, cartService),
		ViewOnly:   handler.NewViewOnlyHandler(tenantService),
		Stream:     stream,
	}, middleware.Storefront(tenantService))...)
	r.Setup()

	// No write timeout: the view-only stream stays open
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Streams block Shutdown until they return
	stream.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	registry.Stop()
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus stop failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Log provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
