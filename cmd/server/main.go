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
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/shopmgmt/backend/internal/application/catalog"
	identityapp "github.com/shopmgmt/backend/internal/application/identity"
	inventoryapp "github.com/shopmgmt/backend/internal/application/inventory"
	partnerapp "github.com/shopmgmt/backend/internal/application/partner"
	reportapp "github.com/shopmgmt/backend/internal/application/report"
	tradeapp "github.com/shopmgmt/backend/internal/application/trade"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/auth"
	"github.com/shopmgmt/backend/internal/infrastructure/cache"
	"github.com/shopmgmt/backend/internal/infrastructure/config"
	"github.com/shopmgmt/backend/internal/infrastructure/logger"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence"
	"github.com/shopmgmt/backend/internal/infrastructure/scheduler"
	"github.com/shopmgmt/backend/internal/infrastructure/telemetry"
	"github.com/shopmgmt/backend/internal/interfaces/http/handler"
	"github.com/shopmgmt/backend/internal/interfaces/http/middleware"
	"github.com/shopmgmt/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Shop Management API
//	@version		1.0
//	@description	Multi-tenant retail shop backend: catalog, partners, point of sale, inventory and reports.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewForEnvironment(cfg.App.Env, &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing first so the database plugin registers against the real provider
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(ctx, &cfg.Database, persistence.Options{
		LogLevel: cfg.Log.Level,
		Tracing: telemetry.DBTracingConfig{
			Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Database.SlowQueryThresh,
			DBSystem:        "postgresql",
		},
		ZapLogger: log,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if mp.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB", zap.Error(err))
		}
		poolMetrics, err := telemetry.RegisterDBPoolMetrics(mp.Meter("shop-backend/db"), sqlDB)
		if err != nil {
			log.Fatal("Failed to register pool metrics", zap.Error(err))
		}
		defer func() { _ = poolMetrics.Unregister() }()
	}

	// Redis backs the token blacklist, idempotency keys and the report cache.
	// Without it each falls back to process memory or is switched off.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	var tokenBlacklist auth.TokenBlacklist
	if redisClient != nil {
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		log.Warn("Redis disabled, revoked tokens are tracked in memory only")
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	historyRepo := persistence.NewGormProductHistoryRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	salesReportRepo := persistence.NewGormSalesReportRepository(db.DB)
	inventoryReportRepo := persistence.NewGormInventoryReportRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, supplierRepo, saleRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, saleRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo, productRepo)
	stockService := inventoryapp.NewStockService(persistence.NewGormStockTransactionScope(db.DB), productRepo, historyRepo)
	inventoryService := inventoryapp.NewInventoryService(inventoryReportRepo, productRepo)
	saleService := tradeapp.NewSaleService(persistence.NewGormSaleTransactionScope(db.DB), saleRepo)
	if mp.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(mp.Meter("shop-backend"))
		if err != nil {
			log.Fatal("Failed to register business metrics", zap.Error(err))
		}
		saleService.SetBusinessMetrics(businessMetrics)
		inventoryService.SetBusinessMetrics(businessMetrics)
	}

	var reportOpts []reportapp.Option
	if cfg.Report.CacheEnabled && redisClient != nil {
		reportOpts = append(reportOpts, reportapp.WithCache(cache.NewRedisReportCache(redisClient), cfg.Report.CacheTTL))
	}
	reportService := reportapp.NewReportService(salesReportRepo, reportOpts...)

	// Daily digests
	var (
		digestScheduler *scheduler.Scheduler
		digestTrigger   *scheduler.CronTrigger
	)
	if cfg.Scheduler.Enabled {
		digestScheduler = scheduler.NewScheduler(scheduler.Config{
			Workers:       cfg.Scheduler.Workers,
			JobTimeout:    cfg.Scheduler.JobTimeout,
			RetryAttempts: cfg.Scheduler.RetryAttempts,
			RetryDelay:    cfg.Scheduler.RetryDelay,
		}, scheduler.NewDigestExecutor(inventoryService, reportService, log), log)
		digestTrigger = scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			DailyHour:     cfg.Scheduler.DailyHour,
			DailyMinute:   cfg.Scheduler.DailyMinute,
			CheckInterval: time.Minute,
		}, digestScheduler, userRepo, log)

		if err := digestScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start digest scheduler", zap.Error(err))
		}
		if err := digestTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start digest trigger", zap.Error(err))
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	// Recovery and request id come first so every later log line carries the id
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfigFromTelemetry(cfg.Telemetry)))
		engine.Use(middleware.SpanErrorMarker())
	}

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiters = append(limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingAttributeInjector())
	}

	systemHandler := handler.NewSystemHandler(db, version)
	engine.GET("/health", systemHandler.Health)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
		log.Info("Swagger UI enabled", zap.Strings("allowed_ips", cfg.Swagger.AllowedIPs))
	}

	routeMiddleware := router.RouteMiddleware{}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, authLimiter)
		routeMiddleware.AuthRateLimit = middleware.AuthRateLimit(authLimiter)
	}
	defer func() {
		for _, l := range limiters {
			l.Close()
		}
	}()

	if cfg.Idempotency.Enabled {
		idempotencyStore, err := newIdempotencyStore(redisClient, log)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() {
			if err := idempotencyStore.Close(); err != nil {
				log.Error("Error closing idempotency store", zap.Error(err))
			}
		}()
		routeMiddleware.Idempotency = middleware.Idempotency(idempotencyStore, shared.IdempotencyConfig{
			Enabled: true,
			TTL:     cfg.Idempotency.TTL,
		}, log)
	}

	router.NewRouter(engine).
		RegisterShopRoutes(router.Handlers{
			Auth:      handler.NewAuthHandler(authService),
			Sale:      handler.NewSaleHandler(saleService),
			Product:   handler.NewProductHandler(productService, stockService),
			Category:  handler.NewCategoryHandler(categoryService),
			Customer:  handler.NewCustomerHandler(customerService),
			Supplier:  handler.NewSupplierHandler(supplierService),
			Inventory: handler.NewInventoryHandler(inventoryService),
			Report:    handler.NewReportHandler(reportService),
			System:    systemHandler,
		}, routeMiddleware).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if digestTrigger != nil {
		_ = digestTrigger.Stop(shutdownCtx)
	}
	if digestScheduler != nil {
		if err := digestScheduler.Stop(shutdownCtx); err != nil {
			log.Warn("Digest scheduler did not stop cleanly", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// newIdempotencyStore prefers redis so keys survive restarts and are shared
// across instances, and falls back to memory for single-node setups
func newIdempotencyStore(client *redis.Client, log *zap.Logger) (shared.IdempotencyStore, error) {
	var universal redis.UniversalClient
	if client != nil {
		universal = client
	}
	return cache.NewIdempotencyStoreFactory(universal,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore()
}
