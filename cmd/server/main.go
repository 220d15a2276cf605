package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	orderapp "github.com/linenloft/backend/internal/application/order"
	shippingapp "github.com/linenloft/backend/internal/application/shipping"
	"github.com/linenloft/backend/internal/domain/shipping"
	"github.com/linenloft/backend/internal/infrastructure/cache"
	"github.com/linenloft/backend/internal/infrastructure/carrier"
	"github.com/linenloft/backend/internal/infrastructure/config"
	"github.com/linenloft/backend/internal/infrastructure/logger"
	"github.com/linenloft/backend/internal/infrastructure/persistence"
	"github.com/linenloft/backend/internal/infrastructure/telemetry"
	"github.com/linenloft/backend/internal/interfaces/http/handler"
	"github.com/linenloft/backend/internal/interfaces/http/middleware"
	"github.com/linenloft/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting LinenLoft Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
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
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracing := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracing.Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Shipment attempt guard: Redis when configured, in-memory otherwise.
	// The in-memory guard only protects a single instance.
	var guard shipping.AttemptGuard
	if cfg.Redis.Host != "" {
		redisGuard, err := cache.NewRedisAttemptGuard(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		guard = redisGuard
		log.Info("Using Redis shipment attempt guard",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		guard = cache.NewInMemoryAttemptGuard()
		log.Warn("Redis not configured, using in-memory shipment attempt guard")
	}
	defer func() {
		if err := guard.Close(); err != nil {
			log.Error("Error closing attempt guard", zap.Error(err))
		}
	}()

	// Register carrier adapters
	registry := carrier.NewRegistry()
	registry.Register(carrier.NewShiprocketAdapter(&carrier.ShiprocketConfig{
		Email:          cfg.Shipping.Shiprocket.Email,
		Password:       cfg.Shipping.Shiprocket.Password,
		BaseURL:        cfg.Shipping.Shiprocket.BaseURL,
		PickupLocation: cfg.Shipping.Shiprocket.PickupLocation,
		CourierID:      cfg.Shipping.Shiprocket.CourierID,
		TimeoutSeconds: int(cfg.Shipping.Shiprocket.Timeout.Seconds()),
	}, log))
	registry.Register(carrier.NewDelhiveryAdapter(&carrier.DelhiveryConfig{
		APIKey:         cfg.Shipping.Delhivery.APIKey,
		BaseURL:        cfg.Shipping.Delhivery.BaseURL,
		PickupLocation: cfg.Shipping.Delhivery.PickupLocation,
		TimeoutSeconds: int(cfg.Shipping.Delhivery.Timeout.Seconds()),
	}, log))
	registry.Register(carrier.NewManualAdapter())
	log.Info("Carrier adapters registered", zap.Any("providers", registry.Names()))

	// Initialize repositories and application services
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderService := orderapp.NewService(orderRepo, log)
	orchestrator := shippingapp.NewOrchestrator(registry, log)
	fulfillmentService := shippingapp.NewFulfillmentService(
		orderRepo, orchestrator, guard, cfg.Shipping.Shiprocket.CourierID, log,
	)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request IDs, panic recovery, request
	// logging, tracing, body/rate limits, security headers, CORS.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health"))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.TracingAttributeInjector())
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))
	if cfg.HTTP.RateLimitPerMin > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitPerMin, time.Minute)
		engine.Use(middleware.RateLimit(limiter))
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewOrderHandler(orderService)).
		Register(handler.NewShipmentHandler(fulfillmentService)).
		Register(handler.NewSystemHandler())
	r.Setup()

	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness of the process and its database connection
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
