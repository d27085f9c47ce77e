package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcustomer "github.com/erp/customer-service/internal/application/customer"
	"github.com/erp/customer-service/internal/domain/directory"
	"github.com/erp/customer-service/internal/infrastructure/auth"
	"github.com/erp/customer-service/internal/infrastructure/config"
	"github.com/erp/customer-service/internal/infrastructure/logger"
	"github.com/erp/customer-service/internal/infrastructure/persistence"
	"github.com/erp/customer-service/internal/infrastructure/userdirectory"
	"github.com/erp/customer-service/internal/interfaces/http/handler"
	"github.com/erp/customer-service/internal/interfaces/http/middleware"
	"github.com/erp/customer-service/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting customer service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Outbound user directory client, optionally wrapped in a summary cache
	resolver := buildResolver(cfg, log)

	// Application services
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	policy := appcustomer.NewAccessPolicy(cfg.Access.PrivilegedRoles)
	enricher := appcustomer.NewEnricher(resolver, log)

	var opts []appcustomer.Option
	if !cfg.Compat.LegacyErrorWrapping {
		opts = append(opts, appcustomer.WithPreservedErrorKinds())
	}
	customerService := appcustomer.NewService(customerRepo, policy, enricher, log, opts...)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.MaxBodySize(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Health endpoints sit outside the versioned API and skip auth
	engine.GET("/health", systemHandler.Health)
	engine.GET("/healthz", systemHandler.Health)

	// Versioned API routes
	r := router.NewRouter(engine)
	r.Register(router.NewCustomerRoutes(customerHandler))
	r.Setup()

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

// buildResolver wires the user directory client with the configured
// summary cache backend.
func buildResolver(cfg *config.Config, log *zap.Logger) directory.Resolver {
	client := userdirectory.NewHTTPResolver(cfg.Directory.BaseURL, cfg.Directory.Timeout)

	switch cfg.Directory.CacheBackend {
	case "memory":
		log.Info("User directory cache enabled", zap.String("backend", "memory"))
		cache := userdirectory.NewInMemorySummaryCache(cfg.Directory.CacheTTL)
		return userdirectory.NewCachedResolver(client, cache, log)
	case "redis":
		log.Info("User directory cache enabled",
			zap.String("backend", "redis"),
			zap.String("addr", cfg.Redis.Addr()),
		)
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache := userdirectory.NewRedisSummaryCache(rdb, cfg.Directory.CacheTTL)
		return userdirectory.NewCachedResolver(client, cache, log)
	default:
		return client
	}
}
