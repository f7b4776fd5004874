package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/VindFlainger/maplapi/internal/application/cart"
	catalogapp "github.com/VindFlainger/maplapi/internal/application/catalog"
	orderapp "github.com/VindFlainger/maplapi/internal/application/order"
	shippingapp "github.com/VindFlainger/maplapi/internal/application/shipping"
	"github.com/VindFlainger/maplapi/internal/infrastructure/auth"
	"github.com/VindFlainger/maplapi/internal/infrastructure/cache"
	"github.com/VindFlainger/maplapi/internal/infrastructure/config"
	"github.com/VindFlainger/maplapi/internal/infrastructure/logger"
	"github.com/VindFlainger/maplapi/internal/infrastructure/persistence"
	"github.com/VindFlainger/maplapi/internal/infrastructure/telemetry"
	"github.com/VindFlainger/maplapi/internal/interfaces/http/handler"
	"github.com/VindFlainger/maplapi/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting store backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	ctx := context.Background()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled {
		if err := db.EnableTracing(); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	skuViewRepo := persistence.NewGormSkuViewRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	txnScope := persistence.NewGormTransactionScope(db.DB)

	// Facet cache is optional: without Redis every facet query hits the
	// store. Availability is never cached either way.
	var facetCache catalogapp.FacetCache
	if cfg.Cache.FacetsEnabled {
		redisCache, err := cache.NewRedisFacetCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Cache.FacetsTTL, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		facetCache = redisCache
		log.Info("Facet cache enabled", zap.Duration("ttl", cfg.Cache.FacetsTTL))
	}

	// Application services
	catalogService := catalogapp.NewService(productRepo, skuViewRepo, facetCache)
	cartService := cartapp.NewService(cartRepo, skuViewRepo)
	orderService := orderapp.NewService(txnScope, orderRepo, skuViewRepo, locationRepo)
	shippingService := shippingapp.NewService(locationRepo)

	jwtService := auth.NewJWTService(cfg.JWT)
	assets := handler.NewAssetResolver(cfg.Assets.BaseURL)

	engine := router.New(cfg, log, jwtService, router.Handlers{
		System:   handler.NewSystemHandler(db),
		Catalog:  handler.NewCatalogHandler(catalogService, assets),
		Cart:     handler.NewCartHandler(cartService, assets),
		Order:    handler.NewOrderHandler(orderService),
		Shipping: handler.NewShippingHandler(shippingService),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
