package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/cache"
	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/logger"
	"github.com/iliyamo/restaurant-pos/internal/pos"
	"github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/router"
	"github.com/iliyamo/restaurant-pos/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()
	log := logger.New("restaurant-pos", os.Stderr)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: a nil client degrades the catalog cache and the
	// confirm idempotency guard to pass-through behavior.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, running without catalog cache and idempotency guard")
	}

	productRepo := repository.NewProductRepo(db)
	tableRepo := repository.NewTableRepo(db)
	userRepo := repository.NewUserRepo(db)
	archiveRepo := repository.NewOrderArchiveRepo(db)

	catalog := cache.NewCatalogCache(rdb, productRepo, cfg.CatalogTTL)
	guard := cache.NewConfirmGuard(rdb, cfg.ConfirmIdemTTL)

	notifier := service.NewQueueNotifier(cfg.AMQPURL, log)
	registry := pos.NewTableRegistry(tableRepo, notifier, nil, cfg.LockWait)

	if cfg.AMQPURL != "" {
		go queue.StartConsumer(log)
	}

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.AccessTTLMin))
	router.RegisterAPI(e,
		handler.NewMenuHandler(catalog),
		handler.NewTableHandler(tableRepo, registry),
		handler.NewOrderHandler(registry, catalog, archiveRepo, guard, log),
		cfg.JWTSecret,
	)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	// Block until interrupted, then drain in-flight requests.  Open orders
	// live in memory only, so the shutdown window is kept short.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}
