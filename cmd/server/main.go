package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/stockledger/internal/adapter/http"
	"github.com/iho/stockledger/internal/adapter/http/handler"
	"github.com/iho/stockledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/stockledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/stockledger/internal/adapter/repository/redis"
	"github.com/iho/stockledger/internal/infrastructure/config"
	"github.com/iho/stockledger/internal/infrastructure/eventpublisher"
	"github.com/iho/stockledger/internal/infrastructure/logger"
	"github.com/iho/stockledger/internal/infrastructure/logging"
	"github.com/iho/stockledger/internal/infrastructure/metrics"
	"github.com/iho/stockledger/internal/infrastructure/postgres"
	"github.com/iho/stockledger/internal/infrastructure/redis"
	"github.com/iho/stockledger/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	inventoryRepo := postgresRepo.NewInventoryRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	orderRepo := postgresRepo.NewOrderRepository(pool)
	catalogRepo := postgresRepo.NewCatalogRepository(pool)
	directoryRepo := postgresRepo.NewDirectoryRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// With the outbox disabled, order events are dropped instead of staged.
	var orderOutbox usecase.OutboxRepository = outboxRepo
	if !cfg.OutboxEnabled {
		orderOutbox = postgresRepo.NewNullOutboxRepository()
	}
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Catalog lookups go through the Redis price cache
	cache := redisRepo.NewCache(redisClient)
	catalog := redisRepo.NewCachedCatalog(catalogRepo, cache)

	// Initialize use cases
	inventoryUC := usecase.NewInventoryUseCase(txManager, inventoryRepo, movementRepo, catalog, directoryRepo, idGen, appMetrics).WithRetrier(retrier)
	orderUC := usecase.NewOrderUseCase(txManager, orderRepo, orderOutbox, inventoryUC, catalog, directoryRepo, idGen, appMetrics).WithRetrier(retrier)
	reportUC := usecase.NewReportUseCase(orderRepo, inventoryRepo)

	// Initialize handlers
	inventoryHandler := handler.NewInventoryHandler(inventoryUC)
	orderHandler := handler.NewOrderHandler(orderUC)
	reportHandler := handler.NewReportHandler(reportUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Outbox event publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(slogger.Logger),
			Logger:     slogger.Logger,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
		})

		go func() {
			if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	requestLogger := log.Logger

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		InventoryHandler: inventoryHandler,
		OrderHandler:     orderHandler,
		ReportHandler:    reportHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		Logger:           &requestLogger,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
