package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nordcommerce/vipps-gateway/internal/config"
	"github.com/nordcommerce/vipps-gateway/internal/db"
	"github.com/nordcommerce/vipps-gateway/internal/events"
	"github.com/nordcommerce/vipps-gateway/internal/handlers"
	"github.com/nordcommerce/vipps-gateway/internal/lock"
	"github.com/nordcommerce/vipps-gateway/internal/middleware"
	"github.com/nordcommerce/vipps-gateway/internal/repository"
	"github.com/nordcommerce/vipps-gateway/internal/resolver"
	"github.com/nordcommerce/vipps-gateway/internal/service"
	"github.com/nordcommerce/vipps-gateway/internal/vipps"
)

func main() {
	// Local development loads .env; in production the environment is set
	// by the deployment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting vipps gateway",
		"port", cfg.Server.Port,
		"gateway_id", cfg.Vipps.GatewayID,
		"express", cfg.Vipps.Express,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	lockOpts := lock.Options{
		WaitTimeout: cfg.Lock.WaitTimeout,
		Backoff:     cfg.Lock.Backoff,
		MaxAttempts: cfg.Lock.MaxAttempts,
	}
	var locks lock.Coordinator
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		locks = lock.NewRedis(redisClient, lockOpts, logger)
		logger.Info("using redis lock coordinator", "addr", cfg.Redis.Addr)
	} else {
		locks = lock.NewMemory(lockOpts, logger)
		logger.Info("using in-process lock coordinator")
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka := events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer kafka.Close()
		publisher = kafka
		logger.Info("publishing events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	client := vipps.NewHTTPClient(cfg.Vipps.BaseURL, vipps.Credentials{
		ClientID:                     cfg.Vipps.ClientID,
		ClientSecret:                 cfg.Vipps.ClientSecret,
		SubscriptionKeyAuthorization: cfg.Vipps.SubscriptionKeyAuthorization,
		SubscriptionKeyPayment:       cfg.Vipps.SubscriptionKeyPayment,
		SerialNumber:                 cfg.Vipps.SerialNumber,
	})

	engine := service.NewEngine(service.EngineConfig{
		GatewayID:       cfg.Vipps.GatewayID,
		OrderIDPrefix:   cfg.Vipps.OrderIDPrefix,
		PublicBaseURL:   cfg.Vipps.PublicBaseURL,
		Express:         cfg.Vipps.Express,
		PollInterval:    cfg.Poll.Interval,
		MaxPollAttempts: cfg.Poll.MaxAttempts,
	}, service.EngineParams{
		Payments:  repository.NewPaymentRepository(database),
		Orders:    repository.NewOrderRepository(database),
		Client:    client,
		Locks:     locks,
		Publisher: publisher,
		OrderIDs:  resolver.NewOrderIDChain(),
		Shipping:  resolver.NewShippingMethodsChain(),
		Logger:    logger,
	})

	handler := handlers.NewHandler(engine, engine, engine, engine, engine, database, logger)

	var idempotencyRepo middleware.IdempotencyRepository = repository.NewIdempotencyRepository(database)
	router := handlers.NewRouter(handler, idempotencyRepo, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
