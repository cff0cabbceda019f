package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signage-portal/config"
	"signage-portal/internal/api"
	"signage-portal/internal/broker"
	"signage-portal/internal/catalog"
	"signage-portal/internal/notify"
	"signage-portal/internal/orders"
	"signage-portal/internal/redisclient"
	"signage-portal/internal/refdata"
	"signage-portal/internal/service"
	"signage-portal/internal/session"
	"signage-portal/internal/support"
	"signage-portal/internal/util"
	"signage-portal/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting signage portal", zap.String("env", cfg.Server.Env))

	if cfg.TracingEnabled() {
		tp, err := util.InitTracer("signage-portal", cfg.Observ.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	data, err := refdata.Load(loadCtx, cfg.Catalog.Source, cfg.Database.URL)
	loadCancel()
	if err != nil {
		logger.Fatal("Failed to load reference data", zap.String("source", cfg.Catalog.Source), zap.Error(err))
	}
	if bad := data.CheckHistories(); bad > 0 {
		logger.Warn("Orders with inconsistent status history", zap.Int("count", bad))
	}
	logger.Info("Reference data loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("products", len(data.Products)),
		zap.Int("orders", len(data.Orders)))

	center := notify.NewCenter()
	center.SeedFromOrders(data.Orders)

	sessions := session.NewManager(session.Options{
		IdleTTL:       cfg.Session.IdleTTL,
		SweepInterval: cfg.Session.SweepInterval,
	})
	defer sessions.Close()

	readyChecks := map[string]api.ReadyCheck{}

	var guard service.IdempotencyGuard = service.NewMemoryGuard()
	if cfg.RedisEnabled() {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))

		guard = redisClient
		readyChecks["redis"] = redisClient.Ping
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var (
		events             service.EventPublisher
		callbacks          api.CallbackPublisher
		notificationWorker *worker.NotificationWorker
	)
	if cfg.KafkaEnabled() {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		defer producer.Close()
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		publisher := broker.NewEventPublisher(producer)
		events, callbacks = publisher, publisher

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
		notificationWorker = worker.NewNotificationWorker(consumer, center)
		go func() {
			if err := notificationWorker.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Notification worker error", zap.Error(err))
			}
		}()
	} else {
		notificationWorker = worker.NewNotificationWorker(nil, center)
		local := broker.NewLocalPublisher(notificationWorker.Handler())
		events, callbacks = local, local
		logger.Info("Kafka disabled, delivering events in-process")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(api.Deps{
		Catalog:       catalog.New(data.Products),
		Orders:        orders.NewRepository(data.Orders),
		Sessions:      sessions,
		Notifications: center,
		Scheduler:     support.NewScheduler(),
		Checkout:      service.NewCheckoutService(guard, events, cfg.Checkout.IdempotencyTTL),
		Callbacks:     callbacks,
		ReadyChecks:   readyChecks,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := notificationWorker.Stop(); err != nil {
		logger.Error("Error stopping notification worker", zap.Error(err))
	}

	logger.Info("Server exited")
}
