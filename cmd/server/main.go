package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/config"
	"marketplace/internal/api"
	"marketplace/internal/broker"
	"marketplace/internal/redisclient"
	"marketplace/internal/service"
	"marketplace/internal/store"
	"marketplace/internal/util"
	"marketplace/internal/worker"

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
	logger.Info("Starting marketplace", zap.String("store_backend", cfg.Store.Backend))

	tp, err := util.InitTracer("marketplace", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Printf("Error shutting down tracer: %v", err)
			}
		}()
	}

	ctx := context.Background()

	backend, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to open store backend: %v", err)
	}

	db, err := store.Open(ctx, backend)
	if err != nil {
		log.Fatalf("Failed to load marketplace document: %v", err)
	}
	defer db.Close()
	logger.Info("Store opened")

	var (
		eventPublisher service.EventPublisher = broker.NopPublisher{}
		notifyWorker   *worker.NotificationWorker
	)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicMarket)
		defer producer.Close()
		eventPublisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicMarket, cfg.Kafka.ConsumerGroup)
		notifyWorker = worker.NewNotificationWorker(consumer, worker.NewLogNotifier())
		go func() {
			if err := notifyWorker.Start(workerCtx); err != nil {
				logger.Error("Notification worker error", zap.Error(err))
			}
		}()
	} else {
		logger.Info("No Kafka brokers configured, events are dropped")
	}

	sessions := service.NewSessionManager()
	identityService := service.NewIdentityService(db, sessions, cfg.Business.AdminSecret)
	catalogService := service.NewCatalogService(db)
	offerService := service.NewOfferService(db, eventPublisher)
	chatService := service.NewChatService(db, sessions, eventPublisher)

	if cfg.Business.SeedSampleCatalog {
		added, err := catalogService.SeedSampleCatalog(ctx)
		if err != nil {
			logger.Error("Failed to seed sample catalog", zap.Error(err))
		} else if added > 0 {
			logger.Info("Seeded sample catalog", zap.Int("products", added))
		}
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(identityService, catalogService, offerService, chatService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
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
	if notifyWorker != nil {
		notifyWorker.Stop()
	}

	logger.Info("Server exited")
}

// openBackend picks the document backend named by STORE_BACKEND
func openBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemoryBackend(), nil
	case config.BackendFile:
		return store.NewFileBackend(cfg.Store.Path)
	case config.BackendRedis:
		client, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return store.NewRedisBackend(client, cfg.Store.Key), nil
	case config.BackendPostgres:
		return store.NewPostgresBackend(cfg.Database.URL, cfg.Store.Key)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
