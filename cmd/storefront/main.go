package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/clients"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/events"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/handlers"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/repository"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/server"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/service"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/session"

	_ "github.com/lib/pq"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New("storefront-service")

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	sessions, err := session.NewStore(cfg.Session.Dir, logging.New("session-store"))
	if err != nil {
		logger.Fatal("Failed to open session store", logging.Fields{"error": err.Error()})
	}

	customerRepo := repository.NewPostgresCustomerRepository(db, logging.New("customer-repository"))
	orderRepo := repository.NewPostgresOrderRepository(db, logging.New("order-repository"))
	productRepo := repository.NewPostgresProductRepository(db, logging.New("product-repository"))
	conversationRepo := repository.NewPostgresConversationRepository(db, logging.New("conversation-repository"))
	messageRepo := repository.NewPostgresMessageRepository(db, logging.New("message-repository"))
	catalogCache := repository.NewRedisCatalogCache(redisClient, cfg.Redis.TTL, logging.New("catalog-cache"))
	fallbackRepo := repository.NewFallbackProductRepository()

	feed := events.NewRedisFeed(redisClient, logging.New("chat-feed"))

	orderPublisher := events.NewKafkaPublisher(cfg.Kafka, logging.New("order-publisher"))
	defer orderPublisher.Close()

	var notifier clients.Notifier = clients.NewNoopNotifier()
	if cfg.Notifications.WebhookURL != "" {
		notifier = clients.NewWebhookNotifier(cfg.Notifications, logging.New("notifier"))
	}

	catalogService := service.NewCatalogService(productRepo, fallbackRepo, catalogCache, cfg)
	cartService := service.NewCartService()
	checkoutService := service.NewCheckoutService(customerRepo, orderRepo, cartService, sessions, orderPublisher, cfg)
	chatService := service.NewChatService(customerRepo, conversationRepo, messageRepo, feed, notifier, sessions, cfg)
	historyService := service.NewHistoryService(customerRepo, orderRepo)

	h := handlers.NewHandlers(catalogService, cartService, checkoutService, chatService, historyService, cfg)

	srv := server.New(h, cfg)

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":                      cfg.Server.Port,
			"enable_catalog_cache":      cfg.Features.EnableCatalogCache,
			"enable_order_events":       cfg.Features.EnableOrderEvents,
			"enable_chat_notifications": cfg.Features.EnableChatNotification,
		})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config, logger *logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})

	return db, nil
}
