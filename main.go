package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/di"
	"github.com/nightlife-hub/nightpass/internal/gateway"
	"github.com/nightlife-hub/nightpass/internal/metrics"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/config"
	"github.com/nightlife-hub/nightpass/pkg/database"
	"github.com/nightlife-hub/nightpass/pkg/kafka"
	"github.com/nightlife-hub/nightpass/pkg/logger"
	"github.com/nightlife-hub/nightpass/pkg/middleware"
	pkgredis "github.com/nightlife-hub/nightpass/pkg/redis"
	"github.com/nightlife-hub/nightpass/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting nightpass API...", zap.String("version", cfg.App.Version))

	ctx := context.Background()

	// Initialize tracing and metric instruments
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn("Telemetry init failed, tracing disabled", zap.Error(err))
	}
	defer telemetry.Shutdown(context.Background())

	if err := metrics.Init(); err != nil {
		appLog.Warn("Metrics init failed", zap.Error(err))
	}

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
		ServiceName:     cfg.App.Name,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Redis backs the venue cache and checkout idempotency. The API runs without it.
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisCfg := &pkgredis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			PoolTimeout:   4 * time.Second,
			MaxRetries:    3,
			RetryInterval: 100 * time.Millisecond,
		}
		redisClient, err = pkgredis.NewClient(ctx, redisCfg)
		if err != nil {
			appLog.Warn("Redis connection failed, running without cache and idempotency", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info(fmt.Sprintf("Redis connected (pool: %d, minIdle: %d)", redisCfg.PoolSize, redisCfg.MinIdleConns))
		}
	}

	// Tier recalculation goes through Kafka when configured, inline otherwise
	var tierTrigger service.TierTrigger
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:       cfg.Kafka.Brokers,
			ClientID:      cfg.Kafka.ClientID,
			MaxRetries:    3,
			RetryInterval: time.Second,
			Linger:        5 * time.Millisecond,
		})
		if err != nil {
			appLog.Warn("Kafka connection failed, recalculating tiers inline", zap.Error(err))
		} else {
			defer producer.Close()
			tierTrigger = service.NewKafkaTierTrigger(producer, cfg.Kafka.TicketIssuedTopic)
			appLog.Info("Kafka ticket publisher connected", zap.String("topic", cfg.Kafka.TicketIssuedTopic))
		}
	}

	// Initialize payment gateway
	var paymentGateway gateway.PaymentGateway
	switch cfg.Payment.Gateway {
	case "stripe":
		stripeGateway, err := gateway.NewStripeGateway(&gateway.StripeGatewayConfig{
			SecretKey:     cfg.Payment.SecretKey,
			WebhookSecret: cfg.Payment.WebhookSecret,
		})
		if err != nil {
			appLog.Fatal("Stripe gateway init failed", zap.Error(err))
		}
		paymentGateway = stripeGateway
	default:
		appLog.Warn("Using mock payment gateway")
		paymentGateway = gateway.NewMockGateway(cfg.Payment.WebhookSecret)
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		ServiceName: cfg.App.Name,
		DB:          db,
		Redis:       redisClient,
		CacheTTL:    cfg.Redis.CacheTTL,
		Gateway:     paymentGateway,
		CheckoutConfig: &service.CheckoutConfig{
			Currency:   cfg.Payment.Currency,
			SuccessURL: cfg.Checkout.SuccessURL,
			CancelURL:  cfg.Checkout.CancelURL,
		},
		TierTrigger: tierTrigger,
	})

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DisableConsoleColor()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(appLog, "/health", "/ready"))
	router.Use(telemetry.TracingMiddleware(cfg.App.Name, "/health", "/ready"))

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// Stripe authenticates itself with the signature header
	router.POST("/webhooks/stripe", container.WebhookHandler.HandleStripe)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTMiddleware(&middleware.JWTConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	}))
	{
		venues := v1.Group("/venues")
		{
			venues.GET("", container.VenueHandler.List)
			venues.GET("/:id", container.VenueHandler.Get)
			venues.POST("", container.VenueHandler.Create)
			venues.PUT("/:id", container.VenueHandler.Update)
		}

		djs := v1.Group("/djs")
		{
			djs.GET("", container.DJHandler.List)
			djs.GET("/:id", container.DJHandler.Get)
			djs.POST("", container.DJHandler.Create)
		}

		events := v1.Group("/events")
		{
			events.GET("", container.EventHandler.List)
			events.GET("/:id", container.EventHandler.Get)
			events.POST("", container.EventHandler.Create)
			events.GET("/:id/ticket-types/:name/quote", container.EventHandler.Quote)
		}

		// Checkout is the only write that reaches the payment provider
		checkoutChain := []gin.HandlerFunc{}
		if redisClient != nil {
			idempotencyConfig := middleware.DefaultIdempotencyConfig(redisClient.Client())
			idempotencyConfig.Optional = true
			checkoutChain = append(checkoutChain, middleware.IdempotencyMiddleware(idempotencyConfig))
		}
		checkoutChain = append(checkoutChain, container.CheckoutHandler.Create)
		v1.POST("/checkout", checkoutChain...)

		users := v1.Group("/users")
		{
			users.POST("/sync", container.UserHandler.Sync)
			users.GET("/me", container.UserHandler.Me)
		}

		tickets := v1.Group("/tickets")
		{
			tickets.GET("/me", container.TicketHandler.ListMine)
			tickets.POST("/:id/validate", container.TicketHandler.Validate)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.POST("", container.ReviewHandler.Create)
			reviews.GET("", container.ReviewHandler.ListByTarget)
			reviews.GET("/me", container.ReviewHandler.ListMine)
		}

		v1.GET("/rewards/progress", container.RewardHandler.Progress)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// pprof on a separate port, debug builds only
	if cfg.App.Debug {
		go func() {
			pprofAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port+1000)
			appLog.Info(fmt.Sprintf("pprof server listening on %s", pprofAddr))
			if err := http.ListenAndServe(pprofAddr, nil); err != nil {
				appLog.Error("pprof server error", zap.Error(err))
			}
		}()
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("nightpass API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}
