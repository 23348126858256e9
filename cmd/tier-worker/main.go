package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nightlife-hub/nightpass/internal/metrics"
	"github.com/nightlife-hub/nightpass/internal/repository"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/internal/worker"
	"github.com/nightlife-hub/nightpass/pkg/config"
	"github.com/nightlife-hub/nightpass/pkg/database"
	"github.com/nightlife-hub/nightpass/pkg/kafka"
	"github.com/nightlife-hub/nightpass/pkg/logger"
	pkgredis "github.com/nightlife-hub/nightpass/pkg/redis"
	"github.com/nightlife-hub/nightpass/pkg/retry"
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
		ServiceName: "tier-worker",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Tier Worker...")

	if !cfg.Kafka.Enabled {
		appLog.Fatal("Tier worker requires KAFKA_ENABLED=true")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := metrics.Init(); err != nil {
		appLog.Warn("Metrics init failed", zap.Error(err))
	}

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.DBName,
		SSLMode:       cfg.Database.SSLMode,
		MaxConns:      10,
		MinConns:      2,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	venueRepo := repository.VenueRepository(repository.NewPostgresVenueRepository(db.Pool()))
	djRepo := repository.NewPostgresDJRepository(db.Pool())

	// Redis dedupes redelivered events and invalidates the API's venue cache
	var deduper worker.Deduper
	if cfg.Redis.Enabled {
		redis, err := pkgredis.NewClient(ctx, &pkgredis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      20,
			MinIdleConns:  2,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: 2 * time.Second,
		})
		if err != nil {
			appLog.Warn("Redis connection failed, redelivered events will be counted again", zap.Error(err))
		} else {
			defer redis.Close()
			deduper = redis.Client()
			venueRepo = repository.NewCachedVenueRepository(venueRepo, redis, cfg.Redis.CacheTTL)
			appLog.Info("Redis connected")
		}
	}

	// Initialize Kafka consumer
	topic := cfg.Kafka.TicketIssuedTopic
	if topic == "" {
		topic = service.TopicTicketIssued
	}
	consumer, err := kafka.NewConsumer(ctx, &kafka.ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.ConsumerGroup,
		Topics:         []string{topic},
		ClientID:       "tier-worker",
		MaxRetries:     3,
		RetryInterval:  2 * time.Second,
		SessionTimeout: 30 * time.Second,
	})
	if err != nil {
		appLog.Fatal("Failed to create Kafka consumer", zap.Error(err))
	}
	defer consumer.Close()
	appLog.Info(fmt.Sprintf("Kafka consumer connected (group: %s, topic: %s)", cfg.Kafka.ConsumerGroup, topic))

	// Events that keep failing are parked on <topic>.dlq
	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      "tier-worker-dlq",
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	})
	var deadLetters retry.DLQPublisher
	if err != nil {
		appLog.Warn("Kafka producer unavailable, failed events will be dropped", zap.Error(err))
	} else {
		defer producer.Close()
		deadLetters = retry.NewKafkaDLQPublisher(producer, &retry.DLQConfig{Source: "tier-worker"})
	}

	tierWorker := worker.NewTierWorker(
		consumer,
		service.NewVenueDirectory(venueRepo, djRepo),
		deduper,
		&worker.TierWorkerConfig{
			WorkerCount:   4,
			RetryAttempts: 3,
			RetryDelay:    time.Second,
			DedupeTTL:     7 * 24 * time.Hour,
			DeadLetters:   deadLetters,
		},
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := tierWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			appLog.Error("Worker error", zap.Error(err))
		}
	}()

	appLog.Info("Tier Worker started successfully")

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
	}

	appLog.Info("Shutting down worker...")
	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		appLog.Warn("Worker did not stop within 10s")
	}

	appLog.Info("Worker exited gracefully")
}
