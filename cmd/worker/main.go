package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/John-6670/SimpleSocialApp/internal/config"
	"github.com/John-6670/SimpleSocialApp/internal/repository"
	"github.com/John-6670/SimpleSocialApp/internal/workers"
	"github.com/John-6670/SimpleSocialApp/pkg/cache"
	"github.com/John-6670/SimpleSocialApp/pkg/logger"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.New(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting engagement worker...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.EngagementEvents, "engagement-worker-group")

	likeRepo := repository.NewLikeRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)

	worker := workers.NewEngagementWorker(consumer, likeRepo, postRepo, commentRepo, redisClient, cfg.Redis.CounterTTL, logger)

	go func() {
		if err := worker.Start(); err != nil && err != context.Canceled {
			logger.WithError(err).Error("Engagement worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	if err := worker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop engagement worker")
	}
	logger.Info("Worker exited")
}
