package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ncls-p/notes-sub001/internal/kafka"
	redisservice "github.com/ncls-p/notes-sub001/internal/redis"
	"github.com/ncls-p/notes-sub001/pkg/logger"
)

// The consumer keeps the Redis cache in step with asset and session
// events so every server instance sees share changes and revocations.
func main() {
	_ = godotenv.Load()
	logger.InitLogger()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisService, err := redisservice.NewService(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisService.Close()

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		kafkaBrokers = "localhost:9092"
	}
	brokers := strings.Split(kafkaBrokers, ",")
	consumer := kafka.NewConsumer(brokers, "cache-updater", redisService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.StartAssetEventConsumer(ctx)
	go consumer.StartSessionEventConsumer(ctx)

	logger.Log.Info().Strs("brokers", brokers).Msg("Consumer started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("Shutting down consumer")
	cancel()

	if err := consumer.Close(); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to close consumer")
	}

	logger.Log.Info().Msg("Consumer exited")
}
