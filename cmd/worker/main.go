package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"docms/internal/config"
	"docms/internal/logger"
	"docms/internal/messaging"
	"docms/internal/worker"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New(
		messaging.BrokerURL(cfg.RabbitMQ),
		cfg.RabbitMQ.QueueName,
		worker.NewOCRProcessor(zlog),
		zlog,
	)
	if err := w.Run(ctx); err != nil {
		zlog.Fatal("worker stopped", zap.Error(err))
	}
	zlog.Info("worker shut down cleanly")
}
