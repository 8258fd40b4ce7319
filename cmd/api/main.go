package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docms/internal/config"
	"docms/internal/database"
	"docms/internal/database/migration"
	handlers "docms/internal/http/handler"
	"docms/internal/http/middleware"
	"docms/internal/logger"
	"docms/internal/messaging"
	"docms/internal/otel"
	"docms/internal/repository"
	"docms/internal/repository/memory"
	"docms/internal/repository/postgres"
	"docms/internal/service"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing(ctx) //nolint:errcheck

	// Pick the document store. The in-memory variant serves isolated and
	// demo environments; otherwise connect to PostgreSQL with pooling.
	var (
		db      *sql.DB
		docRepo repository.DocumentRepository
	)
	if cfg.Database.InMemory {
		zlog.Info("using in-memory document store")
		docRepo = memory.NewDocumentMemory()
	} else {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			zlog.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, zlog); err != nil {
			zlog.Fatal("failed to run migrations", zap.Error(err))
		}
		docRepo = postgres.NewDocumentPostgres(db)
	}

	// Event publication: isolated environments skip the broker entirely.
	var queue messaging.Publisher
	if cfg.Env == "testing" {
		queue = messaging.NewNoopPublisher(zlog)
	} else {
		queue = messaging.NewRabbitPublisher(cfg.RabbitMQ, zlog)
	}

	docSvc := service.NewDocumentService(docRepo, queue, zlog)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(zlog))
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		zlog.Fatal("failed to register metrics", zap.Error(err))
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, docSvc)

	addr := ":" + cfg.Port
	zlog.Info("starting http server", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
