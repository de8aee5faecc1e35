package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"notes/internal/config"
	"notes/internal/domain/services"
	"notes/internal/handler"
	"notes/internal/middleware"
	"notes/internal/repository"
	"notes/internal/service/content"
	"notes/internal/service/reconcile"
	"notes/internal/storage/s3"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging, optionally teed into a log file
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "server", cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"document_store", cfg.DocumentStore,
		"bucket", cfg.OSSBucket,
	)

	categories, err := config.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		log.Fatalf("Failed to load categories: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Document store (Postgres or MongoDB)
	stores, err := repository.SetupItemRepositories(ctx, cfg, categories, logger)
	if err != nil {
		log.Fatalf("Failed to setup document store: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			logger.Error("failed to close document store", "error", err)
		}
	}()

	// Object store
	objectStore, err := s3.NewFromConfig(ctx, s3.Config{
		Bucket:          cfg.OSSBucket,
		Region:          cfg.OSSRegion,
		Endpoint:        cfg.OSSEndpoint,
		AccessKeyID:     cfg.OSSAccessKeyID,
		SecretAccessKey: cfg.OSSAccessKeySecret,
		ForcePathStyle:  cfg.OSSForcePathStyle,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create object store client: %v", err)
	}
	if err := objectStore.HealthCheck(ctx); err != nil {
		if s3.IsNotFoundError(err) {
			log.Fatalf("Bucket %s does not exist", cfg.OSSBucket)
		}
		// Transient failures are retried by every reconciliation tick
		logger.Warn("object store health check failed", "bucket", cfg.OSSBucket, "error", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := reconcile.NewMetrics(registry)

	// Services
	itemService := content.NewItemService(stores.Items, logger)
	runner, err := reconcile.SetupRunner(cfg, categories, stores.Items, objectStore, metrics, logger)
	if err != nil {
		log.Fatalf("Failed to setup reconcilers: %v", err)
	}

	// Handlers
	contentHandler := handler.NewContentHandler(itemService, logger)
	reconcileHandler := handler.NewReconcileHandler(func(category string) (services.Reconciler, bool) {
		rec, ok := runner.Get(category)
		if !ok {
			return nil, false
		}
		return rec, true
	}, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	// Content list routes, three per category
	contentHandler.Register(mux, categories)
	for _, c := range categories {
		collection := c.Collection
		if cfg.DocumentStore == config.StoreMongo {
			collection = c.MongoCollectionName()
		}
		logger.Info("category routes registered",
			"category", c.Name,
			"collection", collection,
			"prefix", c.StoragePrefix,
		)
	}

	// Manual reconcile trigger (debug only: it deletes objects)
	if cfg.Debug {
		mux.HandleFunc("POST /api/reconcile/{category}", reconcileHandler.Reconcile)
		logger.Warn("Debug route registered: POST /api/reconcile/{category}")
	}

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Logging → Recovery → Routes
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Orphan asset reconciliation
	if cfg.ReconcileEnabled {
		runner.Start(ctx)
	} else {
		logger.Warn("orphan asset reconciliation disabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		runner.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
