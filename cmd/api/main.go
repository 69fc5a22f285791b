package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/wardrobe/internal/api"
	"github.com/your-org/wardrobe/internal/api/handlers"
	"github.com/your-org/wardrobe/internal/config"
	"github.com/your-org/wardrobe/internal/observability"
	"github.com/your-org/wardrobe/internal/recognition"
	"github.com/your-org/wardrobe/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting wardrobe API service", "port", cfg.Server.Port)

	// Connect to Postgres
	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("apply schema", "error", err)
		os.Exit(1)
	}

	// Upload store
	checks := map[string]handlers.Pinger{"postgres": db}
	var blobs storage.BlobStore
	switch cfg.Storage.Backend {
	case "s3":
		minioStore, err := storage.NewMinIOStore(cfg.MinIO, cfg.Storage)
		if err != nil {
			slog.Error("connect to minio", "error", err)
			os.Exit(1)
		}
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			slog.Warn("ensure minio bucket", "error", err)
		}
		checks["minio"] = minioStore
		blobs = minioStore
	default:
		blobs = storage.NewLocalStore(cfg.Storage)
	}

	// Recognition pipeline
	recognizer := recognition.New(cfg.Recognition)
	pipeline := recognition.NewPipeline(cfg.Recognition, blobs, db, recognizer)
	slog.Info("recognition configured",
		"enabled", cfg.Recognition.Enabled, "backend", recognizer.Backend())

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		DB:       db,
		Blobs:    blobs,
		Pipeline: pipeline,
		Checks:   checks,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}
