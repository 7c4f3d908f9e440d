package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/infrastructure/config"
	"github.com/fredgeoO/novel-learning-tools/infrastructure/di"
	"github.com/fredgeoO/novel-learning-tools/interfaces/http/rest"
)

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// A fresh install gets a sample graph so the editor has something to
	// open on first visit
	if cfg.SeedDemoGraph {
		if key, err := container.Store.EnsureDemoGraph(); err != nil {
			container.Logger.Warn("Demo graph seeding failed", zap.Error(err))
		} else if key != "" {
			container.Logger.Info("Demo graph available", zap.String("cache_key", key))
		}
	}

	// Follow on-disk changes so listings stay fresh while extraction
	// pipelines write new graphs next to the running server
	go container.Watcher.Run(ctx)
	defer container.Watcher.Close()

	// Create router
	router := rest.NewRouter(
		container.Store,
		container.Converter,
		container.Logger,
		cfg.EnableCORS,
		int64(cfg.MaxGraphBytes),
	)

	// Setup routes
	handler := router.Setup()

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("cache_dir", cfg.CacheDir),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	// Clean up resources
	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
