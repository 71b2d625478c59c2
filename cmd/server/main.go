package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mkarlsen/briefly/config"
	"github.com/mkarlsen/briefly/internal/api"
	"github.com/mkarlsen/briefly/internal/auth"
	"github.com/mkarlsen/briefly/internal/generator"
	"github.com/mkarlsen/briefly/internal/storage"
	"github.com/mkarlsen/briefly/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Server.Development)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Initialize storage
	store, err := openStore(cfg)
	if err != nil {
		logger.Fatalw("Failed to initialize storage", "error", err)
	}
	defer store.Close()

	// Initialize database tables
	if err := store.Initialize(); err != nil {
		logger.Fatalw("Failed to initialize database tables", "error", err)
	}

	gen := generator.NewGeminiGenerator(cfg.Generator.Token, cfg.Generator.BaseURL, cfg.Generator.Model)
	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)

	server := api.NewServer(cfg.Server.Port, store, gen, verifier, logger)

	// Start the API server
	go func() {
		logger.Infow("Starting API server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("Failed to start API server", "error", err)
		}
	}()

	// Wait for shutdown
	waitForShutdown(server, logger)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Database.Driver == "sqlite" {
		return storage.NewSQLiteStore(cfg.Database.URL)
	}
	return storage.NewPostgresStore(cfg.Database.URL)
}

func waitForShutdown(server *api.Server, logger *zap.SugaredLogger) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Infow("Shutting down...")

	// Graceful server shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorw("Error shutting down server", "error", err)
	}
	logger.Infow("Server shut down gracefully")
}
