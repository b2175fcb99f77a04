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

	"novel-reader/internal/config"
	"novel-reader/internal/handler"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wiring
	container := config.NewContainer(ctx)
	defer container.Close()
	if syncer, ok := container.Logger.(interface{ Sync() error }); ok {
		defer func() { _ = syncer.Sync() }()
	}

	// Initial social state; failures are logged and the panel starts empty
	go func() {
		if err := container.Panel.Load(ctx); err != nil {
			container.Logger.Warn("Initial social load incomplete", "error", err)
		}
	}()

	// Router
	router := handler.NewRouter(
		handler.NewHandlers(container),
		container.Config.GetAllowedOrigins(),
		container.Logger,
	)

	server := &http.Server{
		Addr:              ":" + container.Config.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server
	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr, "document", container.Config.GetDocumentPath())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-errCh:
		container.Logger.Error("Server failed to start", err)
		container.Close()
		os.Exit(1)
	}

	container.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown failed", err)
	}

	container.Logger.Info("Server exited")
}
