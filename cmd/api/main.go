package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/app"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/config"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
)

func main() {
	envLoadErr := godotenv.Load()

	cfg := config.New()
	logger.Init(cfg.Environment, cfg.LogLevel)
	logger.Info("Starting mathematics learning platform", nil)
	if envLoadErr != nil {
		logger.Info("No .env file found, using environment variables", nil)
	}

	application, err := app.New(cfg)
	if err != nil {
		logger.Error(err, "Failed to initialize application", nil)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := application.Run(); err != nil && err != http.ErrServerClosed {
			logger.Error(err, "Failed to start server", nil)
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...", nil)
	case err := <-serverErr:
		logger.Error(err, "Server error occurred, initiating shutdown", nil)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "Server forced to shutdown", nil)
		os.Exit(1)
	}

	logger.Info("Server exited gracefully", nil)
}
