package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/models"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}
	defer app.Close()

	// --- RabbitMQ consumer ---
	if app.MQ != nil {
		go func() {
			handler := func(_ context.Context, event models.OrderPlaced) error {
				logger.Info("order event received",
					zap.String("eventId", event.EventID),
					zap.String("orderNumber", event.OrderNumber),
					zap.String("amount", event.Amount.StringFixed(2)),
				)
				return nil
			}
			if err := app.MQ.ConsumeOrderEvents(ctx, handler); err != nil {
				logger.Warn("order event consumer stopped", zap.Error(err))
			}
		}()
	}

	// --- HTTP server ---
	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.AppPort),
			zap.String("storage", cfg.StorageDriver),
			zap.String("catalog", cfg.CatalogDriver),
		)
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")
	if err := app.Fiber.Shutdown(); err != nil {
		logger.Error("error during fiber shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
