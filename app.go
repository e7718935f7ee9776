package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

// App is the wired storefront server.
type App struct {
	Fiber    *fiber.App
	Cart     *services.CartService
	Checkout *services.CheckoutService
	MQ       *rabbitmq.Client

	closers []func() error
}

// NewApp builds every repository, service and handler described by cfg.
func NewApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{}

	var db *gorm.DB
	if driver := cfg.DatabaseDriver(); driver != "" {
		var err error
		db, err = openDatabase(driver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		a.closers = append(a.closers, sqlDB.Close)

		if err := db.AutoMigrate(&models.Product{}, &repositories.StorageSlot{}); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
		}
	}

	// --- Repositories ---
	var productRepo repositories.ProductRepository = repositories.NewMockProductRepository()
	if cfg.CatalogDriver != config.DriverMemory {
		productRepo = repositories.NewGORMProductRepository(db)
	}
	if err := repositories.SeedProducts(ctx, productRepo, repositories.DefaultProducts()); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	slotStore := a.newSlotStore(cfg, db)

	// --- RabbitMQ (optional) ---
	var publisher services.OrderPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log.Named("rabbitmq"))
		if err != nil {
			log.Warn("order events disabled", zap.Error(err))
		} else {
			a.MQ = mqClient
			a.closers = append(a.closers, mqClient.Close)
			publisher = mqClient
		}
	}

	// --- Services ---
	catalogService := services.NewCatalogService(productRepo, cfg.CatalogLatency)
	a.Cart = services.NewCartService(ctx, slotStore, catalogService, log.Named("cart"))
	a.Checkout = services.NewCheckoutService(
		a.Cart,
		payment.NewMockGateway(cfg.PaymentMockDelay),
		payment.NewTokenizer(cfg.PaymentTokenSecret, 15*time.Minute),
		checkout.NewValidator(cfg.CheckoutStrictExpiry),
		publisher,
		cfg.PaymentTimeout,
		log.Named("checkout"),
	)

	// --- Fiber ---
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	handlers.NewCatalogHandler(catalogService, log).RegisterRoutes(apiV1)
	handlers.NewCartHandler(a.Cart, log).RegisterRoutes(apiV1)
	handlers.NewCheckoutHandler(a.Checkout, log).RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"storage":  cfg.StorageDriver,
			"catalog":  cfg.CatalogDriver,
			"rabbitMQ": a.MQ != nil,
		})
	})

	a.Fiber = app
	return a, nil
}

func (a *App) newSlotStore(cfg config.Config, db *gorm.DB) repositories.SlotStore {
	switch cfg.StorageDriver {
	case config.DriverFile:
		return repositories.NewFileSlotStore(afero.NewOsFs(), cfg.StorageFilePath)
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, client.Close)
		return repositories.NewRedisSlotStore(client, cfg.StorageSlot)
	case config.DriverSQLite, config.DriverPostgres:
		return repositories.NewGORMSlotStore(db, cfg.StorageSlot)
	default:
		return repositories.NewMemorySlotStore()
	}
}

func openDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return db, nil
}

// Close releases every connection opened by NewApp, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
