// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers for the cart slot.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every setting the server reads at startup.
type Config struct {
	AppPort     string
	RabbitMQURL string

	StorageDriver   string
	StorageSlot     string
	StorageFilePath string
	RedisAddr       string
	DatabaseDSN     string

	CatalogDriver  string
	CatalogLatency time.Duration

	PaymentMockDelay   time.Duration
	PaymentTimeout     time.Duration
	PaymentTokenSecret string

	CheckoutStrictExpiry bool

	LogLevel       string
	LogDevelopment bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("STORAGE_DRIVER", DriverMemory)
	v.SetDefault("STORAGE_SLOT", "cart")
	v.SetDefault("STORAGE_FILE_PATH", "data/cart.json")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("CATALOG_DRIVER", DriverMemory)
	v.SetDefault("CATALOG_LATENCY", "0s")
	v.SetDefault("PAYMENT_MOCK_DELAY", "1s")
	v.SetDefault("PAYMENT_TIMEOUT", "10s")
	v.SetDefault("PAYMENT_TOKEN_SECRET", "storefront-dev-secret")
	v.SetDefault("CHECKOUT_STRICT_EXPIRY", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEVELOPMENT", false)
}

// Load reads the configuration from v. Environment variables override the
// defaults.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		AppPort:              v.GetString("APP_PORT"),
		RabbitMQURL:          v.GetString("RABBITMQ_URL"),
		StorageDriver:        v.GetString("STORAGE_DRIVER"),
		StorageSlot:          v.GetString("STORAGE_SLOT"),
		StorageFilePath:      v.GetString("STORAGE_FILE_PATH"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		DatabaseDSN:          v.GetString("DATABASE_DSN"),
		CatalogDriver:        v.GetString("CATALOG_DRIVER"),
		CatalogLatency:       v.GetDuration("CATALOG_LATENCY"),
		PaymentMockDelay:     v.GetDuration("PAYMENT_MOCK_DELAY"),
		PaymentTimeout:       v.GetDuration("PAYMENT_TIMEOUT"),
		PaymentTokenSecret:   v.GetString("PAYMENT_TOKEN_SECRET"),
		CheckoutStrictExpiry: v.GetBool("CHECKOUT_STRICT_EXPIRY"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogDevelopment:       v.GetBool("LOG_DEVELOPMENT"),
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown drivers and negative durations.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverFile, DriverRedis, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.CatalogDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown CATALOG_DRIVER %q", c.CatalogDriver)
	}
	if isSQL(c.StorageDriver) && isSQL(c.CatalogDriver) && c.StorageDriver != c.CatalogDriver {
		return fmt.Errorf("STORAGE_DRIVER %q and CATALOG_DRIVER %q must share one database", c.StorageDriver, c.CatalogDriver)
	}
	if c.CatalogLatency < 0 || c.PaymentMockDelay < 0 || c.PaymentTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.PaymentTokenSecret == "" {
		return fmt.Errorf("PAYMENT_TOKEN_SECRET is required")
	}
	return nil
}

// DatabaseDriver returns the SQL driver shared by the catalog and the storage
// slot, or "" when neither uses a database.
func (c Config) DatabaseDriver() string {
	if isSQL(c.StorageDriver) {
		return c.StorageDriver
	}
	if isSQL(c.CatalogDriver) {
		return c.CatalogDriver
	}
	return ""
}

func isSQL(driver string) bool {
	return driver == DriverSQLite || driver == DriverPostgres
}
