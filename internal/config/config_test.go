package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.DriverMemory, cfg.StorageDriver)
	assert.Equal(t, "cart", cfg.StorageSlot)
	assert.Equal(t, time.Second, cfg.PaymentMockDelay)
	assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.False(t, cfg.CheckoutStrictExpiry)
	assert.Empty(t, cfg.DatabaseDriver())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("CATALOG_DRIVER", "sqlite")
	t.Setenv("PAYMENT_MOCK_DELAY", "250ms")
	t.Setenv("CHECKOUT_STRICT_EXPIRY", "true")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, config.DriverRedis, cfg.StorageDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.PaymentMockDelay)
	assert.True(t, cfg.CheckoutStrictExpiry)
	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]string
	}{
		{name: "unknown storage driver: error", set: map[string]string{"STORAGE_DRIVER": "s3"}},
		{name: "unknown catalog driver: error", set: map[string]string{"CATALOG_DRIVER": "redis"}},
		{name: "mixed databases: error", set: map[string]string{"STORAGE_DRIVER": "sqlite", "CATALOG_DRIVER": "postgres"}},
		{name: "negative timeout: error", set: map[string]string{"PAYMENT_TIMEOUT": "-1s"}},
		{name: "empty token secret: error", set: map[string]string{"PAYMENT_TOKEN_SECRET": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for key, val := range tt.set {
				v.Set(key, val)
			}

			_, err := config.Load(v)
			assert.Error(t, err)
		})
	}
}
