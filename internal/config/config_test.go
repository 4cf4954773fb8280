package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/checkout-pricing/internal/checkout"
	"github.com/noah-isme/checkout-pricing/internal/config"
	"github.com/noah-isme/checkout-pricing/internal/shipping"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"WAREHOUSE_STREET":  "",
		"WAREHOUSE_CITY":    "",
		"WAREHOUSE_COUNTRY": "",
		"PREMIUM_DISCOUNT":  "",
		"QUOTE_CACHE_TTL":   "",
		"REDIS_URL":         "",
	})
	require.NoError(t, err)
	require.Equal(t, shipping.DefaultOrigin, cfg.Warehouse)
	require.Equal(t, "10", cfg.PremiumDiscount.String())
	require.True(t, checkout.DefaultPremiumDiscount.Equal(cfg.PremiumDiscount))
	require.Equal(t, 5*time.Minute, cfg.QuoteCacheTTL)
	require.Empty(t, cfg.RedisURL)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"WAREHOUSE_CITY":             "Austin",
		"WAREHOUSE_STREET":           "",
		"WAREHOUSE_COUNTRY":          "",
		"PREMIUM_DISCOUNT":           "12.50",
		"QUOTE_CACHE_TTL":            "30s",
		"OBS_ENABLE_TRACING":         "yes",
		"OBS_TRACING_SAMPLING_RATIO": "0.25",
	})
	require.NoError(t, err)
	require.Equal(t, "Austin", cfg.Warehouse.City)
	require.Equal(t, shipping.DefaultOrigin.Street, cfg.Warehouse.Street)
	require.Equal(t, shipping.DefaultOrigin.Country, cfg.Warehouse.Country)
	require.Equal(t, "12.5", cfg.PremiumDiscount.String())
	require.Equal(t, 30*time.Second, cfg.QuoteCacheTTL)
	require.True(t, cfg.TracingEnabled)
	require.Equal(t, 0.25, cfg.TracingSampling)
}

func TestLoadRejectsBadDiscount(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"PREMIUM_DISCOUNT": "ten"})
	require.Error(t, err)

	_, err = config.LoadForTests(map[string]string{"PREMIUM_DISCOUNT": "-1"})
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"QUOTE_CACHE_TTL": "-1s", "PREMIUM_DISCOUNT": ""})
	require.Error(t, err)
}
