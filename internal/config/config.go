package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/checkout-pricing/internal/checkout"
	"github.com/noah-isme/checkout-pricing/internal/pricing"
	"github.com/noah-isme/checkout-pricing/internal/shipping"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv          string
	Warehouse       pricing.Address
	PremiumDiscount decimal.Decimal
	RedisURL        string
	QuoteCacheTTL   time.Duration

	LogFormat        string
	LogLevel         string
	MetricsNamespace string
	MetricsBuckets   string
	MetricsTextfile  string

	TracingEnabled  bool
	TracingExporter string
	OTLPEndpoint    string
	TracingSampling float64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv: valueOrDefault(k.String("APP_ENV"), "development"),
		Warehouse: pricing.Address{
			Street:  valueOrDefault(k.String("WAREHOUSE_STREET"), shipping.DefaultOrigin.Street),
			City:    valueOrDefault(k.String("WAREHOUSE_CITY"), shipping.DefaultOrigin.City),
			Country: valueOrDefault(k.String("WAREHOUSE_COUNTRY"), shipping.DefaultOrigin.Country),
		},
		RedisURL:         strings.TrimSpace(k.String("REDIS_URL")),
		QuoteCacheTTL:    parseDuration(k.String("QUOTE_CACHE_TTL"), "5m"),
		LogFormat:        valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
		LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
		MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "pricing"),
		MetricsBuckets:   strings.TrimSpace(k.String("OBS_METRICS_BUCKETS")),
		MetricsTextfile:  strings.TrimSpace(k.String("OBS_METRICS_TEXTFILE")),
		TracingEnabled:   parseBool(k.String("OBS_ENABLE_TRACING")),
		TracingExporter:  valueOrDefault(k.String("OBS_TRACING_EXPORTER"), "otlp"),
		OTLPEndpoint:     strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
		TracingSampling:  parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1.0),
	}

	discount, err := parseDiscount(k.String("PREMIUM_DISCOUNT"))
	if err != nil {
		return nil, err
	}
	cfg.PremiumDiscount = discount

	if cfg.QuoteCacheTTL <= 0 {
		return nil, errors.New("QUOTE_CACHE_TTL must be positive")
	}

	return cfg, nil
}

func parseDiscount(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return checkout.DefaultPremiumDiscount, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("PREMIUM_DISCOUNT: %w", err)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("PREMIUM_DISCOUNT must not be negative")
	}
	return d, nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseFloat(value string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
