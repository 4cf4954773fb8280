package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/checkout-pricing/internal/cartdoc"
	"github.com/noah-isme/checkout-pricing/internal/checkout"
	"github.com/noah-isme/checkout-pricing/internal/common"
	"github.com/noah-isme/checkout-pricing/internal/config"
	"github.com/noah-isme/checkout-pricing/internal/obs"
	"github.com/noah-isme/checkout-pricing/internal/resilience"
	"github.com/noah-isme/checkout-pricing/internal/shipping"
)

func newQuoteCmd() *cobra.Command {
	var (
		cartPath string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a cart document",
		Long:  "Read a cart from a JSON or YAML file (or - for JSON on stdin) and print its checkout totals.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "json" && output != "text" {
				return fmt.Errorf("unsupported output %q", output)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := obs.NewLoggerTo(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if cfg.TracingEnabled {
				shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
					ServiceName:   "pricing-quote",
					Endpoint:      cfg.OTLPEndpoint,
					Exporter:      cfg.TracingExporter,
					SamplingRatio: cfg.TracingSampling,
					Environment:   cfg.AppEnv,
				})
				if err != nil {
					logger.Error().Err(err).Msg("initialise tracing")
				} else {
					defer func() {
						if err := shutdown(context.Background()); err != nil {
							logger.Error().Err(err).Msg("shutdown tracer")
						}
					}()
				}
			}

			cart, err := cartdoc.ReadFile(cartPath)
			if err != nil {
				return fmt.Errorf("read cart: %w", err)
			}

			registry := prometheus.NewRegistry()
			metrics := obs.NewQuoteMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBuckets), registry)

			cache, closeCache, err := openCache(ctx, cfg, logger, registry)
			if err != nil {
				return err
			}
			defer closeCache()

			svc, err := checkout.NewService(checkout.ServiceConfig{
				Calculator: shipping.NewCalculator(shipping.WithOrigin(cfg.Warehouse)),
				Discount:   checkout.FlatPremiumDiscount(cfg.PremiumDiscount),
				CacheScope: checkout.DiscountScope(cfg.PremiumDiscount),
				Cache:      cache,
				Metrics:    metrics,
				Logger:     &logger,
			})
			if err != nil {
				return err
			}

			quote, quoteErr := svc.Quote(ctx, cart)
			if err := obs.WriteTextfile(cfg.MetricsTextfile, registry); err != nil {
				logger.Error().Err(err).Str("path", cfg.MetricsTextfile).Msg("write metrics textfile")
			}
			if quoteErr != nil {
				return describeQuoteError(quoteErr)
			}

			if output == "text" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), RenderQuote(quote, cart))
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(quote)
		},
	}

	cmd.Flags().StringVar(&cartPath, "cart", "-", "Cart document path (.json, .yaml, .yml) or - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or text")

	return cmd
}

func openCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*checkout.Cache, func(), error) {
	if cfg.RedisURL == "" {
		return checkout.NewCache(nil, cfg.QuoteCacheTTL), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, quote cache disabled")
		_ = client.Close()
		return checkout.NewCache(nil, cfg.QuoteCacheTTL), func() {}, nil
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}
	breaker := resilience.NewBreaker("quote_cache", 5, 0.5, 30*time.Second).
		WithMetrics(resilience.NewMetrics(cfg.MetricsNamespace, reg)).
		WithLogger(logger)
	return checkout.NewCache(client, cfg.QuoteCacheTTL, checkout.WithBreaker(breaker)), closeFn, nil
}

func describeQuoteError(err error) error {
	var appErr *common.AppError
	if errors.As(err, &appErr) && appErr.Details != nil {
		return fmt.Errorf("%w: %v", err, appErr.Details)
	}
	return err
}
