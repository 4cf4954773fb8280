package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/checkout-pricing/internal/address"
	"github.com/noah-isme/checkout-pricing/internal/common"
	"github.com/noah-isme/checkout-pricing/internal/obs"
	"github.com/noah-isme/checkout-pricing/internal/pricing"
	"github.com/noah-isme/checkout-pricing/internal/shipping"
)

var (
	// ErrInvalidAddress is returned when the shipping address is incomplete.
	ErrInvalidAddress = errors.New("shipping address is incomplete")
	// ErrInvalidItem is returned when a cart line has a negative quantity or price.
	ErrInvalidItem = errors.New("cart item is invalid")
)

// Error codes attached to AppError values returned by Quote.
const (
	CodeInvalidAddress = "INVALID_ADDRESS"
	CodeInvalidItem    = "INVALID_ITEM"
)

// Quote is a priced cart.
type Quote struct {
	ID     string         `json:"id"`
	Totals pricing.Totals `json:"totals"`
	Tier   string         `json:"tier"`
	Cached bool           `json:"cached"`
}

// ItemProblem describes a rejected cart line.
type ItemProblem struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ErrCacheScopeRequired is returned by NewService when a cache is combined
// with a custom discount policy but no CacheScope.
var ErrCacheScopeRequired = errors.New("checkout: cache scope is required with a custom discount policy")

// ServiceConfig wires Service dependencies. Only Calculator is required.
//
// CacheScope names the pricing rules behind cached quotes and is part of every
// cache key. It must change whenever Discount changes; it is required when
// both Cache and Discount are set.
type ServiceConfig struct {
	Calculator *shipping.Calculator
	Discount   DiscountPolicy
	CacheScope string
	Validator  *address.Validator
	Cache      *Cache
	Metrics    *obs.QuoteMetrics
	Logger     *zerolog.Logger
	Tracer     trace.Tracer
}

// Service validates carts and prices them with the engine, caching results.
// It is safe for concurrent use.
type Service struct {
	calc      *shipping.Calculator
	engine    *Engine
	validator *address.Validator
	cache     *Cache
	scope     string
	metrics   *obs.QuoteMetrics
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewService constructs a quote service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Calculator == nil {
		return nil, errors.New("checkout: shipping calculator is required")
	}
	var opts []EngineOption
	scope := cfg.CacheScope
	if cfg.Discount != nil {
		if scope == "" && cfg.Cache.Enabled() {
			return nil, ErrCacheScopeRequired
		}
		opts = append(opts, WithDiscount(cfg.Discount))
	} else if scope == "" {
		scope = DiscountScope(DefaultPremiumDiscount)
	}
	validator := cfg.Validator
	if validator == nil {
		validator = address.NewValidator()
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = obs.Tracer()
	}
	return &Service{
		calc:      cfg.Calculator,
		engine:    NewEngine(cfg.Calculator, opts...),
		validator: validator,
		cache:     cfg.Cache,
		scope:     scope,
		metrics:   cfg.Metrics,
		logger:    logger,
		tracer:    tracer,
	}, nil
}

// Quote validates cart and returns its totals. Validation failures are
// returned as *common.AppError wrapping ErrInvalidAddress or ErrInvalidItem.
func (s *Service) Quote(ctx context.Context, cart pricing.Cart) (Quote, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Quote", trace.WithAttributes(
		attribute.String("pricing.customer_type", cart.CustomerType.String()),
		attribute.String("pricing.shipping_method", cart.ShippingMethod.String()),
		attribute.Int("pricing.items", len(cart.Items)),
	))
	defer span.End()

	if err := s.check(cart); err != nil {
		result := "invalid_item"
		if errors.Is(err, ErrInvalidAddress) {
			result = "invalid_address"
		}
		s.metrics.ObserveQuote(cart.CustomerType.String(), cart.ShippingMethod.String(), "unknown", result, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		s.logger.Debug().Err(err).Str("result", result).Msg("quote_rejected")
		return Quote{}, err
	}

	tier := s.calc.Tier(cart).String()
	span.SetAttributes(attribute.String("pricing.tier", tier))

	key, err := common.Fingerprint(struct {
		Scope   string          `json:"scope"`
		Locator string          `json:"locator"`
		Origin  pricing.Address `json:"origin"`
		Cart    pricing.Cart    `json:"cart"`
	}{s.scope, fmt.Sprintf("%T", s.calc.Locator()), s.calc.Origin(), cart})
	if err != nil {
		return Quote{}, fmt.Errorf("checkout: fingerprint cart: %w", err)
	}
	if s.cache.Enabled() {
		var cached Quote
		hit, cacheErr := s.cache.GetJSON(ctx, key, &cached)
		if cacheErr != nil {
			s.logger.Warn().Err(cacheErr).Msg("quote cache read")
		}
		s.metrics.ObserveCache(hit)
		if hit {
			cached.Cached = true
			s.record(span, cart, cached)
			return cached, nil
		}
	}

	q := Quote{
		ID:     uuid.NewString(),
		Totals: s.engine.Totals(cart),
		Tier:   tier,
	}
	if err := s.cache.SetJSON(ctx, key, q); err != nil {
		s.logger.Warn().Err(err).Msg("quote cache write")
	}
	s.record(span, cart, q)
	return q, nil
}

// DiscountScope is the cache scope for FlatPremiumDiscount(amount).
func DiscountScope(amount pricing.Money) string {
	return "flat-premium:" + amount.String()
}

// Totals prices cart without validation or caching.
func (s *Service) Totals(cart pricing.Cart) pricing.Totals {
	return s.engine.Totals(cart)
}

func (s *Service) check(cart pricing.Cart) error {
	if missing := s.validator.Missing(&cart.ShippingAddress); len(missing) > 0 {
		return common.NewAppError(CodeInvalidAddress, "shipping address is missing required fields", ErrInvalidAddress, missing)
	}
	var problems []ItemProblem
	for i, it := range cart.Items {
		switch {
		case it.Quantity < 0:
			problems = append(problems, ItemProblem{Index: i, Reason: "negative quantity"})
		case it.UnitPrice.IsNegative():
			problems = append(problems, ItemProblem{Index: i, Reason: "negative unit price"})
		}
	}
	if len(problems) > 0 {
		return common.NewAppError(CodeInvalidItem, "cart contains invalid items", ErrInvalidItem, problems)
	}
	return nil
}

func (s *Service) record(span trace.Span, cart pricing.Cart, q Quote) {
	total, _ := q.Totals.Total.Float64()
	s.metrics.ObserveQuote(cart.CustomerType.String(), cart.ShippingMethod.String(), q.Tier, "ok", total)
	span.SetAttributes(
		attribute.String("pricing.quote_id", q.ID),
		attribute.Bool("pricing.cached", q.Cached),
	)
	s.logger.Info().
		Str("quote_id", q.ID).
		Str("customer_type", cart.CustomerType.String()).
		Str("shipping_method", cart.ShippingMethod.String()).
		Str("tier", q.Tier).
		Bool("cached", q.Cached).
		Str("items_cost", q.Totals.ItemsCost.String()).
		Str("shipping_cost", q.Totals.ShippingCost.String()).
		Str("customer_discount", q.Totals.CustomerDiscount.String()).
		Str("total", q.Totals.Total.String()).
		Msg("quote_computed")
}
