package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// ShippingCoster prices delivery for a cart.
type ShippingCoster interface {
	Cost(cart pricing.Cart) pricing.Money
}

// Engine aggregates item cost, shipping and customer discount into totals.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	shipper  ShippingCoster
	discount DiscountPolicy
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithDiscount replaces the discount policy.
func WithDiscount(p DiscountPolicy) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.discount = p
		}
	}
}

// NewEngine constructs an engine that prices shipping with shipper and
// discounts Premium customers by DefaultPremiumDiscount unless overridden.
func NewEngine(shipper ShippingCoster, opts ...EngineOption) *Engine {
	e := &Engine{shipper: shipper, discount: FlatPremiumDiscount(DefaultPremiumDiscount)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Totals computes the checkout totals for cart.
func (e *Engine) Totals(cart pricing.Cart) pricing.Totals {
	itemsCost := pricing.ItemsCost(cart.Items)
	shippingCost := decimal.Zero
	if e.shipper != nil {
		shippingCost = e.shipper.Cost(cart)
	}
	pre := pricing.Summarize(itemsCost, shippingCost, decimal.Zero)
	discount := decimal.Zero
	if e.discount != nil {
		discount = e.discount(cart, pre)
	}
	return pricing.Summarize(itemsCost, shippingCost, discount)
}
