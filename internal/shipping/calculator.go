// Package shipping prices delivery for a cart from the warehouse origin,
// the destination's distance tier and the requested shipping method.
package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// DefaultOrigin is the warehouse used when no origin is configured.
var DefaultOrigin = pricing.Address{
	Street:  "123 Jolly Lane",
	City:    "Dallas",
	Country: "USA",
}

// Calculator computes shipping cost. The origin is fixed at construction so a
// Calculator is safe for concurrent use.
type Calculator struct {
	origin  pricing.Address
	locator Locator
}

// Option customises a Calculator.
type Option func(*Calculator)

// WithOrigin sets the warehouse origin address.
func WithOrigin(origin pricing.Address) Option {
	return func(c *Calculator) {
		c.origin = origin
	}
}

// WithLocator replaces the address comparison used for tiering.
func WithLocator(l Locator) Option {
	return func(c *Calculator) {
		if l != nil {
			c.locator = l
		}
	}
}

// NewCalculator constructs a calculator shipping from DefaultOrigin unless
// overridden.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{origin: DefaultOrigin, locator: ExactLocator{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Origin returns the warehouse address.
func (c *Calculator) Origin() pricing.Address {
	return c.origin
}

// Locator returns the address comparison used for tiering.
func (c *Calculator) Locator() Locator {
	if c.locator == nil {
		return ExactLocator{}
	}
	return c.locator
}

// Tier resolves the distance tier between the warehouse and the cart's
// shipping address.
func (c *Calculator) Tier(cart pricing.Cart) Tier {
	return resolveTier(c.Locator(), c.origin, cart.ShippingAddress)
}

// Cost returns quantity × tier rate × method multiplier. An empty cart ships
// for free. The address is assumed valid; unmatched fields fall through to
// the international rate.
func (c *Calculator) Cost(cart pricing.Cart) pricing.Money {
	if len(cart.Items) == 0 {
		return decimal.Zero
	}
	qty := decimal.NewFromInt(pricing.QuantitySum(cart.Items))
	return qty.Mul(Rate(c.Tier(cart))).Mul(Multiplier(cart.CustomerType, cart.ShippingMethod))
}
