package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// DefaultPremiumDiscount is the flat amount taken off a Premium checkout.
//
// Only a single data point backs this (a 10 discount on an 85 order), so it
// is unknown whether product intends a flat amount or a percentage of some
// base. Confirm with product before changing it; swap the policy through
// WithDiscount rather than editing the engine.
var DefaultPremiumDiscount = decimal.NewFromInt(10)

// DiscountPolicy returns the customer discount for a cart. pre holds the items
// and shipping cost with a zero discount.
type DiscountPolicy func(cart pricing.Cart, pre pricing.Totals) pricing.Money

// FlatPremiumDiscount grants amount to Premium customers and nothing to anyone
// else, whatever the size of the cart. A non-positive amount disables it.
func FlatPremiumDiscount(amount pricing.Money) DiscountPolicy {
	return func(cart pricing.Cart, _ pricing.Totals) pricing.Money {
		if cart.CustomerType != pricing.CustomerPremium || !amount.IsPositive() {
			return decimal.Zero
		}
		return amount
	}
}

// CapAtTotal limits the discount granted by policy to the pre-discount total
// so the grand total never drops below zero.
func CapAtTotal(policy DiscountPolicy) DiscountPolicy {
	return func(cart pricing.Cart, pre pricing.Totals) pricing.Money {
		if policy == nil {
			return decimal.Zero
		}
		discount := policy(cart, pre)
		if discount.GreaterThan(pre.Total) {
			return decimal.Max(pre.Total, decimal.Zero)
		}
		return discount
	}
}

// NoDiscount never discounts.
func NoDiscount(pricing.Cart, pricing.Totals) pricing.Money {
	return decimal.Zero
}
