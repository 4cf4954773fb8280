package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// Tier is the distance band between the warehouse and the destination.
type Tier int

const (
	TierSameCity Tier = iota
	TierSameCountry
	TierInternational
)

func (t Tier) String() string {
	switch t {
	case TierSameCity:
		return "same_city"
	case TierSameCountry:
		return "same_country"
	case TierInternational:
		return "international"
	default:
		return "unknown"
	}
}

// Per-unit base rates for each location tier.
var (
	SameCityRate              = decimal.NewFromInt(1)
	SameCountryRate           = decimal.NewFromInt(2)
	InternationalShippingRate = decimal.NewFromInt(15)
)

var tierRates = map[Tier]pricing.Money{
	TierSameCity:      SameCityRate,
	TierSameCountry:   SameCountryRate,
	TierInternational: InternationalShippingRate,
}

var methodMultipliers = map[pricing.ShippingMethod]pricing.Money{
	pricing.MethodStandard:  decimal.NewFromInt(1),
	pricing.MethodExpedited: decimal.RequireFromString("1.2"),
	pricing.MethodPriority:  decimal.NewFromInt(2),
	pricing.MethodExpress:   decimal.RequireFromString("2.5"),
}

// Premium customers ship these methods at the standard multiplier.
var premiumUpgrades = map[pricing.ShippingMethod]bool{
	pricing.MethodExpedited: true,
	pricing.MethodPriority:  true,
}

// Rate returns the per-unit base rate for a tier. Unknown tiers are charged
// the international rate.
func Rate(t Tier) pricing.Money {
	if rate, ok := tierRates[t]; ok {
		return rate
	}
	return InternationalShippingRate
}

// Multiplier returns the speed multiplier applied for the customer and method.
func Multiplier(customer pricing.CustomerType, method pricing.ShippingMethod) pricing.Money {
	if customer == pricing.CustomerPremium && premiumUpgrades[method] {
		return methodMultipliers[pricing.MethodStandard]
	}
	if m, ok := methodMultipliers[method]; ok {
		return m
	}
	return methodMultipliers[pricing.MethodStandard]
}
