package shipping

import "github.com/noah-isme/checkout-pricing/internal/pricing"

// Locator compares two addresses for rate tiering.
type Locator interface {
	SameCity(a, b pricing.Address) bool
	SameCountry(a, b pricing.Address) bool
}

// ExactLocator matches city and country with case-sensitive equality.
// Empty fields never match.
type ExactLocator struct{}

// SameCity reports whether both addresses share city and country.
func (l ExactLocator) SameCity(a, b pricing.Address) bool {
	return a.City != "" && a.City == b.City && l.SameCountry(a, b)
}

// SameCountry reports whether both addresses share a country.
func (ExactLocator) SameCountry(a, b pricing.Address) bool {
	return a.Country != "" && a.Country == b.Country
}

func resolveTier(l Locator, origin, dest pricing.Address) Tier {
	switch {
	case l.SameCity(origin, dest):
		return TierSameCity
	case l.SameCountry(origin, dest):
		return TierSameCountry
	default:
		return TierInternational
	}
}
