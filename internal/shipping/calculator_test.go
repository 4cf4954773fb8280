package shipping_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/checkout-pricing/internal/pricing"
	"github.com/noah-isme/checkout-pricing/internal/shipping"
)

func newAddress(city, country string) pricing.Address {
	return pricing.Address{Street: "123 Jolly Lane", City: city, Country: country}
}

func cartWithItems(ct pricing.CustomerType, m pricing.ShippingMethod) pricing.Cart {
	return pricing.Cart{
		CustomerType:    ct,
		ShippingMethod:  m,
		ShippingAddress: newAddress("Dallas", "USA"),
		Items: []pricing.Item{
			{Quantity: 2},
			{Quantity: 3},
		},
	}
}

func requireMoney(t *testing.T, expected string, got pricing.Money) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(expected).Equal(got), "expected %s got %s", expected, got)
}

func TestEmptyCartShipsFree(t *testing.T) {
	t.Parallel()

	calc := shipping.NewCalculator()
	cart := pricing.Cart{ShippingAddress: newAddress("Mexico City", "Mexico"), ShippingMethod: pricing.MethodExpress}
	requireMoney(t, "0", calc.Cost(cart))
}

func TestCostByCustomerAndMethod(t *testing.T) {
	t.Parallel()

	cases := []struct {
		customer pricing.CustomerType
		method   pricing.ShippingMethod
		expected string
	}{
		{pricing.CustomerStandard, pricing.MethodStandard, "5"},
		{pricing.CustomerStandard, pricing.MethodExpedited, "6"},
		{pricing.CustomerStandard, pricing.MethodPriority, "10"},
		{pricing.CustomerStandard, pricing.MethodExpress, "12.5"},
		{pricing.CustomerPremium, pricing.MethodStandard, "5"},
		{pricing.CustomerPremium, pricing.MethodExpedited, "5"},
		{pricing.CustomerPremium, pricing.MethodPriority, "5"},
		{pricing.CustomerPremium, pricing.MethodExpress, "12.5"},
	}
	calc := shipping.NewCalculator()
	for _, tc := range cases {
		t.Run(tc.customer.String()+"/"+tc.method.String(), func(t *testing.T) {
			requireMoney(t, tc.expected, calc.Cost(cartWithItems(tc.customer, tc.method)))
		})
	}
}

func TestPremiumOverrideHoldsAtEveryTier(t *testing.T) {
	t.Parallel()
	cases := []struct {
		warehouse pricing.Address
		tier      shipping.Tier
		expected  map[pricing.ShippingMethod]string
	}{
		{newAddress("Austin", "USA"), shipping.TierSameCountry, map[pricing.ShippingMethod]string{
			pricing.MethodStandard:  "10",
			pricing.MethodExpedited: "10",
			pricing.MethodPriority:  "10",
			pricing.MethodExpress:   "25",
		}},
		{newAddress("Mexico City", "Mexico"), shipping.TierInternational, map[pricing.ShippingMethod]string{
			pricing.MethodStandard:  "75",
			pricing.MethodExpedited: "75",
			pricing.MethodPriority:  "75",
			pricing.MethodExpress:   "187.5",
		}},
	}
	for _, tc := range cases {
		calc := shipping.NewCalculator(shipping.WithOrigin(tc.warehouse))
		for method, expected := range tc.expected {
			t.Run(tc.tier.String()+"/"+method.String(), func(t *testing.T) {
				premium := cartWithItems(pricing.CustomerPremium, method)
				require.Equal(t, tc.tier, calc.Tier(premium))
				requireMoney(t, expected, calc.Cost(premium))

				standard := cartWithItems(pricing.CustomerPremium, pricing.MethodStandard)
				if method == pricing.MethodExpedited || method == pricing.MethodPriority {
					require.True(t, calc.Cost(standard).Equal(calc.Cost(premium)))
				}
			})
		}
	}
}

func TestCostByLocation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		customerCity, customerCountry   string
		warehouseCity, warehouseCountry string
		expected                        string
		tier                            shipping.Tier
	}{
		{"Dallas", "USA", "Dallas", "USA", "5", shipping.TierSameCity},
		{"Dallas", "USA", "Austin", "USA", "10", shipping.TierSameCountry},
		{"Dallas", "USA", "Mexico City", "Mexico", "75", shipping.TierInternational},
		{"Austin", "USA", "Dallas", "USA", "10", shipping.TierSameCountry},
		{"Mexico City", "Mexico", "Dallas", "USA", "75", shipping.TierInternational},
	}
	for _, tc := range cases {
		name := tc.customerCity + "->" + tc.warehouseCity
		t.Run(name, func(t *testing.T) {
			cart := cartWithItems(pricing.CustomerStandard, pricing.MethodStandard)
			cart.ShippingAddress = newAddress(tc.customerCity, tc.customerCountry)
			calc := shipping.NewCalculator(shipping.WithOrigin(newAddress(tc.warehouseCity, tc.warehouseCountry)))

			requireMoney(t, tc.expected, calc.Cost(cart))
			require.Equal(t, tc.tier, calc.Tier(cart))
		})
	}
}

func TestComparisonIsCaseSensitive(t *testing.T) {
	t.Parallel()

	cart := cartWithItems(pricing.CustomerStandard, pricing.MethodStandard)
	cart.ShippingAddress = newAddress("dallas", "usa")
	calc := shipping.NewCalculator()
	require.Equal(t, shipping.TierInternational, calc.Tier(cart))
	requireMoney(t, "75", calc.Cost(cart))
}

func TestSameCityNameInOtherCountryIsInternational(t *testing.T) {
	t.Parallel()

	cart := cartWithItems(pricing.CustomerStandard, pricing.MethodStandard)
	cart.ShippingAddress = newAddress("Dallas", "Canada")
	require.Equal(t, shipping.TierInternational, shipping.NewCalculator().Tier(cart))
}

func TestUnsetAddressFieldsFallBackToInternational(t *testing.T) {
	t.Parallel()

	cart := cartWithItems(pricing.CustomerStandard, pricing.MethodStandard)
	cart.ShippingAddress = pricing.Address{}
	calc := shipping.NewCalculator(shipping.WithOrigin(pricing.Address{}))
	requireMoney(t, "75", calc.Cost(cart))
}

func TestCostScalesWithQuantity(t *testing.T) {
	t.Parallel()

	calc := shipping.NewCalculator()
	for _, method := range []pricing.ShippingMethod{pricing.MethodStandard, pricing.MethodExpedited, pricing.MethodPriority, pricing.MethodExpress} {
		cart := cartWithItems(pricing.CustomerStandard, method)
		doubled := cartWithItems(pricing.CustomerStandard, method)
		for i := range doubled.Items {
			doubled.Items[i].Quantity *= 2
		}
		require.True(t, calc.Cost(cart).Mul(decimal.NewFromInt(2)).Equal(calc.Cost(doubled)), method.String())
	}
}

func TestCostDoesNotMutateCart(t *testing.T) {
	t.Parallel()

	cart := cartWithItems(pricing.CustomerPremium, pricing.MethodPriority)
	before := cart.Items[0]
	_ = shipping.NewCalculator().Cost(cart)
	require.Equal(t, before, cart.Items[0])
}

type foldLocator struct{}

func (foldLocator) SameCity(a, b pricing.Address) bool {
	return strings.EqualFold(a.City, b.City) && strings.EqualFold(a.Country, b.Country)
}

func (foldLocator) SameCountry(a, b pricing.Address) bool {
	return strings.EqualFold(a.Country, b.Country)
}

func TestCustomLocator(t *testing.T) {
	t.Parallel()

	cart := cartWithItems(pricing.CustomerStandard, pricing.MethodStandard)
	cart.ShippingAddress = newAddress("DALLAS", "usa")
	calc := shipping.NewCalculator(shipping.WithLocator(foldLocator{}))
	require.Equal(t, shipping.TierSameCity, calc.Tier(cart))
	require.Equal(t, shipping.DefaultOrigin, calc.Origin())
}

func TestTierNames(t *testing.T) {
	require.Equal(t, "same_city", shipping.TierSameCity.String())
	require.Equal(t, "same_country", shipping.TierSameCountry.String())
	require.Equal(t, "international", shipping.TierInternational.String())
	require.True(t, shipping.Rate(shipping.Tier(99)).Equal(shipping.InternationalShippingRate))
}
