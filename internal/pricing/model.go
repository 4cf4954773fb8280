package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value. Decimal keeps rate multipliers exact.
type Money = decimal.Decimal

// Zero is the zero monetary value.
var Zero = decimal.Zero

// Address describes a postal location. Empty fields are treated as absent.
type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// Item describes a single cart line.
type Item struct {
	Quantity  int   `json:"quantity"`
	UnitPrice Money `json:"unitPrice"`
}

// Cost returns quantity multiplied by unit price.
func (it Item) Cost() Money {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// CustomerType identifies the loyalty tier of the buyer.
type CustomerType int

const (
	CustomerStandard CustomerType = iota
	CustomerPremium
)

var customerTypeNames = map[CustomerType]string{
	CustomerStandard: "standard",
	CustomerPremium:  "premium",
}

func (c CustomerType) String() string {
	if name, ok := customerTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("customer_type(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c CustomerType) MarshalText() ([]byte, error) {
	if _, ok := customerTypeNames[c]; !ok {
		return nil, fmt.Errorf("unknown customer type %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CustomerType) UnmarshalText(text []byte) error {
	parsed, err := ParseCustomerType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCustomerType converts a case-insensitive label into a CustomerType.
func ParseCustomerType(value string) (CustomerType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for ct, name := range customerTypeNames {
		if name == normalized {
			return ct, nil
		}
	}
	return CustomerStandard, fmt.Errorf("unknown customer type %q", value)
}

// ShippingMethod identifies the requested delivery speed.
type ShippingMethod int

const (
	MethodStandard ShippingMethod = iota
	MethodExpedited
	MethodPriority
	MethodExpress
)

var shippingMethodNames = map[ShippingMethod]string{
	MethodStandard:  "standard",
	MethodExpedited: "expedited",
	MethodPriority:  "priority",
	MethodExpress:   "express",
}

func (m ShippingMethod) String() string {
	if name, ok := shippingMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("shipping_method(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m ShippingMethod) MarshalText() ([]byte, error) {
	if _, ok := shippingMethodNames[m]; !ok {
		return nil, fmt.Errorf("unknown shipping method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ShippingMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseShippingMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseShippingMethod converts a case-insensitive label into a ShippingMethod.
func ParseShippingMethod(value string) (ShippingMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for m, name := range shippingMethodNames {
		if name == normalized {
			return m, nil
		}
	}
	return MethodStandard, fmt.Errorf("unknown shipping method %q", value)
}

// Cart is the checkout input. The pricing code only reads it.
type Cart struct {
	CustomerType    CustomerType   `json:"customerType"`
	ShippingMethod  ShippingMethod `json:"shippingMethod"`
	ShippingAddress Address        `json:"shippingAddress"`
	Items           []Item         `json:"items"`
}

// Totals aggregates computed checkout components.
type Totals struct {
	ItemsCost        Money `json:"itemsCost"`
	ShippingCost     Money `json:"shippingCost"`
	CustomerDiscount Money `json:"customerDiscount"`
	Total            Money `json:"total"`
}
