// Package cartdoc decodes cart documents written by operators or exported by
// upstream services into pricing.Cart values.
package cartdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the on-disk cart shape.
type Document struct {
	CustomerType   string     `json:"customerType" yaml:"customerType"`
	ShippingMethod string     `json:"shippingMethod" yaml:"shippingMethod"`
	Address        AddressDoc `json:"shippingAddress" yaml:"shippingAddress"`
	Items          []ItemDoc  `json:"items" yaml:"items"`
}

// AddressDoc is the on-disk address shape.
type AddressDoc struct {
	Street  string `json:"street" yaml:"street"`
	City    string `json:"city" yaml:"city"`
	Country string `json:"country" yaml:"country"`
}

// ItemDoc is the on-disk line item. UnitPrice is a decimal literal so that
// prices such as 19.99 survive without float rounding.
type ItemDoc struct {
	Quantity  int    `json:"quantity" yaml:"quantity"`
	UnitPrice string `json:"unitPrice" yaml:"unitPrice"`
}

// UnmarshalJSON accepts unitPrice as a JSON number or string.
func (d *ItemDoc) UnmarshalJSON(data []byte) error {
	var raw struct {
		Quantity  int             `json:"quantity"`
		UnitPrice json.RawMessage `json:"unitPrice"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Quantity = raw.Quantity
	price := strings.TrimSpace(string(raw.UnitPrice))
	if price == "null" {
		price = ""
	}
	d.UnitPrice = strings.Trim(price, `"`)
	return nil
}

// FormatFromPath guesses the format from a file extension. Anything other
// than .yaml or .yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a document in the given format and converts it to a cart.
func Decode(r io.Reader, format Format) (pricing.Cart, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return pricing.Cart{}, fmt.Errorf("decode yaml cart: %w", err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return pricing.Cart{}, fmt.Errorf("decode json cart: %w", err)
		}
	default:
		return pricing.Cart{}, fmt.Errorf("unsupported cart format %q", format)
	}
	return doc.Cart()
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte, format Format) (pricing.Cart, error) {
	return Decode(bytes.NewReader(data), format)
}

// ReadFile decodes the cart stored at path; "-" reads standard input as JSON.
func ReadFile(path string) (pricing.Cart, error) {
	if path == "-" {
		return Decode(os.Stdin, FormatJSON)
	}
	f, err := os.Open(path)
	if err != nil {
		return pricing.Cart{}, err
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// Cart converts the document into a pricing.Cart. Missing customer type and
// shipping method default to standard.
func (d Document) Cart() (pricing.Cart, error) {
	cart := pricing.Cart{
		ShippingAddress: pricing.Address{
			Street:  d.Address.Street,
			City:    d.Address.City,
			Country: d.Address.Country,
		},
		Items: make([]pricing.Item, 0, len(d.Items)),
	}
	if strings.TrimSpace(d.CustomerType) != "" {
		ct, err := pricing.ParseCustomerType(d.CustomerType)
		if err != nil {
			return pricing.Cart{}, err
		}
		cart.CustomerType = ct
	}
	if strings.TrimSpace(d.ShippingMethod) != "" {
		m, err := pricing.ParseShippingMethod(d.ShippingMethod)
		if err != nil {
			return pricing.Cart{}, err
		}
		cart.ShippingMethod = m
	}
	for i, it := range d.Items {
		price := decimal.Zero
		if strings.TrimSpace(it.UnitPrice) != "" {
			p, err := decimal.NewFromString(strings.TrimSpace(it.UnitPrice))
			if err != nil {
				return pricing.Cart{}, fmt.Errorf("item %d: unit price: %w", i, err)
			}
			price = p
		}
		cart.Items = append(cart.Items, pricing.Item{Quantity: it.Quantity, UnitPrice: price})
	}
	return cart, nil
}
