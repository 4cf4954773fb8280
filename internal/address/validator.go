// Package address decides whether a postal address is complete enough to
// price shipping against.
package address

import (
	"errors"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// Validator checks addresses against the required-field rules. It is safe for
// concurrent use.
type Validator struct {
	v *validator.Validate
}

// NewValidator constructs an address validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{v: v}
}

// IsValid reports whether street, city and country are all present.
// A nil address is invalid.
func (val *Validator) IsValid(addr *pricing.Address) bool {
	return len(val.Missing(addr)) == 0
}

// Missing lists the names of the absent fields. A nil address yields "address".
func (val *Validator) Missing(addr *pricing.Address) []string {
	if addr == nil {
		return []string{"address"}
	}
	err := val.validate().Struct(addr)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"address"}
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

func (val *Validator) validate() *validator.Validate {
	if val == nil || val.v == nil {
		return defaultValidate
	}
	return val.v
}

var defaultValidate = NewValidator().v

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
