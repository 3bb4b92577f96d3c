package enums

import "fmt"

// ShippingMethodKind identifies how a zone shipping method prices an order.
type ShippingMethodKind string

const (
	ShippingMethodFreeShipping ShippingMethodKind = "free_shipping"
	ShippingMethodFlatRate     ShippingMethodKind = "flat_rate"
	ShippingMethodRuleBased    ShippingMethodKind = "flexible_rule_based"
)

var validShippingMethodKinds = []ShippingMethodKind{
	ShippingMethodFreeShipping,
	ShippingMethodFlatRate,
	ShippingMethodRuleBased,
}

// String implements fmt.Stringer.
func (s ShippingMethodKind) String() string {
	return string(s)
}

// IsValid reports whether the method kind is recognized.
func (s ShippingMethodKind) IsValid() bool {
	for _, candidate := range validShippingMethodKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShippingMethodKind converts a raw string into a ShippingMethodKind.
func ParseShippingMethodKind(value string) (ShippingMethodKind, error) {
	for _, candidate := range validShippingMethodKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping method kind %q", value)
}
