package enums

import "fmt"

// ConditionKind identifies what a flexible shipping rule condition ranges
// over.
type ConditionKind string

const (
	ConditionKindOrderAmount ConditionKind = "order_amount"
	ConditionKindWeight      ConditionKind = "weight"
)

var validConditionKinds = []ConditionKind{
	ConditionKindOrderAmount,
	ConditionKindWeight,
}

// String implements fmt.Stringer.
func (c ConditionKind) String() string {
	return string(c)
}

// IsValid reports whether the condition kind is recognized.
func (c ConditionKind) IsValid() bool {
	for _, candidate := range validConditionKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseConditionKind converts a raw string into a ConditionKind.
func ParseConditionKind(value string) (ConditionKind, error) {
	for _, candidate := range validConditionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid condition kind %q", value)
}
