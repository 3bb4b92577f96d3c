package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/olivara/storefront-backend/pkg/enums"
)

// FreeShippingLabel is the display label of the degenerate zero-cost result.
const FreeShippingLabel = "free"

// CalculateShippingCost evaluates the zone's methods in declared order and
// returns the quote of the first enabled method that fires. A cart whose
// total physical weight is exactly zero ships free regardless of the zone's
// configuration: such carts only contain virtual goods. Returns nil when no
// method fires, which the UI renders as "calculated at next step".
func CalculateShippingCost(zone *Zone, totalWeight, subtotal decimal.Decimal) *ShippingQuote {
	if totalWeight.Sign() <= 0 {
		return &ShippingQuote{Cost: decimal.Zero, Label: FreeShippingLabel}
	}
	if zone == nil {
		return nil
	}

	for _, method := range zone.Methods {
		if !method.Enabled {
			continue
		}
		if quote := evaluateMethod(method, totalWeight, subtotal); quote != nil {
			return quote
		}
	}
	return nil
}

func evaluateMethod(method ShippingMethod, totalWeight, subtotal decimal.Decimal) *ShippingQuote {
	switch settings := method.Settings.(type) {
	case FreeShippingSettings:
		if settings.MinAmount.IsZero() || subtotal.GreaterThanOrEqual(settings.MinAmount) {
			return &ShippingQuote{Cost: decimal.Zero, Label: methodLabel(method)}
		}
	case FlatRateSettings:
		return &ShippingQuote{Cost: settings.Cost, Label: methodLabel(method)}
	case RuleBasedSettings:
		for _, rule := range settings.Rules {
			if ruleFires(rule, totalWeight, subtotal) {
				return &ShippingQuote{Cost: rule.CostPerOrder, Label: methodLabel(method)}
			}
		}
	}
	return nil
}

// ruleFires reports whether a flexible rule matches the cart. A rule fires on
// its order-amount band containing the subtotal, or on its weight band
// containing the cart weight. Weight conditions are only consulted for carts
// with positive weight so that a [0,n] weight band is never mistaken for the
// virtual-cart free result.
func ruleFires(rule ShippingRule, totalWeight, subtotal decimal.Decimal) bool {
	for _, condition := range rule.Conditions {
		switch condition.Kind {
		case enums.ConditionKindOrderAmount:
			if bandContains(condition, subtotal) {
				return true
			}
		case enums.ConditionKindWeight:
			if totalWeight.Sign() > 0 && bandContains(condition, totalWeight) {
				return true
			}
		}
	}
	return false
}

func bandContains(condition RuleCondition, value decimal.Decimal) bool {
	return value.GreaterThanOrEqual(condition.Min) && value.LessThanOrEqual(condition.Max)
}

func methodLabel(method ShippingMethod) string {
	if method.Title != "" {
		return method.Title
	}
	switch method.Kind {
	case enums.ShippingMethodFreeShipping:
		return FreeShippingLabel
	case enums.ShippingMethodFlatRate:
		return "flat rate"
	default:
		return "shipping"
	}
}
