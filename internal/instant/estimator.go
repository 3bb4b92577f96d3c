// Package instant renders cart-drawer totals with zero network latency. It
// runs the same resolvers as the authoritative checkout path, fed by a small
// hand-maintained per-country snapshot instead of live backend
// configuration. The two paths diverge at the margins (weight tiers,
// coupons); the checkout page always reconciles against the authoritative
// estimate before an order is submitted.
package instant

import (
	"github.com/shopspring/decimal"

	"github.com/olivara/storefront-backend/internal/pricing"
	"github.com/olivara/storefront-backend/pkg/enums"
	"github.com/olivara/storefront-backend/pkg/types"
)

// countryRule is one snapshot row: a flat tax percent, a flat shipping rate,
// and an optional free-shipping threshold (zero means none).
type countryRule struct {
	country               string
	taxPercent            string
	flatRate              string
	freeShippingThreshold string
}

// The snapshot mirrors the backend configuration for the countries the shop
// actually ships to. Updated by hand when the backend config changes.
var snapshot = []countryRule{
	{country: "AT", taxPercent: "20", flatRate: "4.90", freeShippingThreshold: "79"},
	{country: "DE", taxPercent: "19", flatRate: "6.90", freeShippingThreshold: "79"},
	{country: "CH", taxPercent: "8.1", flatRate: "14.90", freeShippingThreshold: "0"},
}

// Estimate is the latency-free total set the cart drawer shows.
type Estimate struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	TaxRatePercent decimal.Decimal
	ShippingCost   decimal.Decimal
	ShippingLabel  string
	Resolved       bool
	Total          decimal.Decimal
}

// Estimator expands the snapshot into engine records once and reuses them
// for every call.
type Estimator struct {
	rates []pricing.TaxRate
	zones []pricing.Zone
}

// NewEstimator builds the estimator from the built-in snapshot.
func NewEstimator() *Estimator {
	return newEstimatorFromRules(snapshot)
}

func newEstimatorFromRules(rules []countryRule) *Estimator {
	est := &Estimator{}
	for i, rule := range rules {
		est.rates = append(est.rates, pricing.TaxRate{
			Country: rule.country,
			Rate:    pricing.ParseAmount(rule.taxPercent),
		})

		zone := pricing.Zone{
			ID:        int64(i + 1),
			Name:      rule.country,
			Locations: []pricing.Location{{Type: enums.LocationTypeCountry, Code: rule.country}},
		}
		threshold := pricing.ParseAmount(rule.freeShippingThreshold)
		if threshold.Sign() > 0 {
			zone.Methods = append(zone.Methods, pricing.ShippingMethod{
				Title:    pricing.FreeShippingLabel,
				Enabled:  true,
				Kind:     enums.ShippingMethodFreeShipping,
				Settings: pricing.FreeShippingSettings{MinAmount: threshold},
			})
		}
		zone.Methods = append(zone.Methods, pricing.ShippingMethod{
			Title:    "standard",
			Enabled:  true,
			Kind:     enums.ShippingMethodFlatRate,
			Settings: pricing.FlatRateSettings{Cost: pricing.ParseAmount(rule.flatRate)},
		})
		est.zones = append(est.zones, zone)
	}
	return est
}

// Estimate prices the cart for the destination country against the
// snapshot. Countries outside the snapshot stay unresolved and untaxed.
func (e *Estimator) Estimate(country string, items []types.CartLine) Estimate {
	subtotal := types.Subtotal(items)
	weight := types.TotalWeight(items)

	result := Estimate{
		Subtotal: subtotal,
		Total:    subtotal,
	}

	tax := pricing.ResolveTax(subtotal, country, "", e.rates)
	result.TaxAmount = tax.TaxAmount
	result.TaxRatePercent = tax.RatePercent

	zone := pricing.ResolveZone(e.zones, country, "")
	if quote := pricing.CalculateShippingCost(zone, weight, subtotal); quote != nil {
		result.ShippingCost = quote.Cost
		result.ShippingLabel = quote.Label
		result.Resolved = true
		result.Total = subtotal.Add(quote.Cost)
	}

	return result
}
