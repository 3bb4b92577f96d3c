package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivara/storefront-backend/pkg/enums"
	"github.com/olivara/storefront-backend/pkg/types"
)

// Walks a realistic configuration end to end: zone resolution, shipping
// cost, tax extraction and coupon pricing against one German cart.
func TestEnginePricesGermanCartEndToEnd(t *testing.T) {
	t.Parallel()

	rates := []TaxRate{
		{Country: "DE", Rate: decimal.NewFromInt(19)},
		{Country: "AT", Rate: decimal.NewFromInt(20)},
		{Country: "", Rate: decimal.Zero},
	}

	zones := []Zone{
		{
			ID:        3,
			Name:      "Germany",
			Locations: []Location{{Type: enums.LocationTypeCountry, Code: "DE"}},
			Methods: []ShippingMethod{
				{
					ID:       20,
					Title:    "Free ab 79",
					Enabled:  true,
					Kind:     enums.ShippingMethodFreeShipping,
					Settings: FreeShippingSettings{MinAmount: decimal.NewFromInt(79)},
				},
				{
					ID:       21,
					Title:    "DHL Paket",
					Enabled:  true,
					Kind:     enums.ShippingMethodRuleBased,
					Settings: RuleBasedSettings{Rules: []ShippingRule{
						{
							Conditions:   []RuleCondition{{Kind: enums.ConditionKindWeight, Min: decimal.Zero, Max: decimal.NewFromInt(10)}},
							CostPerOrder: decimal.RequireFromString("6.90"),
						},
					}},
				},
			},
		},
		{
			ID:        5,
			Name:      "European Union",
			Locations: []Location{{Type: enums.LocationTypeContinent, Code: "EU"}},
			Methods: []ShippingMethod{{
				ID:       30,
				Title:    "EU Standard",
				Enabled:  true,
				Kind:     enums.ShippingMethodFlatRate,
				Settings: FlatRateSettings{Cost: decimal.RequireFromString("12.90")},
			}},
		},
		{ID: 0, Name: "Rest of world"},
	}

	cart := []types.CartLine{
		{ProductID: 101, Quantity: 2, UnitPrice: decimal.RequireFromString("24.90"), Weight: decimal.RequireFromString("0.75")},
		{ProductID: 205, Quantity: 1, UnitPrice: decimal.RequireFromString("9.50"), Weight: decimal.RequireFromString("0.5")},
	}
	subtotal := types.Subtotal(cart)
	weight := types.TotalWeight(cart)
	require.True(t, subtotal.Equal(decimal.RequireFromString("59.30")))
	require.True(t, weight.Equal(decimal.RequireFromString("2")))

	zone := ResolveZone(zones, "DE", "")
	require.NotNil(t, zone)
	assert.Equal(t, int64(3), zone.ID, "country zone must beat the continent zone")

	quote := CalculateShippingCost(zone, weight, subtotal)
	require.NotNil(t, quote)
	assert.Equal(t, "DHL Paket", quote.Label, "below the threshold the free method must not fire")
	assert.True(t, quote.Cost.Equal(decimal.RequireFromString("6.90")))

	tax := ResolveTax(subtotal, "DE", "", rates)
	assert.True(t, tax.RatePercent.Equal(decimal.NewFromInt(19)))
	expectedTax := subtotal.Mul(decimal.NewFromInt(19)).Div(decimal.NewFromInt(119))
	assert.True(t, tax.TaxAmount.Equal(expectedTax), "tax is extracted from the gross, not added")

	coupon := &Coupon{
		ID:           44,
		Code:         "OLIVE5",
		DiscountType: enums.DiscountTypeFixedCart,
		Amount:       decimal.NewFromInt(5),
	}
	discount, err := ValidateAndPrice(coupon, cart, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, discount.Amount.Equal(decimal.NewFromInt(5)))

	total := subtotal.Add(quote.Cost).Sub(discount.Amount)
	assert.True(t, total.Equal(decimal.RequireFromString("61.20")))
}

// A Swiss destination matches neither the country nor the EU zone and lands
// on the rest-of-world fallback.
func TestEngineFallsBackToRestOfWorld(t *testing.T) {
	t.Parallel()

	zones := []Zone{
		{
			ID:        5,
			Name:      "European Union",
			Locations: []Location{{Type: enums.LocationTypeContinent, Code: "EU"}},
		},
		{
			ID:   0,
			Name: "Rest of world",
			Methods: []ShippingMethod{{
				ID:       40,
				Title:    "International",
				Enabled:  true,
				Kind:     enums.ShippingMethodFlatRate,
				Settings: FlatRateSettings{Cost: decimal.RequireFromString("24.90")},
			}},
		},
	}

	zone := ResolveZone(zones, "CH", "")
	require.NotNil(t, zone)
	assert.Equal(t, int64(0), zone.ID)

	quote := CalculateShippingCost(zone, decimal.NewFromInt(1), decimal.NewFromInt(50))
	require.NotNil(t, quote)
	assert.True(t, quote.Cost.Equal(decimal.RequireFromString("24.90")))
}
