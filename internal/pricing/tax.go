package pricing

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// ResolveTax finds the applicable tax rate for the destination and extracts
// the tax share of a gross amount. Prices are tax-inclusive, so
// tax = gross * rate / (100 + rate) and gross - tax recovers the net amount.
//
// Matching walks the rates in list order and returns the first entry whose
// country equals the target (or is the empty-string wildcard) and whose
// state, when non-empty, equals the target state. The rate's Priority field
// is deliberately not consulted: the backend export we consume is already
// declaration-ordered and the storefront has always resolved on list order.
func ResolveTax(gross decimal.Decimal, country, state string, rates []TaxRate) TaxResult {
	for _, rate := range rates {
		if rate.Country != "" && rate.Country != country {
			continue
		}
		if rate.State != "" && rate.State != state {
			continue
		}
		return TaxResult{
			TaxAmount:   extractTax(gross, rate.Rate),
			RatePercent: rate.Rate,
		}
	}
	return TaxResult{TaxAmount: decimal.Zero, RatePercent: decimal.Zero}
}

func extractTax(gross, ratePercent decimal.Decimal) decimal.Decimal {
	divisor := oneHundred.Add(ratePercent)
	if divisor.IsZero() {
		return decimal.Zero
	}
	return gross.Mul(ratePercent).Div(divisor)
}
