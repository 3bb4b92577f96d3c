package types

import "github.com/shopspring/decimal"

// CartLine is one priced line of the cart snapshot every pricing calculation
// receives. Unit prices are tax-inclusive gross amounts.
type CartLine struct {
	ProductID   int64           `json:"product_id"`
	VariationID int64           `json:"variation_id,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Weight      decimal.Decimal `json:"weight,omitempty"`
}

// LineTotal returns unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Subtotal sums the gross line totals of the snapshot.
func Subtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// TotalWeight sums line weight times quantity. Lines without a weight count
// as virtual goods.
func TotalWeight(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Weight.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Destination identifies where the cart ships to.
type Destination struct {
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
}
