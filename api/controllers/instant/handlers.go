package instant

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/olivara/storefront-backend/api/responses"
	"github.com/olivara/storefront-backend/api/validators"
	instantsvc "github.com/olivara/storefront-backend/internal/instant"
	pkgerrors "github.com/olivara/storefront-backend/pkg/errors"
	"github.com/olivara/storefront-backend/pkg/logger"
	"github.com/olivara/storefront-backend/pkg/types"
)

// EstimateResponse is the lightweight quote the product page renders before
// the shopper ever reaches checkout.
type EstimateResponse struct {
	Subtotal       string `json:"subtotal"`
	TaxAmount      string `json:"tax_amount"`
	TaxRatePercent string `json:"tax_rate_percent"`
	ShippingCost   string `json:"shipping_cost"`
	ShippingLabel  string `json:"shipping_label"`
	Resolved       bool   `json:"resolved"`
	Total          string `json:"total"`
}

// Estimate serves snapshot-backed quotes from query parameters: country is
// required, amount and weight default to zero, quantity to one. Unknown
// countries come back unresolved rather than as an error.
func Estimate(est *instantsvc.Estimator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if est == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "estimator unavailable"))
			return
		}

		country, err := validators.ParseQueryCountry(r, "country")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amount, err := validators.ParseQueryDecimal(r, "amount", decimal.Zero)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		weight, err := validators.ParseQueryDecimal(r, "weight", decimal.Zero)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := validators.ParseQueryInt(r, "quantity", 1, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote := est.Estimate(country, []types.CartLine{{
			Quantity:  quantity,
			UnitPrice: amount,
			Weight:    weight,
		}})

		responses.WriteSuccess(w, EstimateResponse{
			Subtotal:       quote.Subtotal.StringFixed(2),
			TaxAmount:      quote.TaxAmount.StringFixed(2),
			TaxRatePercent: quote.TaxRatePercent.String(),
			ShippingCost:   quote.ShippingCost.StringFixed(2),
			ShippingLabel:  quote.ShippingLabel,
			Resolved:       quote.Resolved,
			Total:          quote.Total.StringFixed(2),
		})
	}
}
