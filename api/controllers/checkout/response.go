package checkout

import (
	"github.com/olivara/storefront-backend/internal/checkout"
	"github.com/olivara/storefront-backend/pkg/commerce"
)

// EstimateResponse renders decimal amounts as strings so clients never see
// float rounding.
type EstimateResponse struct {
	Subtotal         string `json:"subtotal"`
	TaxAmount        string `json:"tax_amount"`
	TaxRatePercent   string `json:"tax_rate_percent"`
	ShippingCost     string `json:"shipping_cost"`
	ShippingLabel    string `json:"shipping_label"`
	ShippingResolved bool   `json:"shipping_resolved"`
	DiscountAmount   string `json:"discount_amount"`
	DiscountType     string `json:"discount_type,omitempty"`
	FreeShipping     bool   `json:"free_shipping"`
	CouponApplied    bool   `json:"coupon_applied"`
	CouponMessage    string `json:"coupon_message,omitempty"`
	Total            string `json:"total"`
	Degraded         bool   `json:"degraded"`
}

func newEstimateResponse(estimate *checkout.Estimate) EstimateResponse {
	resp := EstimateResponse{
		Subtotal:         estimate.Subtotal.StringFixed(2),
		TaxAmount:        estimate.TaxAmount.StringFixed(2),
		TaxRatePercent:   estimate.TaxRatePercent.String(),
		ShippingCost:     estimate.ShippingCost.StringFixed(2),
		ShippingLabel:    estimate.ShippingLabel,
		ShippingResolved: estimate.ShippingResolved,
		DiscountAmount:   estimate.DiscountAmount.StringFixed(2),
		FreeShipping:     estimate.FreeShipping,
		CouponApplied:    estimate.CouponApplied,
		CouponMessage:    estimate.CouponMessage,
		Total:            estimate.Total.StringFixed(2),
		Degraded:         estimate.Degraded,
	}
	if estimate.CouponApplied {
		resp.DiscountType = estimate.DiscountType.String()
	}
	return resp
}

type CouponResponse struct {
	Valid          bool   `json:"valid"`
	ErrorMessage   string `json:"error_message,omitempty"`
	DiscountAmount string `json:"discount_amount"`
	DiscountType   string `json:"discount_type,omitempty"`
	FreeShipping   bool   `json:"free_shipping"`
	IndividualUse  bool   `json:"individual_use"`
}

func newCouponResponse(result *checkout.CouponResult) CouponResponse {
	resp := CouponResponse{
		Valid:          result.Valid,
		ErrorMessage:   result.ErrorMessage,
		DiscountAmount: result.DiscountAmount.StringFixed(2),
		FreeShipping:   result.FreeShipping,
		IndividualUse:  result.IndividualUse,
	}
	if result.Valid {
		resp.DiscountType = result.DiscountType.String()
	}
	return resp
}

type CountryResponse struct {
	Code   string                 `json:"code"`
	Name   string                 `json:"name"`
	States []CountryStateResponse `json:"states,omitempty"`
}

type CountryStateResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func newCountryResponses(countries []commerce.Country) []CountryResponse {
	out := make([]CountryResponse, 0, len(countries))
	for _, country := range countries {
		resp := CountryResponse{Code: country.Code, Name: country.Name}
		for _, state := range country.States {
			resp.States = append(resp.States, CountryStateResponse{Code: state.Code, Name: state.Name})
		}
		out = append(out, resp)
	}
	return out
}
