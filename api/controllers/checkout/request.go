package checkout

import (
	"strings"

	"github.com/olivara/storefront-backend/internal/checkout"
	"github.com/olivara/storefront-backend/internal/pricing"
	"github.com/olivara/storefront-backend/pkg/types"
)

// EstimateRequest is the storefront's checkout payload. Amounts arrive as
// strings because the storefront emits locale-formatted values like "5,99".
type EstimateRequest struct {
	Country    string        `json:"country" validate:"required,len=2"`
	State      string        `json:"state,omitempty"`
	CouponCode string        `json:"coupon_code,omitempty"`
	Items      []RequestItem `json:"items" validate:"required,min=1,dive"`
}

type RequestItem struct {
	ProductID   int64  `json:"product_id" validate:"required,gt=0"`
	VariationID int64  `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice   string `json:"unit_price" validate:"required"`
	Weight      string `json:"weight,omitempty"`
}

// CouponRequest validates a coupon against the current cart.
type CouponRequest struct {
	CouponCode string        `json:"coupon_code" validate:"required"`
	Items      []RequestItem `json:"items,omitempty" validate:"dive"`
}

// RateLimitResetRequest names the coupon code whose throttle window support
// wants to clear.
type RateLimitResetRequest struct {
	CouponCode string `json:"coupon_code" validate:"required"`
}

func toEstimateInput(payload EstimateRequest) checkout.EstimateInput {
	return checkout.EstimateInput{
		Destination: types.Destination{
			Country: strings.ToUpper(strings.TrimSpace(payload.Country)),
			State:   strings.ToUpper(strings.TrimSpace(payload.State)),
		},
		Items:      toCartLines(payload.Items),
		CouponCode: payload.CouponCode,
	}
}

func toCartLines(items []RequestItem) []types.CartLine {
	lines := make([]types.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, types.CartLine{
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Quantity:    item.Quantity,
			UnitPrice:   pricing.ParseAmount(item.UnitPrice),
			Weight:      pricing.ParseAmount(item.Weight),
		})
	}
	return lines
}
