package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/olivara/storefront-backend/pkg/enums"
	pkgerrors "github.com/olivara/storefront-backend/pkg/errors"
	"github.com/olivara/storefront-backend/pkg/types"
)

// ValidateAndPrice checks a coupon against the cart and computes its
// discount. Validation short-circuits on the first failing check so the
// shopper sees exactly one message; later checks are never evaluated.
// Per-user usage limiting (UsageLimitPerUser) is accepted as configuration
// but not enforced here: it would need an order-history lookup against the
// backend, which this engine does not perform.
func ValidateAndPrice(coupon *Coupon, items []types.CartLine, now time.Time) (*Discount, error) {
	if coupon == nil || coupon.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "coupon code not found")
	}

	if coupon.ExpiryDate != nil && now.After(*coupon.ExpiryDate) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "coupon has expired")
	}

	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "coupon usage limit has been reached")
	}

	subtotal := types.Subtotal(items)

	if coupon.MinimumAmount.Sign() > 0 && subtotal.LessThan(coupon.MinimumAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "order subtotal is below the coupon minimum").
			WithDetails(map[string]any{"minimum_amount": coupon.MinimumAmount.String()})
	}

	if coupon.MaximumAmount.Sign() > 0 && subtotal.GreaterThan(coupon.MaximumAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "order subtotal is above the coupon maximum").
			WithDetails(map[string]any{"maximum_amount": coupon.MaximumAmount.String()})
	}

	if len(coupon.AllowedProductIDs) > 0 && !anyLineIn(items, coupon.AllowedProductIDs) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "coupon does not apply to any product in the cart")
	}

	if len(coupon.ExcludedProductIDs) > 0 && anyLineIn(items, coupon.ExcludedProductIDs) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "coupon cannot be used with a product in the cart")
	}

	amount := discountAmount(coupon, items, subtotal)
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}

	return &Discount{
		Amount:        amount,
		Type:          coupon.DiscountType,
		FreeShipping:  coupon.FreeShipping,
		IndividualUse: coupon.IndividualUse,
	}, nil
}

func discountAmount(coupon *Coupon, items []types.CartLine, subtotal decimal.Decimal) decimal.Decimal {
	switch coupon.DiscountType {
	case enums.DiscountTypePercent:
		return subtotal.Mul(coupon.Amount).Div(oneHundred)
	case enums.DiscountTypeFixedCart:
		return coupon.Amount
	case enums.DiscountTypeFixedProduct:
		return fixedProductDiscount(coupon, items)
	}
	return decimal.Zero
}

// fixedProductDiscount sums the per-unit amount over qualifying lines: lines
// on the allow list when one is set, otherwise lines off the deny list,
// otherwise every line.
func fixedProductDiscount(coupon *Coupon, items []types.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range items {
		if !lineQualifies(line, coupon) {
			continue
		}
		total = total.Add(coupon.Amount.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

func lineQualifies(line types.CartLine, coupon *Coupon) bool {
	if len(coupon.AllowedProductIDs) > 0 {
		return containsID(coupon.AllowedProductIDs, line.ProductID)
	}
	if len(coupon.ExcludedProductIDs) > 0 {
		return !containsID(coupon.ExcludedProductIDs, line.ProductID)
	}
	return true
}

func anyLineIn(items []types.CartLine, ids []int64) bool {
	for _, line := range items {
		if containsID(ids, line.ProductID) {
			return true
		}
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
