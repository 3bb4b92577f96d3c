package checkout

import (
	"context"
	"net/http"

	"github.com/olivara/storefront-backend/api/middleware"
	"github.com/olivara/storefront-backend/api/responses"
	"github.com/olivara/storefront-backend/api/validators"
	checkoutsvc "github.com/olivara/storefront-backend/internal/checkout"
	pkgerrors "github.com/olivara/storefront-backend/pkg/errors"
	"github.com/olivara/storefront-backend/pkg/logger"
)

// RateLimitStore is the slice of the redis client the rate-limit reset needs.
type RateLimitStore interface {
	RateLimitKey(scope string) string
	Del(ctx context.Context, keys ...string) error
}

// Estimate prices a cart against the live shipping and tax configuration.
func Estimate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload EstimateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithDestination(ctx, payload.Country, payload.State)
		}

		estimate, err := svc.Estimate(ctx, toEstimateInput(payload))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newEstimateResponse(estimate))
	}
}

// ApplyCoupon validates a coupon code against the supplied cart. Invalid
// coupons come back as a 200 with valid=false so the storefront can show
// the message inline.
func ApplyCoupon(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload CouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code := validators.SanitizeString(payload.CouponCode, 64)
		result, err := svc.ApplyCoupon(r.Context(), code, toCartLines(payload.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCouponResponse(result))
	}
}

// Countries lists the destinations the address form may offer.
func Countries(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		countries, err := svc.Countries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCountryResponses(countries))
	}
}

// RefreshConfig drops the cached shipping configuration so the next
// estimate refetches it. Exposed for ops after backend-side rate edits.
func RefreshConfig(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		svc.InvalidateConfig()
		responses.WriteSuccess(w, map[string]string{"status": "refreshed"})
	}
}

// ResetCouponRateLimit clears the throttle window for one coupon code.
// Support uses it when a newsletter blast sends many shoppers to the same
// code and the per-code limiter starts rejecting legitimate lookups.
func ResetCouponRateLimit(store RateLimitStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate limit store unavailable"))
			return
		}

		var payload RateLimitResetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code := validators.SanitizeString(payload.CouponCode, 64)
		key := store.RateLimitKey(middleware.CouponCodeRateScope(code))
		if err := store.Del(r.Context(), key); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing rate limit"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "reset"})
	}
}
