package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olivara/storefront-backend/internal/pricing"
	"github.com/olivara/storefront-backend/pkg/cache"
	"github.com/olivara/storefront-backend/pkg/commerce"
	"github.com/olivara/storefront-backend/pkg/enums"
	pkgerrors "github.com/olivara/storefront-backend/pkg/errors"
	"github.com/olivara/storefront-backend/pkg/logger"
	"github.com/olivara/storefront-backend/pkg/metrics"
	"github.com/olivara/storefront-backend/pkg/types"
)

// ConfigSource is the slice of the commerce client the service consumes.
type ConfigSource interface {
	FetchShippingConfig(ctx context.Context) (*commerce.ShippingConfig, error)
	GetCouponByCode(ctx context.Context, code string) (*pricing.Coupon, error)
	ListCountries(ctx context.Context) ([]commerce.Country, error)
}

// EstimateInput is the cart snapshot and destination the estimate prices.
type EstimateInput struct {
	Destination types.Destination
	Items       []types.CartLine
	CouponCode  string
}

// Estimate is the authoritative price breakdown used at order submission.
// Total is subtotal + shipping - discount; tax is already embedded in the
// line prices, never added on top.
type Estimate struct {
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	TaxRatePercent   decimal.Decimal
	ShippingCost     decimal.Decimal
	ShippingLabel    string
	ShippingResolved bool
	DiscountAmount   decimal.Decimal
	DiscountType     enums.DiscountType
	FreeShipping     bool
	CouponApplied    bool
	CouponMessage    string
	Total            decimal.Decimal
	Degraded         bool
}

// CouponResult mirrors the coupon validation outcome for the apply-coupon
// flow. Invalid coupons are a result, not an error: the shopper sees exactly
// the first failing check's message.
type CouponResult struct {
	Valid          bool
	ErrorMessage   string
	DiscountAmount decimal.Decimal
	DiscountType   enums.DiscountType
	FreeShipping   bool
	IndividualUse  bool
}

// Service composes the pricing engine over live backend configuration.
type Service interface {
	Estimate(ctx context.Context, input EstimateInput) (*Estimate, error)
	ApplyCoupon(ctx context.Context, code string, items []types.CartLine) (*CouponResult, error)
	Countries(ctx context.Context) ([]commerce.Country, error)
	InvalidateConfig()
}

// ServiceParams wires the service dependencies.
type ServiceParams struct {
	Source         ConfigSource
	Logger         *logger.Logger
	Metrics        *metrics.PricingMetrics
	ConfigCacheTTL time.Duration
	Now            func() time.Time
}

type service struct {
	source      ConfigSource
	logg        *logger.Logger
	pricingMetr *metrics.PricingMetrics
	configCache *cache.Cache[*commerce.ShippingConfig]
	now         func() time.Time
}

// NewService validates the params and builds the authoritative pricing
// service.
func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, errors.New("checkout service requires a config source")
	}
	if params.Logger == nil {
		return nil, errors.New("checkout service requires a logger")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		source:      params.Source,
		logg:        params.Logger,
		pricingMetr: params.Metrics,
		configCache: cache.New[*commerce.ShippingConfig](params.ConfigCacheTTL),
		now:         now,
	}, nil
}

func (s *service) Estimate(ctx context.Context, input EstimateInput) (*Estimate, error) {
	start := s.now()
	defer func() {
		s.pricingMetr.ObserveDuration("authoritative", s.now().Sub(start))
	}()

	if input.Destination.Country == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination country is required")
	}

	ctx = s.logg.WithDestination(ctx, input.Destination.Country, input.Destination.State)

	subtotal := types.Subtotal(input.Items)
	weight := types.TotalWeight(input.Items)

	estimate := &Estimate{
		Subtotal: subtotal,
		Total:    subtotal,
	}

	cfg, err := s.shippingConfig(ctx)
	if err != nil {
		// Checkout stays usable in degraded form: zero tax, unresolved
		// shipping. The UI renders shipping as "calculated at next step".
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "estimate.config_unavailable")
		s.pricingMetr.IncOutcome("authoritative", "degraded")
		estimate.Degraded = true
		s.applyCouponToEstimate(ctx, estimate, input)
		estimate.Total = subtotal.Sub(estimate.DiscountAmount)
		return estimate, nil
	}

	tax := pricing.ResolveTax(subtotal, input.Destination.Country, input.Destination.State, cfg.TaxRates)
	estimate.TaxAmount = tax.TaxAmount
	estimate.TaxRatePercent = tax.RatePercent

	zone := pricing.ResolveZone(cfg.Zones, input.Destination.Country, input.Destination.State)
	if quote := pricing.CalculateShippingCost(zone, weight, subtotal); quote != nil {
		estimate.ShippingCost = quote.Cost
		estimate.ShippingLabel = quote.Label
		estimate.ShippingResolved = true
	}

	s.applyCouponToEstimate(ctx, estimate, input)

	if estimate.FreeShipping && estimate.ShippingResolved {
		estimate.ShippingCost = decimal.Zero
		estimate.ShippingLabel = pricing.FreeShippingLabel
	}

	estimate.Total = subtotal.Add(estimate.ShippingCost).Sub(estimate.DiscountAmount)

	s.pricingMetr.IncOutcome("authoritative", "ok")
	return estimate, nil
}

// applyCouponToEstimate folds an optional coupon into the estimate. Lookup
// failures drop the coupon rather than failing the estimate; validation
// failures surface as the coupon message.
func (s *service) applyCouponToEstimate(ctx context.Context, estimate *Estimate, input EstimateInput) {
	if input.CouponCode == "" {
		return
	}

	result, err := s.ApplyCoupon(ctx, input.CouponCode, input.Items)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "estimate.coupon_unavailable")
		return
	}
	if !result.Valid {
		estimate.CouponMessage = result.ErrorMessage
		return
	}

	estimate.CouponApplied = true
	estimate.DiscountAmount = result.DiscountAmount
	estimate.DiscountType = result.DiscountType
	estimate.FreeShipping = result.FreeShipping
}

func (s *service) ApplyCoupon(ctx context.Context, code string, items []types.CartLine) (*CouponResult, error) {
	coupon, err := s.source.GetCouponByCode(ctx, code)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			s.pricingMetr.IncOutcome("coupon", "rejected")
			return &CouponResult{Valid: false, ErrorMessage: "coupon code not found"}, nil
		}
		return nil, err
	}

	discount, err := pricing.ValidateAndPrice(coupon, items, s.now())
	if err != nil {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeCouponInvalid {
			return nil, err
		}
		s.pricingMetr.IncOutcome("coupon", "rejected")
		return &CouponResult{Valid: false, ErrorMessage: typed.Message()}, nil
	}

	s.pricingMetr.IncOutcome("coupon", "accepted")
	return &CouponResult{
		Valid:          true,
		DiscountAmount: discount.Amount,
		DiscountType:   discount.Type,
		FreeShipping:   discount.FreeShipping,
		IndividualUse:  discount.IndividualUse,
	}, nil
}

func (s *service) Countries(ctx context.Context) ([]commerce.Country, error) {
	return s.source.ListCountries(ctx)
}

// InvalidateConfig drops the cached zone/rate snapshot so the next estimate
// refetches it. Wired to the config-refresh endpoint so a backend change
// does not require a redeploy.
func (s *service) InvalidateConfig() {
	s.configCache.Invalidate()
}

func (s *service) shippingConfig(ctx context.Context) (*commerce.ShippingConfig, error) {
	if cfg, ok := s.configCache.Get(); ok {
		s.pricingMetr.IncCacheHit()
		return cfg, nil
	}
	s.pricingMetr.IncCacheMiss()

	cfg, err := s.source.FetchShippingConfig(ctx)
	if err != nil {
		return nil, err
	}
	s.configCache.Set(cfg)
	return cfg, nil
}
