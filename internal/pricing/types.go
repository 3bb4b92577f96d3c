package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/olivara/storefront-backend/pkg/enums"
)

// TaxRate is one configured tax entry. An empty Country is a wildcard that
// matches every destination. Postcode and city are carried for completeness
// but play no part in resolution.
type TaxRate struct {
	Country          string
	State            string
	Postcode         string
	City             string
	Rate             decimal.Decimal
	Priority         int
	Compound         bool
	AppliesToShipping bool
}

// TaxResult holds the tax extracted from a gross amount.
type TaxResult struct {
	TaxAmount   decimal.Decimal
	RatePercent decimal.Decimal
}

// Location is one geographic matching rule attached to a zone.
type Location struct {
	Type enums.LocationType
	Code string
}

// Zone groups destination locations that share shipping methods. Zone id 0 is
// the reserved "rest of world" default and carries no locations.
type Zone struct {
	ID        int64
	Name      string
	Locations []Location
	Methods   []ShippingMethod
}

// MethodSettings is the closed settings union discriminated by the method
// kind. Payloads are validated when backend data is decoded, never accessed
// dynamically past that boundary.
type MethodSettings interface {
	methodSettings()
}

// FreeShippingSettings configures a free_shipping method.
type FreeShippingSettings struct {
	MinAmount decimal.Decimal
}

func (FreeShippingSettings) methodSettings() {}

// FlatRateSettings configures a flat_rate method.
type FlatRateSettings struct {
	Cost decimal.Decimal
}

func (FlatRateSettings) methodSettings() {}

// RuleBasedSettings configures a flexible rule-based method.
type RuleBasedSettings struct {
	Rules []ShippingRule
}

func (RuleBasedSettings) methodSettings() {}

// RuleCondition is an inclusive [Min,Max] band over the order amount or the
// cart weight.
type RuleCondition struct {
	Kind enums.ConditionKind
	Min  decimal.Decimal
	Max  decimal.Decimal
}

// ShippingRule pairs ordered conditions with a per-order cost.
type ShippingRule struct {
	Conditions   []RuleCondition
	CostPerOrder decimal.Decimal
}

// ShippingMethod is one entry of a zone's ordered method list.
type ShippingMethod struct {
	ID       int64
	Title    string
	Enabled  bool
	Kind     enums.ShippingMethodKind
	Settings MethodSettings
}

// ShippingQuote is the resolved cost and display label for a destination.
type ShippingQuote struct {
	Cost  decimal.Decimal
	Label string
}

// Coupon is an immutable snapshot of a backend coupon record. Usage counters
// are only ever mutated by the backend on order creation.
type Coupon struct {
	ID                 int64
	Code               string
	DiscountType       enums.DiscountType
	Amount             decimal.Decimal
	ExpiryDate         *time.Time
	UsageLimit         *int
	UsageCount         int
	UsageLimitPerUser  *int
	MinimumAmount      decimal.Decimal
	MaximumAmount      decimal.Decimal
	AllowedProductIDs  []int64
	ExcludedProductIDs []int64
	FreeShipping       bool
	IndividualUse      bool
}

// Discount is the priced outcome of a valid coupon. FreeShipping and
/// IndividualUse are surfaced for the caller: the shipping calculator applies
// the former, coupon exclusivity is the latter's concern.
type Discount struct {
	Amount        decimal.Decimal
	Type          enums.DiscountType
	FreeShipping  bool
	IndividualUse bool
}
