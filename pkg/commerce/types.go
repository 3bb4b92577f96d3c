package commerce

import (
	"encoding/json"
	"time"

	"github.com/olivara/storefront-backend/internal/pricing"
	"github.com/olivara/storefront-backend/pkg/enums"
)

// Wire shapes of the commerce backend's REST records. Loosely typed settings
// payloads are decoded into the engine's closed settings union here, at the
// ingestion boundary; malformed numeric strings parse to zero.

type taxRateRecord struct {
	ID       int64  `json:"id"`
	Country  string `json:"country"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	City     string `json:"city"`
	Rate     string `json:"rate"`
	Priority int    `json:"priority"`
	Compound bool   `json:"compound"`
	Shipping bool   `json:"shipping"`
}

func (r taxRateRecord) toTaxRate() pricing.TaxRate {
	return pricing.TaxRate{
		Country:           r.Country,
		State:             r.State,
		Postcode:          r.Postcode,
		City:              r.City,
		Rate:              pricing.ParseAmount(r.Rate),
		Priority:          r.Priority,
		Compound:          r.Compound,
		AppliesToShipping: r.Shipping,
	}
}

type zoneRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type locationRecord struct {
	Code string `json:"code"`
	Type string `json:"type"`
}

type settingValue struct {
	Value string `json:"value"`
}

type methodRecord struct {
	InstanceID int64                   `json:"instance_id"`
	Title      string                  `json:"title"`
	Enabled    bool                    `json:"enabled"`
	MethodID   string                  `json:"method_id"`
	Settings   map[string]settingValue `json:"settings"`
}

// Backend method ids for the flexible rule-based plugin.
const (
	wireMethodFreeShipping   = "free_shipping"
	wireMethodFlatRate       = "flat_rate"
	wireMethodFlexibleSingle = "flexible_shipping_single"
	wireMethodFlexible       = "flexible_shipping"
)

type ruleConditionRecord struct {
	ConditionID string `json:"condition_id"`
	Min         string `json:"min"`
	Max         string `json:"max"`
}

type ruleRecord struct {
	Conditions   []ruleConditionRecord `json:"conditions"`
	CostPerOrder string                `json:"cost_per_order"`
}

// toShippingMethod maps a wire method onto the settings union. Unknown
// method kinds return false: the checkout only understands the three
// configured kinds and skipping keeps an unrelated backend plugin from
// breaking pricing.
func (m methodRecord) toShippingMethod() (pricing.ShippingMethod, bool) {
	method := pricing.ShippingMethod{
		ID:      m.InstanceID,
		Title:   m.Title,
		Enabled: m.Enabled,
	}

	switch m.MethodID {
	case wireMethodFreeShipping:
		method.Kind = enums.ShippingMethodFreeShipping
		method.Settings = pricing.FreeShippingSettings{
			MinAmount: pricing.ParseAmount(m.setting("min_amount")),
		}
	case wireMethodFlatRate:
		method.Kind = enums.ShippingMethodFlatRate
		method.Settings = pricing.FlatRateSettings{
			Cost: pricing.ParseAmount(m.setting("cost")),
		}
	case wireMethodFlexibleSingle, wireMethodFlexible:
		method.Kind = enums.ShippingMethodRuleBased
		method.Settings = pricing.RuleBasedSettings{
			Rules: decodeMethodRules(m.setting("method_rules")),
		}
	default:
		return pricing.ShippingMethod{}, false
	}
	return method, true
}

func (m methodRecord) setting(key string) string {
	if entry, ok := m.Settings[key]; ok {
		return entry.Value
	}
	return ""
}

// decodeMethodRules parses the rule list the backend stores as a JSON string
// inside the method settings. Undecodable payloads yield no rules, so the
// method simply never fires.
func decodeMethodRules(raw string) []pricing.ShippingRule {
	if raw == "" {
		return nil
	}
	var records []ruleRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil
	}
	rules := make([]pricing.ShippingRule, 0, len(records))
	for _, record := range records {
		rule := pricing.ShippingRule{CostPerOrder: pricing.ParseAmount(record.CostPerOrder)}
		for _, condition := range record.Conditions {
			kind, err := enums.ParseConditionKind(condition.ConditionID)
			if err != nil {
				continue
			}
			rule.Conditions = append(rule.Conditions, pricing.RuleCondition{
				Kind: kind,
				Min:  pricing.ParseAmount(condition.Min),
				Max:  pricing.ParseAmount(condition.Max),
			})
		}
		rules = append(rules, rule)
	}
	return rules
}

func toLocation(record locationRecord) (pricing.Location, bool) {
	locationType, err := enums.ParseLocationType(record.Type)
	if err != nil {
		return pricing.Location{}, false
	}
	return pricing.Location{Type: locationType, Code: record.Code}, true
}

type couponRecord struct {
	ID                 int64   `json:"id"`
	Code               string  `json:"code"`
	DiscountType       string  `json:"discount_type"`
	Amount             string  `json:"amount"`
	DateExpires        string  `json:"date_expires"`
	UsageLimit         *int    `json:"usage_limit"`
	UsageCount         int     `json:"usage_count"`
	UsageLimitPerUser  *int    `json:"usage_limit_per_user"`
	MinimumAmount      string  `json:"minimum_amount"`
	MaximumAmount      string  `json:"maximum_amount"`
	ProductIDs         []int64 `json:"product_ids"`
	ExcludedProductIDs []int64 `json:"excluded_product_ids"`
	FreeShipping       bool    `json:"free_shipping"`
	IndividualUse      bool    `json:"individual_use"`
}

func (r couponRecord) toCoupon() *pricing.Coupon {
	discountType, err := enums.ParseDiscountType(r.DiscountType)
	if err != nil {
		discountType = enums.DiscountTypeFixedCart
	}
	coupon := &pricing.Coupon{
		ID:                 r.ID,
		Code:               r.Code,
		DiscountType:       discountType,
		Amount:             pricing.ParseAmount(r.Amount),
		UsageLimit:         r.UsageLimit,
		UsageCount:         r.UsageCount,
		UsageLimitPerUser:  r.UsageLimitPerUser,
		MinimumAmount:      pricing.ParseAmount(r.MinimumAmount),
		MaximumAmount:      pricing.ParseAmount(r.MaximumAmount),
		AllowedProductIDs:  r.ProductIDs,
		ExcludedProductIDs: r.ExcludedProductIDs,
		FreeShipping:       r.FreeShipping,
		IndividualUse:      r.IndividualUse,
	}
	if r.DateExpires != "" {
		if expiry, err := time.Parse("2006-01-02T15:04:05", r.DateExpires); err == nil {
			coupon.ExpiryDate = &expiry
		}
	}
	return coupon
}

// CountryState is one selectable state of a shippable country.
type CountryState struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Country is a destination the address form offers.
type Country struct {
	Code   string         `json:"code"`
	Name   string         `json:"name"`
	States []CountryState `json:"states"`
}

// ShippingConfig is the complete zone/rate snapshot the authoritative
// pricing path works from.
type ShippingConfig struct {
	TaxRates []pricing.TaxRate
	Zones    []pricing.Zone
}
