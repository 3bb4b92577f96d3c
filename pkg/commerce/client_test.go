package commerce

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/olivara/storefront-backend/internal/pricing"
	"github.com/olivara/storefront-backend/pkg/config"
	"github.com/olivara/storefront-backend/pkg/enums"
	pkgerrors "github.com/olivara/storefront-backend/pkg/errors"
	"github.com/olivara/storefront-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard, Level: zerolog.Disabled})
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.CommerceConfig{
		BaseURL:        server.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		Timeout:        5 * time.Second,
		ZoneFetchLimit: 2,
	}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestListTaxRatesDecodesAndAuths(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "ck_test" || pass != "cs_test" {
			t.Errorf("missing basic auth on %s", r.URL.Path)
		}
		if r.URL.Path != "/taxes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("per_page") != "100" {
			t.Errorf("unexpected page size %s", r.URL.Query().Get("per_page"))
		}
		w.Write([]byte(`[
			{"id":1,"country":"AT","rate":"20.0000","priority":1,"shipping":true},
			{"id":2,"country":"","rate":"bogus"}
		]`))
	}))

	rates, err := client.ListTaxRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 2 {
		t.Fatalf("expected 2 rates, got %d", len(rates))
	}
	if !rates[0].Rate.Equal(decimal.NewFromInt(20)) || !rates[0].AppliesToShipping {
		t.Fatalf("unexpected first rate %+v", rates[0])
	}
	if !rates[1].Rate.IsZero() {
		t.Fatalf("malformed rate must parse to zero, got %s", rates[1].Rate)
	}
}

func TestGetCouponByCodeNormalizesAndMaps(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("code"); got != "sommer10" {
			t.Errorf("expected trimmed lowercase code, got %q", got)
		}
		w.Write([]byte(`[{
			"id":7,"code":"sommer10","discount_type":"percent","amount":"10.00",
			"date_expires":"2025-08-31T23:59:59","usage_limit":100,"usage_count":3,
			"minimum_amount":"50.00","maximum_amount":"0.00",
			"product_ids":[],"excluded_product_ids":[12],"free_shipping":false,"individual_use":true
		}]`))
	}))

	coupon, err := client.GetCouponByCode(context.Background(), "  SOMMER10 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coupon.DiscountType != enums.DiscountTypePercent {
		t.Fatalf("unexpected discount type %s", coupon.DiscountType)
	}
	if coupon.ExpiryDate == nil || coupon.ExpiryDate.Year() != 2025 {
		t.Fatalf("expiry not parsed: %+v", coupon.ExpiryDate)
	}
	if !coupon.MinimumAmount.Equal(decimal.NewFromInt(50)) || !coupon.IndividualUse {
		t.Fatalf("unexpected coupon %+v", coupon)
	}
}

func TestGetCouponByCodeNotFound(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := client.GetCouponByCode(context.Background(), "NOPE")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFetchShippingConfigAssemblesZones(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/taxes":
			w.Write([]byte(`[{"id":1,"country":"AT","rate":"20.0000"}]`))
		case "/shipping/zones":
			w.Write([]byte(`[{"id":0,"name":"Rest of world"},{"id":2,"name":"Austria"}]`))
		case "/shipping/zones/0/methods":
			w.Write([]byte(`[{"instance_id":9,"title":"Standard","enabled":true,"method_id":"flat_rate","settings":{"cost":{"value":"14,90"}}}]`))
		case "/shipping/zones/2/methods":
			w.Write([]byte(`[
				{"instance_id":11,"title":"Post Standard","enabled":true,"method_id":"flexible_shipping_single",
				 "settings":{"method_rules":{"value":"[{\"conditions\":[{\"condition_id\":\"weight\",\"min\":\"0\",\"max\":\"5\"}],\"cost_per_order\":\"5,99\"}]"}}},
				{"instance_id":12,"title":"Pickup","enabled":true,"method_id":"local_pickup","settings":{}}
			]`))
		case "/shipping/zones/2/locations":
			w.Write([]byte(`[{"code":"AT","type":"country"},{"code":"EU-alien","type":"postcode"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	cfg, err := client.FetchShippingConfig(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.TaxRates) != 1 || len(cfg.Zones) != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Zones[len(cfg.Zones)-1].ID != 0 {
		t.Fatal("fallback zone must sort last")
	}

	austria := cfg.Zones[0]
	if austria.ID != 2 || len(austria.Locations) != 1 {
		t.Fatalf("unexpected zone %+v", austria)
	}
	if len(austria.Methods) != 1 {
		t.Fatalf("unknown method kinds must be skipped, got %d methods", len(austria.Methods))
	}

	settings, ok := austria.Methods[0].Settings.(pricing.RuleBasedSettings)
	if !ok || len(settings.Rules) != 1 {
		t.Fatalf("unexpected settings %+v", austria.Methods[0].Settings)
	}
	if !settings.Rules[0].CostPerOrder.Equal(decimal.NewFromFloat(5.99)) {
		t.Fatalf("comma decimal must parse, got %s", settings.Rules[0].CostPerOrder)
	}
}

func TestGetSurfacesHTTPErrors(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "credentials rejected", http.StatusUnauthorized)
	}))

	_, err := client.ListTaxRates(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
