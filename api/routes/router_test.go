package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	checkoutsvc "github.com/olivara/storefront-backend/internal/checkout"
	instantsvc "github.com/olivara/storefront-backend/internal/instant"
	"github.com/olivara/storefront-backend/pkg/commerce"
	"github.com/olivara/storefront-backend/pkg/config"
	"github.com/olivara/storefront-backend/pkg/types"
)

type stubCheckout struct{}

func (stubCheckout) Estimate(ctx context.Context, input checkoutsvc.EstimateInput) (*checkoutsvc.Estimate, error) {
	return &checkoutsvc.Estimate{
		Subtotal: decimal.RequireFromString("10"),
		Total:    decimal.RequireFromString("10"),
	}, nil
}

func (stubCheckout) ApplyCoupon(ctx context.Context, code string, items []types.CartLine) (*checkoutsvc.CouponResult, error) {
	return &checkoutsvc.CouponResult{Valid: true}, nil
}

func (stubCheckout) Countries(ctx context.Context) ([]commerce.Country, error) {
	return nil, nil
}

func (stubCheckout) InvalidateConfig() {}

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	return NewRouter(cfg, nil, nil, nil, stubCheckout{}, instantsvc.NewEstimator())
}

func TestRouterHealthLive(t *testing.T) {
	r := testRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-Olivara-Env"); env != "test" {
		t.Fatalf("unexpected env header %q", env)
	}
}

func TestRouterEstimateRoute(t *testing.T) {
	r := testRouter()

	body := `{"country":"AT","items":[{"product_id":1,"quantity":1,"unit_price":"10"}]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout/estimate", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data struct {
			Total string `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.Total != "10.00" {
		t.Fatalf("unexpected total %q", payload.Data.Total)
	}
}

func TestRouterCouponRouteWithoutRedis(t *testing.T) {
	r := testRouter()

	body := `{"coupon_code":"SOMMER10"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout/coupon", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("rate limiting must be optional, got %d", rec.Code)
	}
}

func TestRouterInstantEstimateRoute(t *testing.T) {
	r := testRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/instant/estimate?country=AT&amount=40&weight=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	r := testRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
