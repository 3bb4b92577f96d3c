package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olivara/storefront-backend/internal/pricing"
	"github.com/olivara/storefront-backend/pkg/config"
	pkgerrors "github.com/olivara/storefront-backend/pkg/errors"
	"github.com/olivara/storefront-backend/pkg/logger"
)

var errLoggerRequired = errors.New("commerce logger is required")

// taxRatePageSize matches the backend maximum; the catalog never exceeds one
// page in practice.
const taxRatePageSize = 100

// Client talks to the commerce backend that owns tax rates, shipping zones,
// coupons, and the shippable country list. All calls are read-only.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	zoneFetchLimit int
	logger         *logger.Logger
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// NewClient builds the backend wrapper and validates its configuration.
func NewClient(cfg config.CommerceConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	zoneFetchLimit := cfg.ZoneFetchLimit
	if zoneFetchLimit <= 0 {
		zoneFetchLimit = 1
	}

	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		consumerKey:    strings.TrimSpace(cfg.ConsumerKey),
		consumerSecret: strings.TrimSpace(cfg.ConsumerSecret),
		zoneFetchLimit: zoneFetchLimit,
		logger:         logg,
	}, nil
}

// Ping verifies the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	var out []taxRateRecord
	return c.get(ctx, "/taxes", url.Values{"per_page": {"1"}}, &out)
}

// ListTaxRates fetches the configured tax rates in backend declaration
// order.
func (c *Client) ListTaxRates(ctx context.Context) ([]pricing.TaxRate, error) {
	var records []taxRateRecord
	query := url.Values{"per_page": {fmt.Sprint(taxRatePageSize)}}
	if err := c.get(ctx, "/taxes", query, &records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch tax rates")
	}

	rates := make([]pricing.TaxRate, 0, len(records))
	for _, record := range records {
		rates = append(rates, record.toTaxRate())
	}
	return rates, nil
}

// ListCountries fetches the destination countries offered in the address
// form.
func (c *Client) ListCountries(ctx context.Context) ([]Country, error) {
	var countries []Country
	if err := c.get(ctx, "/data/countries", nil, &countries); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch countries")
	}
	return countries, nil
}

// GetCouponByCode looks a coupon up by exact code. The backend query is
// case-insensitive; the code is trimmed before the lookup. Returns NotFound
// when no coupon carries the code.
func (c *Client) GetCouponByCode(ctx context.Context, code string) (*pricing.Coupon, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	var records []couponRecord
	if err := c.get(ctx, "/coupons", url.Values{"code": {normalized}}, &records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch coupon")
	}
	if len(records) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon code not found")
	}
	return records[0].toCoupon(), nil
}

// FetchShippingConfig gathers tax rates plus every zone with its nested
// methods and locations. The independent reads run concurrently purely for
// latency; they do not depend on each other.
func (c *Client) FetchShippingConfig(ctx context.Context) (*ShippingConfig, error) {
	cfg := &ShippingConfig{}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rates, err := c.ListTaxRates(groupCtx)
		if err != nil {
			return err
		}
		cfg.TaxRates = rates
		return nil
	})
	group.Go(func() error {
		zones, err := c.listZones(groupCtx)
		if err != nil {
			return err
		}
		cfg.Zones = zones
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listZones fetches the zone list and then each zone's methods and locations
// with a bounded fan-out.
func (c *Client) listZones(ctx context.Context) ([]pricing.Zone, error) {
	var records []zoneRecord
	if err := c.get(ctx, "/shipping/zones", nil, &records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch shipping zones")
	}

	zones := make([]pricing.Zone, len(records))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.zoneFetchLimit)

	for i, record := range records {
		group.Go(func() error {
			zone, err := c.fetchZoneDetail(groupCtx, record)
			if err != nil {
				return err
			}
			zones[i] = zone
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// The fallback zone carries id 0 and must stay last so every located
	// zone is consulted first; the backend already orders the rest.
	sort.SliceStable(zones, func(a, b int) bool {
		return (zones[a].ID != 0) && (zones[b].ID == 0)
	})
	return zones, nil
}

func (c *Client) fetchZoneDetail(ctx context.Context, record zoneRecord) (pricing.Zone, error) {
	zone := pricing.Zone{ID: record.ID, Name: record.Name}

	var methods []methodRecord
	path := fmt.Sprintf("/shipping/zones/%d/methods", record.ID)
	if err := c.get(ctx, path, nil, &methods); err != nil {
		return pricing.Zone{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch zone methods")
	}
	for _, method := range methods {
		if converted, ok := method.toShippingMethod(); ok {
			zone.Methods = append(zone.Methods, converted)
		}
	}

	// The rest-of-world zone has no locations endpoint worth calling.
	if record.ID != 0 {
		var locations []locationRecord
		path = fmt.Sprintf("/shipping/zones/%d/locations", record.ID)
		if err := c.get(ctx, path, nil, &locations); err != nil {
			return pricing.Zone{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch zone locations")
		}
		for _, location := range locations {
			if converted, ok := toLocation(location); ok {
				zone.Locations = append(zone.Locations, converted)
			}
		}
	}

	return zone, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.consumerKey != "" {
		req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commerce request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("commerce request %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
