package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "olivara"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App             AppConfig
	Commerce        CommerceConfig
	Redis           RedisConfig
	Pricing         PricingConfig
	CouponRateLimit CouponRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Commerce.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OLIVARA_APP_ENV" required:"true"`
	Port         string `envconfig:"OLIVARA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OLIVARA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OLIVARA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CommerceConfig points at the external commerce backend that owns tax rates,
// shipping zones, coupons, and countries.
type CommerceConfig struct {
	BaseURL        string        `envconfig:"OLIVARA_COMMERCE_BASE_URL" required:"true"`
	ConsumerKey    string        `envconfig:"OLIVARA_COMMERCE_CONSUMER_KEY"`
	ConsumerSecret string        `envconfig:"OLIVARA_COMMERCE_CONSUMER_SECRET"`
	Timeout        time.Duration `envconfig:"OLIVARA_COMMERCE_TIMEOUT" default:"10s"`
	ZoneFetchLimit int           `envconfig:"OLIVARA_COMMERCE_ZONE_FETCH_LIMIT" default:"4"`
}

func (c CommerceConfig) validate() error {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("commerce base url %q is not an absolute url", c.BaseURL)
	}
	return nil
}

// HasCredentials reports whether backend credentials are configured. Without
// them the authoritative path degrades to conservative defaults.
func (c CommerceConfig) HasCredentials() bool {
	return strings.TrimSpace(c.ConsumerKey) != "" && strings.TrimSpace(c.ConsumerSecret) != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"OLIVARA_REDIS_URL"`
	Address      string        `envconfig:"OLIVARA_REDIS_ADDR"`
	Password     string        `envconfig:"OLIVARA_REDIS_PASSWORD"`
	DB           int           `envconfig:"OLIVARA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OLIVARA_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"OLIVARA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OLIVARA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OLIVARA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis target is configured. The coupon rate
// limiter is skipped without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// PricingConfig tunes the checkout pricing service.
type PricingConfig struct {
	ConfigCacheTTL time.Duration `envconfig:"OLIVARA_PRICING_CONFIG_CACHE_TTL" default:"15m"`
}

type CouponRateLimitConfig struct {
	Window    time.Duration `envconfig:"OLIVARA_COUPON_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit   int           `envconfig:"OLIVARA_COUPON_RATE_LIMIT_IP_LIMIT" default:"20"`
	CodeLimit int           `envconfig:"OLIVARA_COUPON_RATE_LIMIT_CODE_LIMIT" default:"10"`
}
