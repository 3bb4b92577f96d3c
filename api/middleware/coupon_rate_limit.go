package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/olivara/storefront-backend/api/responses"
	pkgerrors "github.com/olivara/storefront-backend/pkg/errors"
	"github.com/olivara/storefront-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// CouponRateLimitPolicy defines the throttling parameters for the coupon
// endpoints. Codes are throttled separately from IPs so a distributed
// guessing run against one code is still cut off.
type CouponRateLimitPolicy struct {
	window    time.Duration
	ipLimit   int
	codeLimit int
}

// NewCouponRateLimitPolicy builds a policy with the supplied window and limits.
func NewCouponRateLimitPolicy(window time.Duration, ipLimit, codeLimit int) CouponRateLimitPolicy {
	return CouponRateLimitPolicy{
		window:    window,
		ipLimit:   ipLimit,
		codeLimit: codeLimit,
	}
}

func (p CouponRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.codeLimit > 0)
}

// CouponRateLimit enforces per-IP and per-code counters for coupon lookups.
// Coupon codes are guessable, so unauthenticated probing gets the same
// treatment as credential stuffing.
func CouponRateLimit(policy CouponRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 && ip != "" {
				key := store.RateLimitKey(fmt.Sprintf("coupon:ip:%s", ip))
				if allowed, count, err := allow(ctx, store, key, policy.window, int64(policy.ipLimit)); err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				} else if !allowed {
					respondRateLimited(ctx, logg, w, policy, "ip", ip, "", count, policy.ipLimit)
					return
				}
			}

			if policy.codeLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				code := normalizeCouponCode(extractCouponCode(body))
				if code != "" {
					hash := hashValue(code)
					key := store.RateLimitKey(CouponCodeRateScope(code))
					if allowed, count, err := allow(ctx, store, key, policy.window, int64(policy.codeLimit)); err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					} else if !allowed {
						respondRateLimited(ctx, logg, w, policy, "code", "", hash, count, policy.codeLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CouponCodeRateScope returns the rate-limit scope the limiter counts a
// coupon code under. Support tooling uses it to clear a window early when a
// legitimately shared code gets throttled.
func CouponCodeRateScope(code string) string {
	return fmt.Sprintf("coupon:code:%s", hashValue(normalizeCouponCode(code)))
}

func allow(ctx context.Context, store rateLimiterStore, key string, window time.Duration, limit int64) (bool, int64, error) {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy CouponRateLimitPolicy, scope, ip, codeHash string, count int64, limit int) {
	if logg != nil {
		fields := map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		}
		if ip != "" {
			fields["ip"] = ip
		}
		if codeHash != "" {
			fields["code_hash"] = codeHash
		}
		logCtx := logg.WithFields(ctx, fields)
		logg.Warn(logCtx, "coupon.rate_limit.blocked")
	}
	err := pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded")
	responses.WriteError(ctx, nil, w, err)
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractCouponCode(payload []byte) string {
	var body struct {
		Code string `json:"coupon_code"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Code
}

func normalizeCouponCode(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
