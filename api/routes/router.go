package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olivara/storefront-backend/api/controllers"
	checkoutcontrollers "github.com/olivara/storefront-backend/api/controllers/checkout"
	instantcontrollers "github.com/olivara/storefront-backend/api/controllers/instant"
	"github.com/olivara/storefront-backend/api/middleware"
	checkoutsvc "github.com/olivara/storefront-backend/internal/checkout"
	instantsvc "github.com/olivara/storefront-backend/internal/instant"
	"github.com/olivara/storefront-backend/pkg/commerce"
	"github.com/olivara/storefront-backend/pkg/config"
	"github.com/olivara/storefront-backend/pkg/logger"
	"github.com/olivara/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	commerceClient *commerce.Client,
	checkoutService checkoutsvc.Service,
	estimator *instantsvc.Estimator,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	couponPolicy := middleware.NewCouponRateLimitPolicy(
		cfg.CouponRateLimit.Window,
		cfg.CouponRateLimit.IPLimit,
		cfg.CouponRateLimit.CodeLimit,
	)

	r.Route("/health", func(r chi.Router) {
		deps := map[string]controllers.Pinger{}
		if redisClient != nil {
			deps["redis"] = redisClient
		}
		if commerceClient != nil {
			deps["commerce"] = commerceClient
		}
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/estimate", checkoutcontrollers.Estimate(checkoutService, logg))
			if redisClient != nil {
				r.With(middleware.CouponRateLimit(couponPolicy, redisClient, logg)).
					Post("/coupon", checkoutcontrollers.ApplyCoupon(checkoutService, logg))
			} else {
				r.Post("/coupon", checkoutcontrollers.ApplyCoupon(checkoutService, logg))
			}
			r.Get("/countries", checkoutcontrollers.Countries(checkoutService, logg))
		})

		r.Get("/instant/estimate", instantcontrollers.Estimate(estimator, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/pricing/refresh", checkoutcontrollers.RefreshConfig(checkoutService, logg))
			if redisClient != nil {
				r.Post("/coupons/rate-limit/reset", checkoutcontrollers.ResetCouponRateLimit(redisClient, logg))
			}
		})
	})

	return r
}
