package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olivara/storefront-backend/api/routes"
	checkoutsvc "github.com/olivara/storefront-backend/internal/checkout"
	instantsvc "github.com/olivara/storefront-backend/internal/instant"
	"github.com/olivara/storefront-backend/pkg/commerce"
	"github.com/olivara/storefront-backend/pkg/config"
	"github.com/olivara/storefront-backend/pkg/logger"
	"github.com/olivara/storefront-backend/pkg/metrics"
	"github.com/olivara/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	commerceClient, err := commerce.NewClient(cfg.Commerce, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap commerce client", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, coupon rate limiting disabled")
	}

	pricingMetrics := metrics.NewPricingMetrics(prometheus.DefaultRegisterer)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Source:         commerceClient,
		Logger:         logg,
		Metrics:        pricingMetrics,
		ConfigCacheTTL: cfg.Pricing.ConfigCacheTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	estimator := instantsvc.NewEstimator()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, commerceClient, checkoutService, estimator),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
