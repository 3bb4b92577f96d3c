package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/olivara/storefront-backend/api/responses"
	"github.com/olivara/storefront-backend/pkg/config"
	pkgerrors "github.com/olivara/storefront-backend/pkg/errors"
	"github.com/olivara/storefront-backend/pkg/logger"
)

// Pinger is the dependency health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Olivara-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the backing dependencies. A nil pinger in the map is
// treated as not configured and skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Olivara-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		statuses := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				statuses[name] = "not_configured"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				statuses[name] = "down"
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable").WithDetails(statuses))
				return
			}
			statuses[name] = "up"
		}
		statuses["status"] = "ready"

		responses.WriteSuccess(w, statuses)
	}
}
