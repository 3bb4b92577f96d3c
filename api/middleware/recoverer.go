package middleware

import (
	"fmt"
	"net/http"

	"github.com/olivara/storefront-backend/api/responses"
	pkgerrors "github.com/olivara/storefront-backend/pkg/errors"
	"github.com/olivara/storefront-backend/pkg/logger"
)

// Recoverer turns a handler panic into a 500 instead of dropping the
// connection, logging the panic value and the route that tripped it.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{
							"panic": rec,
							"path":  r.URL.Path,
						})
						logg.Error(ctx, "panic.recovered", err)
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
