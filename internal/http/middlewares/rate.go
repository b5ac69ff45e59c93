package middlewares

import (
	"net/http"
	"strconv"

	"github.com/dropDatabas3/accessway/internal/http/errors"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
	"github.com/dropDatabas3/accessway/internal/rate"
)

// RateKeyFunc deriva la key de rate limiting de un request.
type RateKeyFunc func(r *http.Request) string

// IPPathRateKey: IP + path, sin leer el body. Separa los límites por
// endpoint (login de cliente vs login de admin) sin depender del contenido.
func IPPathRateKey(r *http.Request) string {
	return clientIP(r) + "|" + r.URL.Path
}

// WithRateLimit aplica un límite de ventana fija. Si el backend del limiter
// falla, el request pasa (fail-open): el rate limiting protege contra abuso,
// no es control de acceso.
func WithRateLimit(l rate.Limiter, keyFn RateKeyFunc) Middleware {
	if keyFn == nil {
		keyFn = IPPathRateKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := l.Allow(r.Context(), keyFn(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable, failing open",
					logger.Component("rate"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				secs := int64(res.RetryAfter.Seconds())
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
