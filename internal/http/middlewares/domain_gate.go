package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/accessway/internal/domaingate"
	"github.com/dropDatabas3/accessway/internal/http/errors"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
)

// WithDomainGate evalúa el request contra la allow-list de dominios.
// Los denegados reciben 403; Allowed y FailOpenAllowed pasan, y la decisión
// queda en el contexto para que los handlers la consulten (telemetry guarda
// el dominio evaluado).
func WithDomainGate(gate *domaingate.Gate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := gate.Check(r.Context(),
				r.Header.Get("Origin"),
				r.Header.Get("Referer"),
				r.Host,
			)
			if !res.Permitted() {
				logger.From(r.Context()).Info("domain denied",
					logger.Component("domaingate"), logger.Domain(res.Domain))
				errors.WriteError(w, errors.ErrDomainNotAllowed)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithDomainResult(r.Context(), res)))
		})
	}
}
