package middlewares

import (
	"net/http"
	"runtime/debug"

	"github.com/dropDatabas3/accessway/internal/http/errors"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
)

// WithRecover convierte panics en 500 y loguea el stack.
// Debe ser el middleware más externo después de request ID.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.Path(r.URL.Path),
						logger.Any("panic", rec),
						logger.Any("stack", string(debug.Stack())),
					)
					errors.WriteError(w, errors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
