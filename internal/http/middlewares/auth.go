package middlewares

import (
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/accessway/internal/auth"
	"github.com/dropDatabas3/accessway/internal/http/errors"
)

// =================================================================================
// AUTHENTICATION MIDDLEWARES
// =================================================================================

// mapGateErr traduce los motivos de rechazo del gate a AppErrors HTTP.
func mapGateErr(err error) error {
	switch {
	case stderrors.Is(err, auth.ErrNoToken):
		return errors.ErrTokenMissing
	case stderrors.Is(err, auth.ErrInvalidToken):
		return errors.ErrTokenInvalid
	case stderrors.Is(err, auth.ErrRevoked):
		return errors.ErrSessionRevoked
	case stderrors.Is(err, auth.ErrNotActive):
		return errors.ErrAccountInactive
	default:
		return errors.ErrServiceUnavailable
	}
}

// RequireAuth valida Authorization: Bearer <token> contra el gate completo
// (firma, revocación, sujeto activo) y guarda el principal en el contexto.
func RequireAuth(gate *auth.Gate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := gate.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				errors.WriteError(w, mapGateErr(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin exige un principal admin (cualquier rol admin).
// Debe usarse después de RequireAuth.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			if !p.IsAdmin() {
				errors.WriteError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin exige rol super_admin. Debe usarse después de RequireAuth.
func RequireSuperAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			if !p.IsSuperAdmin() {
				errors.WriteError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireClient exige un principal de tipo cliente.
// Debe usarse después de RequireAuth.
func RequireClient() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			if !p.IsClient() {
				errors.WriteError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth intenta resolver el token pero NO falla si falta o es
// inválido: el request sigue anónimo. Para endpoints con comportamiento
// distinto según autenticación.
func OptionalAuth(gate *auth.Gate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, err := gate.Resolve(r.Context(), r.Header.Get("Authorization")); err == nil {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}
