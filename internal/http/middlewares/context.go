package middlewares

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/accessway/internal/auth"
	"github.com/dropDatabas3/accessway/internal/domaingate"
	"github.com/dropDatabas3/accessway/internal/http/helpers"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyPrincipal
	ctxKeyDomainResult
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID devuelve el request ID inyectado por WithRequestID ("" si no hay).
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// WithPrincipal guarda el principal autenticado en el contexto.
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// GetPrincipal devuelve el principal autenticado (nil si el request es anónimo).
func GetPrincipal(ctx context.Context) *auth.Principal {
	if v, ok := ctx.Value(ctxKeyPrincipal).(*auth.Principal); ok {
		return v
	}
	return nil
}

// WithDomainResult guarda la decisión del domain gate en el contexto.
func WithDomainResult(ctx context.Context, res domaingate.Result) context.Context {
	return context.WithValue(ctx, ctxKeyDomainResult, res)
}

// GetDomainResult devuelve la decisión del domain gate para este request.
func GetDomainResult(ctx context.Context) (domaingate.Result, bool) {
	v, ok := ctx.Value(ctxKeyDomainResult).(domaingate.Result)
	return v, ok
}

func clientIP(r *http.Request) string {
	return helpers.ClientIP(r)
}
