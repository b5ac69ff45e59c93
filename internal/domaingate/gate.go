// Package domaingate decide si el sitio que llama puede usar los endpoints
// públicos del widget, según la allow-list de dominios.
//
// Política de fallas: un error de infraestructura al consultar el store se
// trata como PERMITIR (fail-open). Es un tradeoff deliberado de seguridad
// por disponibilidad — el widget no debe caerse por una DB degradada — y se
// expone como decisión tipada propia (FailOpenAllowed) más un counter
// Prometheus para que los operadores lo vean.
package domaingate

import (
	"context"
	"net/url"
	"strings"

	"github.com/dropDatabas3/accessway/internal/cache"
	"github.com/dropDatabas3/accessway/internal/metrics"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
	"github.com/dropDatabas3/accessway/internal/store/core"
	"github.com/dropDatabas3/accessway/internal/validation"
)

// Decision es el resultado tipado del gate: distingue "permitido
// legítimamente" de "permitido por falla de infraestructura".
type Decision string

const (
	Allowed         Decision = "allowed"
	Denied          Decision = "denied"
	FailOpenAllowed Decision = "fail_open"
)

// Result es la decisión más el contexto para diagnóstico.
type Result struct {
	Decision  Decision `json:"decision"`
	Domain    string   `json:"domain,omitempty"`     // candidato evaluado
	AllowList []string `json:"allow_list,omitempty"` // sólo en Denied
}

// Permitted indica si el request puede continuar (Allowed o FailOpenAllowed).
func (r Result) Permitted() bool { return r.Decision != Denied }

// CacheKey de la lista de dominios activos. El TTL fresh es el default
// del cache (5m salvo configuración).
const CacheKey = "allowed_domains"

// Gate evalúa requests contra la allow-list cacheada.
type Gate struct {
	domains core.DomainRepository
	cache   *cache.Cache
}

// New crea el gate. El cache es opcional (nil = consultar siempre el store).
func New(domains core.DomainRepository, c *cache.Cache) *Gate {
	return &Gate{domains: domains, cache: c}
}

// Check decide para los headers Origin/Referer/Host de un request.
//
// Algoritmo: cargar dominios activos (vía cache). Lista vacía permite
// incondicionalmente (modo bootstrap: un deployment sin dominios acepta
// todos los orígenes). Si no, extraer el hostname candidato — Origin,
// después Referer, después Host — y aceptar match exacto o de subdominio.
func (g *Gate) Check(ctx context.Context, origin, referer, host string) Result {
	allowed, err := g.loadDomains(ctx)
	if err != nil {
		logger.From(ctx).Warn("domain list unavailable, failing open",
			logger.Layer("gate"), logger.Component("domaingate"), logger.Err(err))
		metrics.DomainGateDecisions.WithLabelValues(string(FailOpenAllowed)).Inc()
		return Result{Decision: FailOpenAllowed}
	}

	if len(allowed) == 0 {
		metrics.DomainGateDecisions.WithLabelValues(string(Allowed)).Inc()
		return Result{Decision: Allowed}
	}

	candidate := CandidateHost(origin, referer, host)
	for _, d := range allowed {
		if validation.HostMatchesDomain(candidate, d) {
			metrics.DomainGateDecisions.WithLabelValues(string(Allowed)).Inc()
			return Result{Decision: Allowed, Domain: candidate}
		}
	}

	metrics.DomainGateDecisions.WithLabelValues(string(Denied)).Inc()
	return Result{Decision: Denied, Domain: candidate, AllowList: allowed}
}

// loadDomains devuelve los dominios activos normalizados, usando el cache
// con la ventana stale: si el store falla, un valor stale vigente se sirve
// antes de caer al fail-open.
func (g *Gate) loadDomains(ctx context.Context) ([]string, error) {
	if g.cache != nil {
		if v, ok := g.cache.Get(CacheKey, false); ok {
			return v.([]string), nil
		}
	}

	rows, err := g.domains.ListDomains(ctx, true)
	if err != nil {
		if g.cache != nil {
			if v, ok := g.cache.Get(CacheKey, true); ok {
				return v.([]string), nil
			}
		}
		return nil, err
	}

	out := make([]string, 0, len(rows))
	for _, d := range rows {
		if n := validation.NormalizeDomain(d.Domain); n != "" {
			out = append(out, n)
		}
	}
	if g.cache != nil {
		g.cache.Set(CacheKey, out, 0)
	}
	return out, nil
}

// Invalidate borra la lista cacheada (tras escrituras de dominios).
func (g *Gate) Invalidate() {
	if g.cache != nil {
		g.cache.Delete(CacheKey)
	}
}

// CandidateHost extrae el hostname candidato de los headers del request:
// Origin parseado como URL; si falta o no parsea, Referer; después Host.
// Siempre sin puerto y en minúsculas.
func CandidateHost(origin, referer, host string) string {
	if h := hostFromURL(origin); h != "" {
		return h
	}
	if h := hostFromURL(referer); h != "" {
		return h
	}
	return validation.NormalizeDomain(host)
}

func hostFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return validation.NormalizeDomain(u.Hostname())
}
