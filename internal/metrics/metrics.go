// Package metrics registra los collectors Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins cuenta intentos de login por tipo de sujeto y resultado.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accessway",
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts by subject type and outcome.",
	}, []string{"subject", "outcome"})

	// TokenVerifications cuenta verificaciones de token por resultado.
	TokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accessway",
		Subsystem: "auth",
		Name:      "token_verifications_total",
		Help:      "Bearer token verifications by outcome.",
	}, []string{"outcome"})

	// DomainGateDecisions cuenta decisiones del gate de dominios.
	// El valor "fail_open" permite detectar errores de infraestructura
	// que se están tolerando (decisión deliberada, ver domaingate).
	DomainGateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accessway",
		Subsystem: "domaingate",
		Name:      "decisions_total",
		Help:      "Domain allow-list decisions (allowed, denied, fail_open).",
	}, []string{"decision"})

	// CacheHits / CacheMisses del response cache por tipo de acceso.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accessway",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Response cache hits (fresh or stale).",
	}, []string{"kind"})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "accessway",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Response cache misses.",
	})

	// HTTPRequests registra requests por método, ruta y status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accessway",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration registra la latencia por ruta.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "accessway",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)
