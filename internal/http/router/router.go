// Package router arma el árbol de rutas HTTP y el wiring de
// controllers, services y middlewares.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/accessway/internal/auth"
	"github.com/dropDatabas3/accessway/internal/cache"
	"github.com/dropDatabas3/accessway/internal/config"
	"github.com/dropDatabas3/accessway/internal/domaingate"
	admincontroller "github.com/dropDatabas3/accessway/internal/http/controllers/admin"
	authcontroller "github.com/dropDatabas3/accessway/internal/http/controllers/auth"
	healthcontroller "github.com/dropDatabas3/accessway/internal/http/controllers/health"
	widgetcontroller "github.com/dropDatabas3/accessway/internal/http/controllers/widget"
	httperrors "github.com/dropDatabas3/accessway/internal/http/errors"
	"github.com/dropDatabas3/accessway/internal/http/middlewares"
	adminservice "github.com/dropDatabas3/accessway/internal/http/services/admin"
	authservice "github.com/dropDatabas3/accessway/internal/http/services/auth"
	widgetservice "github.com/dropDatabas3/accessway/internal/http/services/widget"
	"github.com/dropDatabas3/accessway/internal/rate"
	"github.com/dropDatabas3/accessway/internal/security/password"
	"github.com/dropDatabas3/accessway/internal/security/token"
	"github.com/dropDatabas3/accessway/internal/session"
	"github.com/dropDatabas3/accessway/internal/store/core"
)

// Deps son los colaboradores ya construidos que el router necesita.
type Deps struct {
	Cfg        *config.Config
	Repo       core.Repository
	Cache      *cache.Cache
	Hasher     *password.Hasher
	Issuer     *token.Issuer
	Registry   session.Registry
	Limiter    rate.Limiter // nil = sin rate limiting
	Readiness  map[string]healthcontroller.Pinger
	DomainGate *domaingate.Gate
}

// New construye el handler HTTP completo.
func New(d Deps) http.Handler {
	accessGate := auth.NewGate(d.Issuer, d.Registry, d.Repo, d.Repo)

	authSvc := authservice.NewService(authservice.Deps{
		Hasher:   d.Hasher,
		Issuer:   d.Issuer,
		Registry: d.Registry,
		Admins:   d.Repo,
		Clients:  d.Repo,
	})
	clientsSvc := adminservice.NewClientsService(d.Repo, d.Hasher, d.Cache)
	domainsSvc := adminservice.NewDomainsService(d.Repo, d.DomainGate)
	usersSvc := adminservice.NewUsersService(d.Repo, d.Hasher)
	statsSvc := adminservice.NewStatsService(d.Repo)
	widgetSvc := widgetservice.NewService(d.Repo, d.Repo, d.Cache)

	authCtl := authcontroller.NewController(authSvc)
	clientsCtl := admincontroller.NewClientsController(clientsSvc)
	domainsCtl := admincontroller.NewDomainsController(domainsSvc)
	usersCtl := admincontroller.NewUsersController(usersSvc)
	statsCtl := admincontroller.NewStatsController(statsSvc)
	widgetCtl := widgetcontroller.NewController(widgetSvc)
	healthCtl := healthcontroller.NewController(d.Readiness)

	requireAuth := middlewares.RequireAuth(accessGate)
	requireAdmin := middlewares.RequireAdmin()
	noStore := middlewares.WithNoStore()

	var loginLimit func(http.Handler) http.Handler
	if d.Limiter != nil {
		loginLimit = middlewares.WithRateLimit(d.Limiter, middlewares.IPPathRateKey)
	} else {
		loginLimit = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()

	// Stack base: el orden importa (request ID antes del logging, recover
	// lo más externo posible).
	r.Use(middlewares.WithRequestID())
	r.Use(middlewares.WithRecover())
	r.Use(middlewares.WithLogging())
	r.Use(middlewares.WithSecurityHeaders())
	r.Use(middlewares.WithCORS(d.Cfg.Server.CORSAllowedOrigins))

	// Ops
	r.Get("/healthz", healthCtl.Healthz)
	r.Get("/readyz", healthCtl.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Público: widget (domain-gated)
	r.Route("/v1/widget", func(r chi.Router) {
		r.Use(middlewares.WithDomainGate(d.DomainGate))
		r.Get("/config", widgetCtl.Config)
		r.Post("/telemetry", widgetCtl.Telemetry)
	})

	// Auth
	r.Route("/v1/auth", func(r chi.Router) {
		r.Use(noStore)
		r.With(loginLimit).Post("/client/login", authCtl.ClientLogin)
		r.With(loginLimit).Post("/admin/login", authCtl.AdminLogin)
		r.Post("/refresh", authCtl.Refresh)
		r.Post("/logout", authCtl.Logout)
		r.With(requireAuth).Get("/me", authCtl.Me)
	})

	// Admin CRUD: todo detrás del gate + rol admin.
	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(noStore, requireAuth, requireAdmin)

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", clientsCtl.Create)
			r.Get("/", clientsCtl.List)
			r.Get("/{id}", clientsCtl.Get)
			r.Patch("/{id}", clientsCtl.Update)
			r.Delete("/{id}", clientsCtl.Delete)
		})
		r.Route("/domains", func(r chi.Router) {
			r.Post("/", domainsCtl.Create)
			r.Get("/", domainsCtl.List)
			r.Patch("/{id}", domainsCtl.Update)
			r.Delete("/{id}", domainsCtl.Delete)
		})
		r.Route("/users", func(r chi.Router) {
			r.Post("/", usersCtl.Create)
			r.Get("/", usersCtl.List)
			r.Get("/{id}", usersCtl.Get)
			r.Patch("/{id}", usersCtl.Update)
			r.Delete("/{id}", usersCtl.Delete)
		})
		r.Get("/stats", statsCtl.Query)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	return r
}
