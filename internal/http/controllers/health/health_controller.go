// Package health contiene los endpoints de liveness/readiness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/accessway/internal/http/helpers"
)

// Pinger chequea la conectividad de una dependencia.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller expone /healthz y /readyz.
type Controller struct {
	deps map[string]Pinger
}

// NewController recibe las dependencias a chequear en readiness
// (el store, redis si está configurado).
func NewController(deps map[string]Pinger) *Controller {
	return &Controller{deps: deps}
}

// Healthz maneja GET /healthz: el proceso está vivo.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz: 200 sólo si todas las dependencias responden.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(c.deps))
	for name, dep := range c.deps {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	helpers.WriteJSON(w, status, checks)
}
