// Package widget contiene los controllers públicos del widget.
package widget

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/accessway/internal/http/dto/widget"
	httperrors "github.com/dropDatabas3/accessway/internal/http/errors"
	"github.com/dropDatabas3/accessway/internal/http/helpers"
	"github.com/dropDatabas3/accessway/internal/http/middlewares"
	svc "github.com/dropDatabas3/accessway/internal/http/services/widget"
)

// Controller maneja los endpoints públicos del widget.
type Controller struct {
	service *svc.Service
}

func NewController(service *svc.Service) *Controller {
	return &Controller{service: service}
}

// Config maneja GET /v1/widget/config?siteId=
func (c *Controller) Config(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Config(r.Context(), r.URL.Query().Get("siteId"))
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingSiteID):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("siteId es obligatorio"))
		case errors.Is(err, svc.ErrUnknownSite):
			httperrors.WriteError(w, httperrors.ErrNotFound)
		default:
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Telemetry maneja POST /v1/widget/telemetry. Responde 202 aunque la
// escritura falle (ingesta fail-open).
func (c *Controller) Telemetry(w http.ResponseWriter, r *http.Request) {
	var req dto.TelemetryRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	domain := ""
	if res, ok := middlewares.GetDomainResult(r.Context()); ok {
		domain = res.Domain
	}

	resp, err := c.service.Telemetry(r.Context(), req, domain)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("event es obligatorio"))
		return
	}
	helpers.WriteJSON(w, http.StatusAccepted, resp)
}
