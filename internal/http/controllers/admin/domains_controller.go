package admin

import (
	"net/http"

	dto "github.com/dropDatabas3/accessway/internal/http/dto/admin"
	"github.com/dropDatabas3/accessway/internal/http/helpers"
	"github.com/dropDatabas3/accessway/internal/http/middlewares"
	svc "github.com/dropDatabas3/accessway/internal/http/services/admin"
	"github.com/go-chi/chi/v5"
)

// DomainsController maneja el CRUD de la allow-list de dominios.
type DomainsController struct {
	service *svc.DomainsService
}

func NewDomainsController(service *svc.DomainsService) *DomainsController {
	return &DomainsController{service: service}
}

// Create maneja POST /v1/admin/domains
func (c *DomainsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDomainRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	createdBy := ""
	if p := middlewares.GetPrincipal(r.Context()); p != nil {
		createdBy = p.ID
	}

	resp, err := c.service.Create(r.Context(), req, createdBy)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, resp)
}

// List maneja GET /v1/admin/domains
func (c *DomainsController) List(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.List(r.Context())
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Update maneja PATCH /v1/admin/domains/{id}
func (c *DomainsController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDomainRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	resp, err := c.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Delete maneja DELETE /v1/admin/domains/{id}
func (c *DomainsController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
