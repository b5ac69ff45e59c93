// Package admin contiene los controllers del API administrativo.
package admin

import (
	"errors"
	"net/http"
	"strconv"

	dto "github.com/dropDatabas3/accessway/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/accessway/internal/http/errors"
	"github.com/dropDatabas3/accessway/internal/http/helpers"
	svc "github.com/dropDatabas3/accessway/internal/http/services/admin"
	"github.com/go-chi/chi/v5"
)

// ClientsController maneja el CRUD de clientes.
type ClientsController struct {
	service *svc.ClientsService
}

func NewClientsController(service *svc.ClientsService) *ClientsController {
	return &ClientsController{service: service}
}

// Create maneja POST /v1/admin/clients
func (c *ClientsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClientRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	resp, err := c.service.Create(r.Context(), req)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, resp)
}

// Get maneja GET /v1/admin/clients/{id}
func (c *ClientsController) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// List maneja GET /v1/admin/clients
func (c *ClientsController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	resp, err := c.service.List(r.Context(), limit, offset)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Update maneja PATCH /v1/admin/clients/{id}
func (c *ClientsController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateClientRequest
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

// Delete maneja DELETE /v1/admin/clients/{id}
func (c *ClientsController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Helpers compartidos por los controllers admin ───

func pagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)
	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("email inválido"))
	case errors.Is(err, svc.ErrInvalidDomain):
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("dominio inválido"))
	case errors.Is(err, svc.ErrInvalidRole):
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("rol inválido"))
	case errors.Is(err, svc.ErrWeakPassword):
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("password demasiado corta"))
	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
	case errors.Is(err, svc.ErrDomainTaken):
		httperrors.WriteError(w, httperrors.ErrAlreadyExists.WithDetail("dominio ya registrado"))
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	case errors.Is(err, svc.ErrLastSuperAdmin):
		httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("no se puede eliminar el último super_admin"))
	default:
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
	}
}
