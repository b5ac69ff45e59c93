package admin

import (
	"net/http"

	dto "github.com/dropDatabas3/accessway/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/accessway/internal/http/errors"
	"github.com/dropDatabas3/accessway/internal/http/helpers"
	"github.com/dropDatabas3/accessway/internal/http/middlewares"
	svc "github.com/dropDatabas3/accessway/internal/http/services/admin"
	"github.com/go-chi/chi/v5"
)

// UsersController maneja el CRUD de usuarios admin.
// Create, Delete y los updates sobre cuentas ajenas (o sobre rol/estado)
// exigen super_admin; un admin sólo puede editar su propia cuenta. Se
// chequea acá además del guard del router para no depender del wiring.
type UsersController struct {
	service *svc.UsersService
}

func NewUsersController(service *svc.UsersService) *UsersController {
	return &UsersController{service: service}
}

// Create maneja POST /v1/admin/users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	p := middlewares.GetPrincipal(r.Context())
	if p == nil || !p.IsSuperAdmin() {
		httperrors.WriteError(w, httperrors.ErrForbidden)
		return
	}

	var req dto.CreateAdminRequest
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

// Get maneja GET /v1/admin/users/{id}
func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// List maneja GET /v1/admin/users
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	resp, err := c.service.List(r.Context(), limit, offset)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Update maneja PATCH /v1/admin/users/{id}
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAdminRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	p := middlewares.GetPrincipal(r.Context())
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	// Un admin sólo puede editar su propia cuenta (email/password); tocar
	// cualquier otra cuenta, o rol/estado, exige super_admin.
	id := chi.URLParam(r, "id")
	if !p.IsSuperAdmin() && (id != p.ID || req.Role != nil || req.IsActive != nil) {
		httperrors.WriteError(w, httperrors.ErrForbidden)
		return
	}

	resp, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Delete maneja DELETE /v1/admin/users/{id}
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	p := middlewares.GetPrincipal(r.Context())
	if p == nil || !p.IsSuperAdmin() {
		httperrors.WriteError(w, httperrors.ErrForbidden)
		return
	}
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
