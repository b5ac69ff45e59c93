// Package auth contiene los controllers de autenticación.
package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/accessway/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/accessway/internal/http/errors"
	"github.com/dropDatabas3/accessway/internal/http/helpers"
	"github.com/dropDatabas3/accessway/internal/http/middlewares"
	svc "github.com/dropDatabas3/accessway/internal/http/services/auth"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
)

// Controller maneja los endpoints de autenticación.
type Controller struct {
	service svc.Service
}

// NewController crea el controller de auth.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func sessionMeta(r *http.Request) svc.SessionMeta {
	return svc.SessionMeta{
		IP:        helpers.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// ClientLogin maneja POST /v1/auth/client/login
func (c *Controller) ClientLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ClientLogin"))

	var req dto.ClientLoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.service.ClientLogin(ctx, req, sessionMeta(r))
	if err != nil {
		log.Debug("client login rejected", logger.Err(err))
		writeAuthError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// AdminLogin maneja POST /v1/auth/admin/login
func (c *Controller) AdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AdminLogin"))

	var req dto.AdminLoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.service.AdminLogin(ctx, req, sessionMeta(r))
	if err != nil {
		log.Debug("admin login rejected", logger.Err(err))
		writeAuthError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Refresh maneja POST /v1/auth/refresh
func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Refresh(r.Context(), r.Header.Get("Authorization"), sessionMeta(r))
	if err != nil {
		writeAuthError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Logout maneja POST /v1/auth/logout. Siempre responde 200 {ok:true}.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	c.service.Logout(r.Context(), r.Header.Get("Authorization"))
	helpers.WriteJSON(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

// Me maneja GET /v1/auth/me. Requiere principal en contexto (RequireAuth).
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	p := middlewares.GetPrincipal(r.Context())
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MeResponse{
		Kind:        string(p.Kind),
		ID:          p.ID,
		Email:       p.Email,
		Role:        p.Role,
		CompanyName: p.CompanyName,
		SiteIDs:     p.SiteIDs,
	})
}

// writeAuthError traduce errores del service a AppErrors.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingCredentials),
		errors.Is(err, svc.ErrAmbiguousCredentials),
		errors.Is(err, svc.ErrMissingEmail),
		errors.Is(err, svc.ErrMissingPassword):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail(err.Error()))

	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)

	case errors.Is(err, svc.ErrSiteNotAllowed):
		httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("siteId fuera del scope del cliente"))

	case errors.Is(err, svc.ErrInvalidToken):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)

	case errors.Is(err, svc.ErrRevokedToken):
		httperrors.WriteError(w, httperrors.ErrSessionRevoked)

	default:
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
	}
}
