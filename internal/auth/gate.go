// Package auth implementa el Access Control Gate: resuelve un bearer token
// a un Principal chequeando firma, revocación y estado del registro durable.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/accessway/internal/metrics"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
	"github.com/dropDatabas3/accessway/internal/security/token"
	"github.com/dropDatabas3/accessway/internal/session"
	"github.com/dropDatabas3/accessway/internal/store/core"
)

// Motivos de rechazo del gate. El middleware los mapea a AppError.
var (
	ErrNoToken      = errors.New("no token")
	ErrInvalidToken = errors.New("invalid token")
	ErrRevoked      = errors.New("token revoked")
	ErrNotActive    = errors.New("subject not found or inactive")
	ErrDependency   = errors.New("dependency failure")
)

// Gate resuelve principals desde bearer tokens.
type Gate struct {
	issuer   *token.Issuer
	registry session.Registry
	admins   core.AdminRepository
	clients  core.ClientRepository
}

// NewGate crea el gate con sus colaboradores.
func NewGate(issuer *token.Issuer, registry session.Registry, admins core.AdminRepository, clients core.ClientRepository) *Gate {
	return &Gate{issuer: issuer, registry: registry, admins: admins, clients: clients}
}

// ExtractBearer extrae el token del header Authorization.
// El formato debe ser exactamente "Bearer <token>".
func ExtractBearer(authorization string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return "", false
	}
	raw := strings.TrimSpace(authorization[len(prefix):])
	if raw == "" || strings.ContainsAny(raw, " \t") {
		return "", false
	}
	return raw, true
}

// Resolve ejecuta la máquina de estados del gate:
//  1. extraer bearer  -> ErrNoToken
//  2. firma + expiry  -> ErrInvalidToken
//  3. revocación      -> ErrRevoked (política hard-revocation)
//  4. registro activo -> ErrNotActive
func (g *Gate) Resolve(ctx context.Context, authorization string) (*Principal, error) {
	raw, ok := ExtractBearer(authorization)
	if !ok {
		metrics.TokenVerifications.WithLabelValues("missing").Inc()
		return nil, ErrNoToken
	}

	claims := g.issuer.Verify(raw)
	if claims == nil {
		metrics.TokenVerifications.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidToken
	}

	exists, err := g.registry.Exists(ctx, token.Digest(raw))
	if err != nil {
		logger.From(ctx).Error("session registry lookup failed",
			logger.Layer("gate"), logger.Op("Resolve"), logger.Err(err))
		metrics.TokenVerifications.WithLabelValues("error").Inc()
		return nil, ErrDependency
	}
	if !exists {
		metrics.TokenVerifications.WithLabelValues("revoked").Inc()
		return nil, ErrRevoked
	}

	p, err := g.resolveSubject(ctx, claims)
	if err != nil {
		return nil, err
	}
	metrics.TokenVerifications.WithLabelValues("ok").Inc()
	return p, nil
}

// resolveSubject carga el registro durable del sujeto y exige isActive.
func (g *Gate) resolveSubject(ctx context.Context, claims *token.Claims) (*Principal, error) {
	switch claims.Type {
	case token.SubjectAdmin:
		a, err := g.admins.GetAdminByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				metrics.TokenVerifications.WithLabelValues("not_found").Inc()
				return nil, ErrNotActive
			}
			metrics.TokenVerifications.WithLabelValues("error").Inc()
			return nil, ErrDependency
		}
		if !a.IsActive {
			metrics.TokenVerifications.WithLabelValues("inactive").Inc()
			return nil, ErrNotActive
		}
		return &Principal{
			Kind:  token.SubjectAdmin,
			ID:    a.ID,
			Email: a.Email,
			Role:  a.Role,
		}, nil

	case token.SubjectClient:
		c, err := g.clients.GetClientByID(ctx, claims.ClientID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				metrics.TokenVerifications.WithLabelValues("not_found").Inc()
				return nil, ErrNotActive
			}
			metrics.TokenVerifications.WithLabelValues("error").Inc()
			return nil, ErrDependency
		}
		if !c.IsActive {
			metrics.TokenVerifications.WithLabelValues("inactive").Inc()
			return nil, ErrNotActive
		}
		return &Principal{
			Kind:        token.SubjectClient,
			ID:          c.ID,
			Email:       c.Email,
			CompanyName: c.CompanyName,
			SiteIDs:     c.SiteIDs,
		}, nil
	}

	metrics.TokenVerifications.WithLabelValues("invalid").Inc()
	return nil, ErrInvalidToken
}
