// Package auth implements the login, refresh and logout flows.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	authgate "github.com/dropDatabas3/accessway/internal/auth"
	dto "github.com/dropDatabas3/accessway/internal/http/dto/auth"
	"github.com/dropDatabas3/accessway/internal/metrics"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
	"github.com/dropDatabas3/accessway/internal/security/password"
	"github.com/dropDatabas3/accessway/internal/security/token"
	"github.com/dropDatabas3/accessway/internal/session"
	"github.com/dropDatabas3/accessway/internal/store/core"
	"github.com/dropDatabas3/accessway/internal/validation"
)

// SessionMeta is the client metadata recorded with each session entry.
type SessionMeta struct {
	IP        string
	UserAgent string
}

// Service defines the authentication flows.
type Service interface {
	ClientLogin(ctx context.Context, req dto.ClientLoginRequest, meta SessionMeta) (*dto.ClientLoginResponse, error)
	AdminLogin(ctx context.Context, req dto.AdminLoginRequest, meta SessionMeta) (*dto.AdminLoginResponse, error)
	Refresh(ctx context.Context, authorization string, meta SessionMeta) (*dto.RefreshResponse, error)
	Logout(ctx context.Context, authorization string)
}

// Service errors
var (
	ErrMissingCredentials   = fmt.Errorf("email/password or apiKey is required")
	ErrAmbiguousCredentials = fmt.Errorf("email/password and apiKey are mutually exclusive")
	ErrMissingEmail         = fmt.Errorf("email is required")
	ErrMissingPassword      = fmt.Errorf("password is required")
	ErrInvalidCredentials   = fmt.Errorf("invalid credentials")
	ErrSiteNotAllowed       = fmt.Errorf("siteId outside the client's allowed set")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrRevokedToken         = fmt.Errorf("token revoked")
	ErrDependency           = fmt.Errorf("backing store unavailable")
)

// Deps contains the service collaborators.
type Deps struct {
	Hasher   *password.Hasher
	Issuer   *token.Issuer
	Registry session.Registry
	Admins   core.AdminRepository
	Clients  core.ClientRepository
}

type service struct {
	hasher   *password.Hasher
	issuer   *token.Issuer
	registry session.Registry
	admins   core.AdminRepository
	clients  core.ClientRepository
}

// NewService creates the auth Service.
func NewService(d Deps) Service {
	return &service{
		hasher:   d.Hasher,
		issuer:   d.Issuer,
		registry: d.Registry,
		admins:   d.Admins,
		clients:  d.Clients,
	}
}

// ClientLogin authenticates a widget client with email/password XOR apiKey.
func (s *service) ClientLogin(ctx context.Context, req dto.ClientLoginRequest, meta SessionMeta) (*dto.ClientLoginResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("ClientLogin"))

	hasPassword := req.Email != "" || req.Password != ""
	hasAPIKey := req.APIKey != ""
	if !hasPassword && !hasAPIKey {
		return nil, ErrMissingCredentials
	}
	if hasPassword && hasAPIKey {
		return nil, ErrAmbiguousCredentials
	}

	var (
		client *core.Client
		err    error
	)
	if hasAPIKey {
		client, err = s.clients.GetClientByAPIKey(ctx, req.APIKey)
	} else {
		if req.Email == "" {
			return nil, ErrMissingEmail
		}
		if req.Password == "" {
			return nil, ErrMissingPassword
		}
		client, err = s.clients.GetClientByEmail(ctx, validation.NormalizeEmail(req.Email))
	}
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			metrics.Logins.WithLabelValues("client", "denied").Inc()
			return nil, ErrInvalidCredentials
		}
		log.Error("client lookup failed", logger.Err(err))
		return nil, ErrDependency
	}

	if hasPassword && !s.hasher.Verify(req.Password, client.PasswordHash) {
		metrics.Logins.WithLabelValues("client", "denied").Inc()
		return nil, ErrInvalidCredentials
	}
	if !client.IsActive {
		metrics.Logins.WithLabelValues("client", "denied").Inc()
		return nil, ErrInvalidCredentials
	}
	if req.SiteID != "" && len(client.SiteIDs) > 0 && !contains(client.SiteIDs, req.SiteID) {
		metrics.Logins.WithLabelValues("client", "denied").Inc()
		return nil, ErrSiteNotAllowed
	}

	claims := token.Claims{
		Type:     token.SubjectClient,
		ClientID: client.ID,
		Email:    client.Email,
	}
	signed, exp, err := s.issuer.Issue(claims, s.issuer.AccessTTL)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrDependency
	}
	if err := s.recordSession(ctx, signed, client.ID, meta); err != nil {
		return nil, ErrDependency
	}
	if err := s.clients.TouchClientLogin(ctx, client.ID, time.Now().UTC()); err != nil {
		// last_login es best-effort, no voltea el login
		log.Warn("touch last_login failed", logger.ClientID(client.ID), logger.Err(err))
	}

	metrics.Logins.WithLabelValues("client", "ok").Inc()
	log.Info("client login", logger.ClientID(client.ID))

	return &dto.ClientLoginResponse{
		Token:     signed,
		ExpiresIn: int64(time.Until(exp).Seconds()),
		Client: dto.ClientInfo{
			ID:          client.ID,
			Email:       client.Email,
			CompanyName: client.CompanyName,
			SiteIDs:     client.SiteIDs,
		},
	}, nil
}

// AdminLogin authenticates an admin user with email/password.
func (s *service) AdminLogin(ctx context.Context, req dto.AdminLoginRequest, meta SessionMeta) (*dto.AdminLoginResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("AdminLogin"))

	if req.Email == "" {
		return nil, ErrMissingEmail
	}
	if req.Password == "" {
		return nil, ErrMissingPassword
	}

	admin, err := s.admins.GetAdminByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			metrics.Logins.WithLabelValues("admin", "denied").Inc()
			return nil, ErrInvalidCredentials
		}
		log.Error("admin lookup failed", logger.Err(err))
		return nil, ErrDependency
	}
	if !s.hasher.Verify(req.Password, admin.PasswordHash) || !admin.IsActive {
		metrics.Logins.WithLabelValues("admin", "denied").Inc()
		return nil, ErrInvalidCredentials
	}

	claims := token.Claims{
		Type:   token.SubjectAdmin,
		UserID: admin.ID,
		Role:   admin.Role,
		Email:  admin.Email,
	}
	signed, exp, err := s.issuer.Issue(claims, s.issuer.AccessTTL)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrDependency
	}
	if err := s.recordSession(ctx, signed, admin.ID, meta); err != nil {
		return nil, ErrDependency
	}
	if err := s.admins.TouchAdminLogin(ctx, admin.ID, time.Now().UTC()); err != nil {
		log.Warn("touch last_login failed", logger.AdminID(admin.ID), logger.Err(err))
	}

	metrics.Logins.WithLabelValues("admin", "ok").Inc()
	log.Info("admin login", logger.AdminID(admin.ID))

	return &dto.AdminLoginResponse{
		Token:     signed,
		ExpiresIn: int64(time.Until(exp).Seconds()),
		Admin: dto.AdminInfo{
			ID:    admin.ID,
			Email: admin.Email,
			Role:  admin.Role,
		},
	}, nil
}

// Refresh mints a new token from an expired-or-valid one. The presented
// token's registry entry must still exist (a logged-out token cannot be
// refreshed); it is revoked and replaced by the new token's entry.
func (s *service) Refresh(ctx context.Context, authorization string, meta SessionMeta) (*dto.RefreshResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("Refresh"))

	raw, ok := authgate.ExtractBearer(authorization)
	if !ok {
		return nil, ErrInvalidToken
	}
	claims := s.issuer.VerifyAllowExpired(raw)
	if claims == nil {
		return nil, ErrInvalidToken
	}

	oldDigest := token.Digest(raw)
	exists, err := s.registry.Exists(ctx, oldDigest)
	if err != nil {
		log.Error("registry lookup failed", logger.Err(err))
		return nil, ErrDependency
	}
	if !exists {
		return nil, ErrRevokedToken
	}

	// El sujeto tiene que seguir activo para renovar.
	if err := s.requireActiveSubject(ctx, claims); err != nil {
		return nil, err
	}

	fresh := token.Claims{
		Type:     claims.Type,
		UserID:   claims.UserID,
		ClientID: claims.ClientID,
		Role:     claims.Role,
		Email:    claims.Email,
	}
	signed, exp, err := s.issuer.Issue(fresh, s.issuer.AccessTTL)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrDependency
	}

	if err := s.registry.Revoke(ctx, oldDigest); err != nil {
		log.Error("old session revoke failed", logger.Err(err))
		return nil, ErrDependency
	}
	if err := s.recordSession(ctx, signed, claims.SubjectID(), meta); err != nil {
		return nil, ErrDependency
	}

	log.Debug("token refreshed", logger.Subject(claims.SubjectID()))
	return &dto.RefreshResponse{
		Token:     signed,
		ExpiresIn: int64(time.Until(exp).Seconds()),
	}, nil
}

// Logout revokes the presented token's registry entry. Always succeeds:
// a malformed token or a store failure still yields a neutral response
// (deliberate fail-open, logout must be idempotent and non-blocking).
func (s *service) Logout(ctx context.Context, authorization string) {
	raw, ok := authgate.ExtractBearer(authorization)
	if !ok {
		return
	}
	if err := s.registry.Revoke(ctx, token.Digest(raw)); err != nil {
		logger.From(ctx).Warn("logout revoke failed (ignored)",
			logger.Layer("service"), logger.Component("auth"), logger.Err(err))
	}
}

func (s *service) requireActiveSubject(ctx context.Context, claims *token.Claims) error {
	switch claims.Type {
	case token.SubjectAdmin:
		a, err := s.admins.GetAdminByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return ErrInvalidCredentials
			}
			return ErrDependency
		}
		if !a.IsActive {
			return ErrInvalidCredentials
		}
	case token.SubjectClient:
		c, err := s.clients.GetClientByID(ctx, claims.ClientID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return ErrInvalidCredentials
			}
			return ErrDependency
		}
		if !c.IsActive {
			return ErrInvalidCredentials
		}
	default:
		return ErrInvalidToken
	}
	return nil
}

// recordSession registra el digest con vida = RefreshTTL, no la vida del
// access token: la entrada tiene que sobrevivir al exp del token para que
// el refresh de un token vencido funcione durante toda la ventana.
func (s *service) recordSession(ctx context.Context, signed, subjectID string, meta SessionMeta) error {
	now := time.Now().UTC()
	err := s.registry.Record(ctx, core.Session{
		TokenDigest: token.Digest(signed),
		SubjectID:   subjectID,
		ExpiresAt:   now.Add(s.issuer.RefreshTTL),
		CreatedAt:   now,
		IP:          meta.IP,
		UserAgent:   meta.UserAgent,
	})
	if err != nil {
		logger.From(ctx).Error("session record failed",
			logger.Layer("service"), logger.Component("auth"),
			logger.Subject(subjectID), logger.Err(err))
	}
	return err
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
