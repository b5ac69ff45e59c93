// Package admin implements the admin CRUD services.
package admin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dropDatabas3/accessway/internal/cache"
	dto "github.com/dropDatabas3/accessway/internal/http/dto/admin"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
	"github.com/dropDatabas3/accessway/internal/security/password"
	"github.com/dropDatabas3/accessway/internal/store/core"
	"github.com/dropDatabas3/accessway/internal/validation"
	"github.com/google/uuid"
)

// Service errors shared by the admin services.
var (
	ErrInvalidEmail   = fmt.Errorf("invalid email")
	ErrMissingFields  = fmt.Errorf("missing required fields")
	ErrEmailTaken     = fmt.Errorf("email already in use")
	ErrDomainTaken    = fmt.Errorf("domain already registered")
	ErrNotFound       = fmt.Errorf("not found")
	ErrInvalidRole    = fmt.Errorf("role must be admin or super_admin")
	ErrInvalidDomain  = fmt.Errorf("invalid domain")
	ErrDependency     = fmt.Errorf("backing store unavailable")
	ErrLastSuperAdmin = fmt.Errorf("cannot remove the last super_admin")
	ErrWeakPassword   = fmt.Errorf("password too short")
)

const minPasswordLen = 8

// ClientsService maneja el CRUD de clientes del widget.
type ClientsService struct {
	repo   core.ClientRepository
	hasher *password.Hasher
	cache  *cache.Cache
}

func NewClientsService(repo core.ClientRepository, hasher *password.Hasher, c *cache.Cache) *ClientsService {
	return &ClientsService{repo: repo, hasher: hasher, cache: c}
}

// Create registra un cliente nuevo y genera su API key (visible una sola vez).
func (s *ClientsService) Create(ctx context.Context, req dto.CreateClientRequest) (*dto.CreatedClientResponse, error) {
	email := validation.NormalizeEmail(req.Email)
	if email == "" || req.CompanyName == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, ErrDependency
	}
	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, ErrDependency
	}

	c := &core.Client{
		ID:           uuid.NewString(),
		Email:        email,
		CompanyName:  req.CompanyName,
		PasswordHash: hash,
		APIKey:       apiKey,
		SiteIDs:      req.SiteIDs,
		Settings:     req.Settings,
		IsActive:     true,
	}
	if err := s.repo.CreateClient(ctx, c); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrEmailTaken
		}
		logger.From(ctx).Error("client create failed", logger.Err(err))
		return nil, ErrDependency
	}

	resp := dto.ToClientResponse(c)
	return &dto.CreatedClientResponse{ClientResponse: resp, APIKey: apiKey}, nil
}

func (s *ClientsService) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	out := dto.ToClientResponse(c)
	return &out, nil
}

func (s *ClientsService) List(ctx context.Context, limit, offset int) ([]dto.ClientResponse, error) {
	rows, err := s.repo.ListClients(ctx, limit, offset)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	out := make([]dto.ClientResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToClientResponse(&rows[i]))
	}
	return out, nil
}

// Update aplica un update parcial y invalida las entradas cacheadas del cliente.
func (s *ClientsService) Update(ctx context.Context, id string, req dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	upd := core.ClientUpdate{
		CompanyName: req.CompanyName,
		SiteIDs:     req.SiteIDs,
		Settings:    req.Settings,
		IsActive:    req.IsActive,
	}
	if req.Email != nil {
		email := validation.NormalizeEmail(*req.Email)
		if !validation.ValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		upd.Email = &email
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			return nil, ErrWeakPassword
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, ErrDependency
		}
		upd.PasswordHash = &hash
	}

	c, err := s.repo.UpdateClient(ctx, id, upd)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	s.invalidate(id)

	out := dto.ToClientResponse(c)
	return &out, nil
}

func (s *ClientsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	s.invalidate(id)
	return nil
}

func (s *ClientsService) invalidate(id string) {
	if s.cache != nil {
		s.cache.Delete("client:" + id)
		s.cache.DeletePattern("client:" + id + ":*")
		s.cache.DeletePattern("widget:cfg:*")
	}
}

// generateAPIKey crea una API key opaca (32 bytes hex).
func generateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "awk_" + hex.EncodeToString(b), nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, core.ErrConflict):
		return ErrEmailTaken
	default:
		return ErrDependency
	}
}
