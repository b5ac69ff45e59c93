package admin

import (
	"context"
	"errors"

	"github.com/dropDatabas3/accessway/internal/domaingate"
	dto "github.com/dropDatabas3/accessway/internal/http/dto/admin"
	"github.com/dropDatabas3/accessway/internal/store/core"
	"github.com/dropDatabas3/accessway/internal/validation"
	"github.com/google/uuid"
)

// DomainsService maneja el CRUD de la allow-list de dominios.
// Cada escritura invalida la lista cacheada que consume el domain gate.
type DomainsService struct {
	repo core.DomainRepository
	gate *domaingate.Gate
}

func NewDomainsService(repo core.DomainRepository, gate *domaingate.Gate) *DomainsService {
	return &DomainsService{repo: repo, gate: gate}
}

// Create agrega un dominio normalizado (lowercase, sin esquema/puerto/path).
func (s *DomainsService) Create(ctx context.Context, req dto.CreateDomainRequest, createdBy string) (*dto.DomainResponse, error) {
	domain := validation.NormalizeDomain(req.Domain)
	if domain == "" {
		return nil, ErrInvalidDomain
	}

	d := &core.AllowedDomain{
		ID:          uuid.NewString(),
		Domain:      domain,
		Description: req.Description,
		IsActive:    true,
		CreatedBy:   createdBy,
	}
	if err := s.repo.CreateDomain(ctx, d); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrDomainTaken
		}
		return nil, ErrDependency
	}
	s.invalidate()

	out := dto.ToDomainResponse(d)
	return &out, nil
}

func (s *DomainsService) List(ctx context.Context) ([]dto.DomainResponse, error) {
	rows, err := s.repo.ListDomains(ctx, false)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	out := make([]dto.DomainResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToDomainResponse(&rows[i]))
	}
	return out, nil
}

func (s *DomainsService) Update(ctx context.Context, id string, req dto.UpdateDomainRequest) (*dto.DomainResponse, error) {
	upd := core.DomainUpdate{
		Description: req.Description,
		IsActive:    req.IsActive,
	}
	if req.Domain != nil {
		domain := validation.NormalizeDomain(*req.Domain)
		if domain == "" {
			return nil, ErrInvalidDomain
		}
		upd.Domain = &domain
	}

	d, err := s.repo.UpdateDomain(ctx, id, upd)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrDomainTaken
		}
		return nil, mapStoreErr(err)
	}
	s.invalidate()

	out := dto.ToDomainResponse(d)
	return &out, nil
}

func (s *DomainsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteDomain(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	s.invalidate()
	return nil
}

func (s *DomainsService) invalidate() {
	if s.gate != nil {
		s.gate.Invalidate()
	}
}
