// Package widget implements the public widget endpoints: config
// delivery and telemetry ingestion. Both are domain-gated and must
// keep working when the backing store is down (fail-open).
package widget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/accessway/internal/cache"
	dto "github.com/dropDatabas3/accessway/internal/http/dto/widget"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
	"github.com/dropDatabas3/accessway/internal/store/core"
	"github.com/google/uuid"
)

// Service errors
var (
	ErrMissingSiteID = fmt.Errorf("siteId is required")
	ErrMissingEvent  = fmt.Errorf("event is required")
	ErrUnknownSite   = fmt.Errorf("unknown siteId")
	ErrDependency    = fmt.Errorf("backing store unavailable")
)

const configCacheTTL = 5 * time.Minute

// Service atiende los endpoints públicos del widget.
type Service struct {
	clients   core.ClientRepository
	telemetry core.TelemetryRepository
	cache     *cache.Cache
}

func NewService(clients core.ClientRepository, telemetry core.TelemetryRepository, c *cache.Cache) *Service {
	return &Service{clients: clients, telemetry: telemetry, cache: c}
}

// Config devuelve la configuración del widget para un siteId. Pasa por el
// response cache; ante caída del store se sirve la copia stale si existe.
func (s *Service) Config(ctx context.Context, siteID string) (*dto.ConfigResponse, error) {
	if siteID == "" {
		return nil, ErrMissingSiteID
	}
	key := "widget:cfg:" + siteID

	if v, ok := s.cacheGet(key, false); ok {
		return v, nil
	}

	client, err := s.clients.GetClientBySiteID(ctx, siteID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUnknownSite
		}
		logger.From(ctx).Warn("widget config lookup failed",
			logger.SiteID(siteID), logger.Err(err))
		if v, ok := s.cacheGet(key, true); ok {
			return v, nil
		}
		return nil, ErrDependency
	}
	if !client.IsActive {
		return nil, ErrUnknownSite
	}

	resp := &dto.ConfigResponse{
		SiteID:      siteID,
		CompanyName: client.CompanyName,
		Settings:    client.Settings,
	}
	if s.cache != nil {
		s.cache.Set(key, resp, configCacheTTL)
	}
	return resp, nil
}

// Telemetry ingesta un evento de uso. La escritura es fail-open: si el
// store falla igual respondemos aceptado, el evento se pierde.
func (s *Service) Telemetry(ctx context.Context, req dto.TelemetryRequest, domain string) (*dto.TelemetryResponse, error) {
	if req.Event == "" {
		return nil, ErrMissingEvent
	}

	ev := &core.TelemetryEvent{
		ID:        uuid.NewString(),
		SiteID:    req.SiteID,
		Event:     req.Event,
		Domain:    domain,
		CreatedAt: time.Now().UTC(),
	}
	if req.SiteID != "" {
		if client, err := s.clients.GetClientBySiteID(ctx, req.SiteID); err == nil {
			ev.ClientID = &client.ID
		}
	}

	if err := s.telemetry.InsertTelemetryEvent(ctx, ev); err != nil {
		logger.From(ctx).Warn("telemetry insert failed (event dropped)",
			logger.SiteID(req.SiteID), logger.Err(err))
	}
	return &dto.TelemetryResponse{Accepted: true}, nil
}

func (s *Service) cacheGet(key string, allowStale bool) (*dto.ConfigResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(key, allowStale)
	if !ok {
		return nil, false
	}
	resp, ok := v.(*dto.ConfigResponse)
	return resp, ok
}
