package admin

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/accessway/internal/http/dto/admin"
	"github.com/dropDatabas3/accessway/internal/store/core"
)

// StatsService agrega la telemetría del widget para el panel admin.
type StatsService struct {
	repo core.TelemetryRepository
}

func NewStatsService(repo core.TelemetryRepository) *StatsService {
	return &StatsService{repo: repo}
}

// Query acepta filtros opcionales; strings vacíos y fechas cero se ignoran.
func (s *StatsService) Query(ctx context.Context, clientID, siteID string, from, to time.Time) (*dto.StatsResponse, error) {
	var f core.StatsFilter
	if clientID != "" {
		f.ClientID = &clientID
	}
	if siteID != "" {
		f.SiteID = &siteID
	}
	if !from.IsZero() {
		f.From = &from
	}
	if !to.IsZero() {
		f.To = &to
	}

	rows, err := s.repo.TelemetryStats(ctx, f)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	out := dto.StatsResponse{Rows: make([]dto.StatRowResponse, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.StatRowResponse{
			Event:  r.Event,
			SiteID: r.SiteID,
			Day:    r.Day,
			Count:  r.Count,
		})
	}
	return &out, nil
}
