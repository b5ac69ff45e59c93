package pg

import (
	"context"

	"github.com/dropDatabas3/accessway/internal/store/core"
)

func (s *Store) InsertTelemetryEvent(ctx context.Context, ev *core.TelemetryEvent) error {
	const q = `
		INSERT INTO telemetry_events (id, client_id, site_id, event, domain, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`
	_, err := s.pool.Exec(ctx, q, ev.ID, ev.ClientID, ev.SiteID, ev.Event, ev.Domain)
	return mapErr(err)
}

func (s *Store) TelemetryStats(ctx context.Context, f core.StatsFilter) ([]core.StatRow, error) {
	// Filtros opcionales como parámetros fijos: cada condición usa su $n y
	// se desactiva con NULL, evitando armar SQL por concatenación.
	const q = `
		SELECT event, COALESCE(site_id, ''), date_trunc('day', created_at) AS day, COUNT(*)
		FROM telemetry_events
		WHERE ($1::text IS NULL OR client_id = $1)
		  AND ($2::text IS NULL OR site_id = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at < $4)
		GROUP BY event, site_id, day
		ORDER BY day DESC, event`
	rows, err := s.pool.Query(ctx, q, f.ClientID, f.SiteID, f.From, f.To)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.StatRow
	for rows.Next() {
		var r core.StatRow
		if err := rows.Scan(&r.Event, &r.SiteID, &r.Day, &r.Count); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, r)
	}
	return out, mapErr(rows.Err())
}
