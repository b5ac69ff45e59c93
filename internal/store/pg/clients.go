package pg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dropDatabas3/accessway/internal/store/core"
)

const clientCols = `id, email, company_name, password_hash, api_key, site_ids, settings, is_active, last_login_at, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (*core.Client, error) {
	var (
		c        core.Client
		settings []byte
	)
	err := row.Scan(&c.ID, &c.Email, &c.CompanyName, &c.PasswordHash, &c.APIKey,
		&c.SiteIDs, &settings, &c.IsActive, &c.LastLoginAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if len(settings) > 0 {
		_ = json.Unmarshal(settings, &c.Settings)
	}
	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, c *core.Client) error {
	settings, err := json.Marshal(c.Settings)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO clients (id, email, company_name, password_hash, api_key, site_ids, settings, is_active, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at`
	err = s.pool.QueryRow(ctx, q, c.ID, c.Email, c.CompanyName, c.PasswordHash,
		c.APIKey, c.SiteIDs, settings, c.IsActive).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapErr(err)
}

func (s *Store) GetClientByID(ctx context.Context, id string) (*core.Client, error) {
	q := `SELECT ` + clientCols + ` FROM clients WHERE id = $1`
	return scanClient(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetClientByEmail(ctx context.Context, email string) (*core.Client, error) {
	q := `SELECT ` + clientCols + ` FROM clients WHERE email = LOWER($1)`
	return scanClient(s.pool.QueryRow(ctx, q, email))
}

func (s *Store) GetClientByAPIKey(ctx context.Context, apiKey string) (*core.Client, error) {
	q := `SELECT ` + clientCols + ` FROM clients WHERE api_key = $1`
	return scanClient(s.pool.QueryRow(ctx, q, apiKey))
}

func (s *Store) GetClientBySiteID(ctx context.Context, siteID string) (*core.Client, error) {
	q := `SELECT ` + clientCols + ` FROM clients WHERE $1 = ANY(site_ids) ORDER BY created_at LIMIT 1`
	return scanClient(s.pool.QueryRow(ctx, q, siteID))
}

func (s *Store) ListClients(ctx context.Context, limit, offset int) ([]core.Client, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT ` + clientCols + ` FROM clients ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateClient(ctx context.Context, id string, upd core.ClientUpdate) (*core.Client, error) {
	var b setBuilder
	if upd.Email != nil {
		b.add("email", *upd.Email)
	}
	if upd.CompanyName != nil {
		b.add("company_name", *upd.CompanyName)
	}
	if upd.PasswordHash != nil {
		b.add("password_hash", *upd.PasswordHash)
	}
	if upd.SiteIDs != nil {
		b.add("site_ids", *upd.SiteIDs)
	}
	if upd.Settings != nil {
		settings, err := json.Marshal(*upd.Settings)
		if err != nil {
			return nil, err
		}
		b.add("settings", settings)
	}
	if upd.IsActive != nil {
		b.add("is_active", *upd.IsActive)
	}
	if b.empty() {
		return s.GetClientByID(ctx, id)
	}
	b.addRaw("updated_at = NOW()")

	q, args := b.query("clients", "id", id, clientCols)
	return scanClient(s.pool.QueryRow(ctx, q, args...))
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) TouchClientLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE clients SET last_login_at = $2 WHERE id = $1`, id, at)
	return mapErr(err)
}
