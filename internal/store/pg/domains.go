package pg

import (
	"context"

	"github.com/dropDatabas3/accessway/internal/store/core"
)

const domainCols = `id, domain, description, is_active, created_by, created_at, updated_at`

func scanDomain(row interface{ Scan(...any) error }) (*core.AllowedDomain, error) {
	var d core.AllowedDomain
	err := row.Scan(&d.ID, &d.Domain, &d.Description, &d.IsActive,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (s *Store) CreateDomain(ctx context.Context, d *core.AllowedDomain) error {
	const q = `
		INSERT INTO allowed_domains (id, domain, description, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q, d.ID, d.Domain, d.Description, d.IsActive, d.CreatedBy).
		Scan(&d.CreatedAt, &d.UpdatedAt)
	return mapErr(err)
}

func (s *Store) GetDomainByID(ctx context.Context, id string) (*core.AllowedDomain, error) {
	q := `SELECT ` + domainCols + ` FROM allowed_domains WHERE id = $1`
	return scanDomain(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) ListDomains(ctx context.Context, onlyActive bool) ([]core.AllowedDomain, error) {
	q := `SELECT ` + domainCols + ` FROM allowed_domains`
	if onlyActive {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY domain`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.AllowedDomain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateDomain(ctx context.Context, id string, upd core.DomainUpdate) (*core.AllowedDomain, error) {
	var b setBuilder
	if upd.Domain != nil {
		b.add("domain", *upd.Domain)
	}
	if upd.Description != nil {
		b.add("description", *upd.Description)
	}
	if upd.IsActive != nil {
		b.add("is_active", *upd.IsActive)
	}
	if b.empty() {
		return s.GetDomainByID(ctx, id)
	}
	b.addRaw("updated_at = NOW()")

	q, args := b.query("allowed_domains", "id", id, domainCols)
	return scanDomain(s.pool.QueryRow(ctx, q, args...))
}

func (s *Store) DeleteDomain(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM allowed_domains WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
