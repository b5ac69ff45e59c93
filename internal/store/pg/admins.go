package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/accessway/internal/store/core"
)

const adminCols = `id, email, password_hash, role, is_active, last_login_at, created_at, updated_at`

func scanAdmin(row interface{ Scan(...any) error }) (*core.AdminUser, error) {
	var a core.AdminUser
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive,
		&a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (s *Store) CreateAdmin(ctx context.Context, a *core.AdminUser) error {
	const q = `
		INSERT INTO admin_users (id, email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q, a.ID, a.Email, a.PasswordHash, a.Role, a.IsActive).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return mapErr(err)
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*core.AdminUser, error) {
	q := `SELECT ` + adminCols + ` FROM admin_users WHERE id = $1`
	return scanAdmin(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*core.AdminUser, error) {
	q := `SELECT ` + adminCols + ` FROM admin_users WHERE email = LOWER($1)`
	return scanAdmin(s.pool.QueryRow(ctx, q, email))
}

func (s *Store) ListAdmins(ctx context.Context, limit, offset int) ([]core.AdminUser, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT ` + adminCols + ` FROM admin_users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.AdminUser
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateAdmin(ctx context.Context, id string, upd core.AdminUpdate) (*core.AdminUser, error) {
	var b setBuilder
	if upd.Email != nil {
		b.add("email", *upd.Email)
	}
	if upd.PasswordHash != nil {
		b.add("password_hash", *upd.PasswordHash)
	}
	if upd.Role != nil {
		b.add("role", *upd.Role)
	}
	if upd.IsActive != nil {
		b.add("is_active", *upd.IsActive)
	}
	if b.empty() {
		return s.GetAdminByID(ctx, id)
	}
	b.addRaw("updated_at = NOW()")

	q, args := b.query("admin_users", "id", id, adminCols)
	return scanAdmin(s.pool.QueryRow(ctx, q, args...))
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) TouchAdminLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE admin_users SET last_login_at = $2 WHERE id = $1`, id, at)
	return mapErr(err)
}

func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n)
	return n, mapErr(err)
}

func (s *Store) CountActiveSuperAdmins(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM admin_users WHERE role = $1 AND is_active = TRUE`
	var n int64
	err := s.pool.QueryRow(ctx, q, core.RoleSuperAdmin).Scan(&n)
	return n, mapErr(err)
}
