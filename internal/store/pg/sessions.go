package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/accessway/internal/store/core"
)

func (s *Store) CreateSession(ctx context.Context, sess *core.Session) error {
	const q = `
		INSERT INTO sessions (token_digest, subject_id, expires_at, created_at, ip, user_agent)
		VALUES ($1, $2, $3, NOW(), $4, $5)`
	_, err := s.pool.Exec(ctx, q, sess.TokenDigest, sess.SubjectID, sess.ExpiresAt,
		sess.IP, sess.UserAgent)
	return mapErr(err)
}

// DeleteSession es idempotente: borrar un digest inexistente no es error
// (el logout debe poder repetirse).
func (s *Store) DeleteSession(ctx context.Context, tokenDigest string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token_digest = $1`, tokenDigest)
	return mapErr(err)
}

func (s *Store) SessionExists(ctx context.Context, tokenDigest string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE token_digest = $1)`, tokenDigest).
		Scan(&exists)
	return exists, mapErr(err)
}

// DeleteExpiredSessions es housekeeping: las entradas vencidas son inocuas
// (el exp del token manda) pero se barren para acotar la tabla.
func (s *Store) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, mapErr(err)
	}
	return ct.RowsAffected(), nil
}
