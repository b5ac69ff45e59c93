package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dropDatabas3/accessway/internal/store/core"
	rdb "github.com/redis/go-redis/v9"
)

// redisRegistry guarda cada entrada bajo prefix+digest con TTL = vida del
// token: Redis expira las entradas solo, así que SweepExpired es no-op.
type redisRegistry struct {
	c      *rdb.Client
	prefix string
}

// NewRedis crea un Registry sobre Redis.
func NewRedis(c *rdb.Client, prefix string) Registry {
	if prefix == "" {
		prefix = "sess:"
	}
	return &redisRegistry{c: c, prefix: prefix}
}

func (r *redisRegistry) key(digest string) string { return r.prefix + digest }

func (r *redisRegistry) Record(ctx context.Context, e core.Session) error {
	ttl := time.Until(e.ExpiresAt)
	if ttl <= 0 {
		return core.ErrInvalid
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	// NX: un digest duplicado es conflicto, igual que el unique de Postgres.
	ok, err := r.c.SetNX(ctx, r.key(e.TokenDigest), b, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrConflict
	}
	return nil
}

func (r *redisRegistry) Revoke(ctx context.Context, tokenDigest string) error {
	return r.c.Del(ctx, r.key(tokenDigest)).Err()
}

func (r *redisRegistry) Exists(ctx context.Context, tokenDigest string) (bool, error) {
	n, err := r.c.Exists(ctx, r.key(tokenDigest)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisRegistry) SweepExpired(ctx context.Context) (int64, error) {
	return 0, nil // Redis expira por TTL
}
