// Package rate implementa rate limiting de ventana fija para los endpoints
// de login (keyed por IP+path). Backend Redis en producción, memoria en dev.
package rate

import (
	"context"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Result es el veredicto de un hit contra la ventana actual.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

// Limiter decide si un hit con la key dada entra en la ventana.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter cuenta hits por ventana fija: una key por (key, ventana),
// INCR + EXPIRE NX en un solo pipeline. La ventana se alinea al reloj
// (Truncate), así todos los nodos comparten el mismo corte.
type RedisLimiter struct {
	client *rdb.Client
	prefix string
	max    int64
	window time.Duration
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{client: client, prefix: prefix, max: int64(max), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := time.Now().UTC().Truncate(l.window)
	winEnd := winStart.Add(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, winStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// EXPIRE NX: sólo el primer hit de la ventana fija el TTL.
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	hits := incr.Val()
	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     hits <= l.max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   time.Until(winEnd),
	}
	if !res.Allowed {
		res.RetryAfter = time.Until(winEnd)
		if res.RetryAfter <= 0 {
			res.RetryAfter = time.Second
		}
	}
	return res, nil
}
