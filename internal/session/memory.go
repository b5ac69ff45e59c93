package session

import (
	"context"
	"sync"
	"time"

	"github.com/dropDatabas3/accessway/internal/store/core"
)

// memoryRegistry es un Registry en memoria para desarrollo y tests.
type memoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]core.Session
}

// NewMemory crea un Registry en memoria.
func NewMemory() Registry {
	return &memoryRegistry{entries: make(map[string]core.Session)}
}

func (r *memoryRegistry) Record(ctx context.Context, e core.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[e.TokenDigest]; dup {
		return core.ErrConflict
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	r.entries[e.TokenDigest] = e
	return nil
}

func (r *memoryRegistry) Revoke(ctx context.Context, tokenDigest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, tokenDigest)
	return nil
}

func (r *memoryRegistry) Exists(ctx context.Context, tokenDigest string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[tokenDigest]
	return ok, nil
}

func (r *memoryRegistry) SweepExpired(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, e := range r.entries {
		if e.ExpiresAt.Before(now) {
			delete(r.entries, k)
			n++
		}
	}
	return n, nil
}
