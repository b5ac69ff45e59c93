package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter: fixed window en memoria, por proceso. Suficiente para
// desarrollo y tests; en multi-instancia usar RedisLimiter.
type MemoryLimiter struct {
	Max    int64
	Window time.Duration

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	start time.Time
	hits  int64
}

func NewMemoryLimiter(max int, win time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		Max:     int64(max),
		Window:  win,
		windows: make(map[string]*window),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || w.start.Before(winStart) {
		w = &window{start: winStart}
		l.windows[key] = w
	}
	w.hits++

	// poda oportunista de ventanas viejas
	if len(l.windows) > 4096 {
		for k, old := range l.windows {
			if old.start.Before(winStart) {
				delete(l.windows, k)
			}
		}
	}

	remaining := l.Max - w.hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     w.hits <= l.Max,
		Remaining:   remaining,
		CurrentHits: w.hits,
		WindowTTL:   w.start.Add(l.Window).Sub(now),
	}
	if !res.Allowed {
		res.RetryAfter = res.WindowTTL
	}
	return res, nil
}
