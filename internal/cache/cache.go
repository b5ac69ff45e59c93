// Package cache implementa el response cache efímero con ventana "stale".
//
// Cada entrada tiene dos horizontes: freshUntil (TTL del Set) y staleUntil
// (ventana fija de 30m). Entre ambos, el valor sólo se sirve si el caller
// opta explícitamente (allowStale). El cache es por proceso: reduce latencia
// pero nunca se usa para corrección; todo camino debe funcionar con el
// cache vacío.
package cache

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/accessway/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
)

// Ventanas por defecto.
const (
	DefaultTTL    = 5 * time.Minute
	StaleWindow   = 30 * time.Minute
	SweepInterval = 10 * time.Minute
)

// entry es inmutable una vez guardada; un Set con la misma key la
// reemplaza por completo.
type entry struct {
	value      any
	freshUntil time.Time
}

// Cache es el response cache por proceso.
// El sweep de entradas vencidas corre en background entre Start y Stop.
type Cache struct {
	c          *gocache.Cache
	defaultTTL time.Duration
	stale      time.Duration

	mu      sync.Mutex
	stopCh  chan struct{}
	started bool
}

// New crea un Cache con el TTL fresh por defecto dado (0 => DefaultTTL).
// El sweep no corre hasta llamar a Start.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	// cleanupInterval=0: sin janitor interno, el sweep es nuestro (Start/Stop).
	return &Cache{
		c:          gocache.New(StaleWindow, 0),
		defaultTTL: defaultTTL,
		stale:      StaleWindow,
	}
}

// Start arranca el sweep periódico que elimina entradas pasadas de staleUntil.
// Idempotente.
func (k *Cache) Start() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.started {
		return
	}
	k.started = true
	k.stopCh = make(chan struct{})
	go k.sweepLoop(k.stopCh)
}

// Stop detiene el sweep. Idempotente.
func (k *Cache) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.started {
		return
	}
	k.started = false
	close(k.stopCh)
}

func (k *Cache) sweepLoop(stop <-chan struct{}) {
	t := time.NewTicker(SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			k.c.DeleteExpired()
		case <-stop:
			return
		}
	}
}

// Set guarda value bajo key. freshUntil = now+ttl (ttl<=0 usa el default);
// staleUntil = now+StaleWindow, o now+ttl si el ttl es mayor — la entrada
// nunca expira antes de dejar de estar fresca (freshUntil <= staleUntil).
func (k *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = k.defaultTTL
	}
	horizon := k.stale
	if ttl > horizon {
		horizon = ttl
	}
	e := entry{value: value, freshUntil: time.Now().Add(ttl)}
	// go-cache expira la entrada en staleUntil; pasado ese punto Get la
	// trata como inexistente y el sweep la elimina.
	k.c.Set(key, e, horizon)
}

// Get devuelve el valor si está fresco, o si está dentro de la ventana
// stale y el caller lo permite.
func (k *Cache) Get(key string, allowStale bool) (any, bool) {
	v, ok := k.c.Get(key)
	if !ok {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	e := v.(entry)
	now := time.Now()
	if now.Before(e.freshUntil) {
		metrics.CacheHits.WithLabelValues("fresh").Inc()
		return e.value, true
	}
	if allowStale {
		metrics.CacheHits.WithLabelValues("stale").Inc()
		return e.value, true
	}
	metrics.CacheMisses.Inc()
	return nil, false
}

// Delete elimina una key (no-op si no existe).
func (k *Cache) Delete(key string) {
	k.c.Delete(key)
}

// DeletePattern elimina las keys que matchean un glob con un único '*'
// (p.ej. "client:*"). Usado para invalidación después de escrituras.
func (k *Cache) DeletePattern(glob string) {
	parts := strings.SplitN(glob, "*", 2)
	var re *regexp.Regexp
	if len(parts) == 1 {
		k.c.Delete(glob)
		return
	}
	re = regexp.MustCompile("^" + regexp.QuoteMeta(parts[0]) + ".*" + regexp.QuoteMeta(parts[1]) + "$")
	for key := range k.c.Items() {
		if re.MatchString(key) {
			k.c.Delete(key)
		}
	}
}

// Len devuelve la cantidad de entradas no vencidas (para tests/diagnóstico).
func (k *Cache) Len() int {
	return k.c.ItemCount()
}
