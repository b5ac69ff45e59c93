// Package session implementa el Session Registry: la lista de revocación
// server-side keyed por digest del token.
//
// Es independiente de la verificación criptográfica del token (defensa en
// profundidad: un token puede ser válido criptográficamente y aun así estar
// revocado). Política adoptada: hard revocation — cada request protegido
// consulta Exists además de verificar la firma.
package session

import (
	"context"
	"time"

	"github.com/dropDatabas3/accessway/internal/store/core"
)

// Registry persiste digests de tokens emitidos.
type Registry interface {
	// Record inserta la entrada. Un digest duplicado es condición de error
	// (los digests son únicos por construcción).
	Record(ctx context.Context, e core.Session) error

	// Revoke elimina la entrada. Revocar un digest inexistente es no-op
	// exitoso: el logout debe ser idempotente.
	Revoke(ctx context.Context, tokenDigest string) error

	// Exists consulta membresía (política hard-revocation).
	Exists(ctx context.Context, tokenDigest string) (bool, error)

	// SweepExpired elimina entradas vencidas. ExpiresAt es el fin de la
	// ventana de refresh, no el exp del access token: la entrada sobrevive
	// al token para que un token vencido siga siendo refrescable.
	SweepExpired(ctx context.Context) (int64, error)
}

// storeRegistry delega en el SessionRepository del backing store.
type storeRegistry struct {
	repo core.SessionRepository
}

// NewStore crea un Registry sobre el repositorio durable (Postgres).
func NewStore(repo core.SessionRepository) Registry {
	return &storeRegistry{repo: repo}
}

func (r *storeRegistry) Record(ctx context.Context, e core.Session) error {
	return r.repo.CreateSession(ctx, &e)
}

func (r *storeRegistry) Revoke(ctx context.Context, tokenDigest string) error {
	return r.repo.DeleteSession(ctx, tokenDigest)
}

func (r *storeRegistry) Exists(ctx context.Context, tokenDigest string) (bool, error) {
	return r.repo.SessionExists(ctx, tokenDigest)
}

func (r *storeRegistry) SweepExpired(ctx context.Context) (int64, error) {
	return r.repo.DeleteExpiredSessions(ctx, time.Now().UTC())
}
