package core

import (
	"context"
	"time"
)

// AdminUpdate son los campos opcionales de un update parcial de admin.
// Cada campo presente se traduce a una cláusula SET explícita y
// parametrizada; nunca se concatena SQL con valores.
type AdminUpdate struct {
	Email        *string
	PasswordHash *string
	Role         *string
	IsActive     *bool
}

// ClientUpdate son los campos opcionales de un update parcial de cliente.
type ClientUpdate struct {
	Email        *string
	CompanyName  *string
	PasswordHash *string
	SiteIDs      *[]string
	Settings     *map[string]any
	IsActive     *bool
}

// DomainUpdate son los campos opcionales de un update parcial de dominio.
type DomainUpdate struct {
	Domain      *string
	Description *string
	IsActive    *bool
}

// StatsFilter acota la consulta de agregados de telemetría.
type StatsFilter struct {
	ClientID *string
	SiteID   *string
	From     *time.Time
	To       *time.Time
}

// AdminRepository acceso a usuarios admin.
type AdminRepository interface {
	CreateAdmin(ctx context.Context, a *AdminUser) error
	GetAdminByID(ctx context.Context, id string) (*AdminUser, error)
	GetAdminByEmail(ctx context.Context, email string) (*AdminUser, error)
	ListAdmins(ctx context.Context, limit, offset int) ([]AdminUser, error)
	UpdateAdmin(ctx context.Context, id string, upd AdminUpdate) (*AdminUser, error)
	DeleteAdmin(ctx context.Context, id string) error
	TouchAdminLogin(ctx context.Context, id string, at time.Time) error
	CountAdmins(ctx context.Context) (int64, error)
	CountActiveSuperAdmins(ctx context.Context) (int64, error)
}

// ClientRepository acceso a clientes del widget.
type ClientRepository interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClientByID(ctx context.Context, id string) (*Client, error)
	GetClientByEmail(ctx context.Context, email string) (*Client, error)
	GetClientByAPIKey(ctx context.Context, apiKey string) (*Client, error)
	GetClientBySiteID(ctx context.Context, siteID string) (*Client, error)
	ListClients(ctx context.Context, limit, offset int) ([]Client, error)
	UpdateClient(ctx context.Context, id string, upd ClientUpdate) (*Client, error)
	DeleteClient(ctx context.Context, id string) error
	TouchClientLogin(ctx context.Context, id string, at time.Time) error
}

// DomainRepository acceso a la allow-list de dominios.
type DomainRepository interface {
	CreateDomain(ctx context.Context, d *AllowedDomain) error
	GetDomainByID(ctx context.Context, id string) (*AllowedDomain, error)
	ListDomains(ctx context.Context, onlyActive bool) ([]AllowedDomain, error)
	UpdateDomain(ctx context.Context, id string, upd DomainUpdate) (*AllowedDomain, error)
	DeleteDomain(ctx context.Context, id string) error
}

// SessionRepository es el backend durable del Session Registry.
type SessionRepository interface {
	CreateSession(ctx context.Context, s *Session) error
	DeleteSession(ctx context.Context, tokenDigest string) error
	SessionExists(ctx context.Context, tokenDigest string) (bool, error)
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// TelemetryRepository ingesta y agrega eventos del widget.
type TelemetryRepository interface {
	InsertTelemetryEvent(ctx context.Context, ev *TelemetryEvent) error
	TelemetryStats(ctx context.Context, f StatsFilter) ([]StatRow, error)
}

// Repository agrupa todos los repos sobre el mismo backing store.
type Repository interface {
	AdminRepository
	ClientRepository
	DomainRepository
	SessionRepository
	TelemetryRepository

	Ping(ctx context.Context) error
	Close()
}
