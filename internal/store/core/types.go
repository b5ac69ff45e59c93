package core

import "time"

// Roles de usuarios admin.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// AdminUser es la credencial durable de un usuario del panel admin.
type AdminUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"` // admin | super_admin
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Client es un cliente del widget (empresa que embebe el script).
// SiteIDs vacío significa acceso sin restricción de sitio.
type Client struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	CompanyName  string         `json:"company_name"`
	PasswordHash string         `json:"-"`
	APIKey       string         `json:"-"`
	SiteIDs      []string       `json:"site_ids"`
	Settings     map[string]any `json:"settings,omitempty"`
	IsActive     bool           `json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// AllowedDomain es una entrada de la allow-list de dominios del widget.
// Domain se guarda normalizado: lowercase, sin esquema, sin puerto ni path.
type AllowedDomain struct {
	ID          string    `json:"id"`
	Domain      string    `json:"domain"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Session es la entrada del Session Registry: sólo se persiste el digest
// del token, nunca el token crudo.
type Session struct {
	TokenDigest string    `json:"token_digest"`
	SubjectID   string    `json:"subject_id"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	IP          string    `json:"ip,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
}

// TelemetryEvent es un evento de uso del widget reportado por un sitio.
type TelemetryEvent struct {
	ID        string    `json:"id"`
	ClientID  *string   `json:"client_id,omitempty"`
	SiteID    string    `json:"site_id,omitempty"`
	Event     string    `json:"event"`
	Domain    string    `json:"domain,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StatRow es una fila agregada de telemetría.
type StatRow struct {
	Event  string    `json:"event"`
	SiteID string    `json:"site_id,omitempty"`
	Day    time.Time `json:"day"`
	Count  int64     `json:"count"`
}
