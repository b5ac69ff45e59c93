package auth

import "github.com/dropDatabas3/accessway/internal/security/token"

// Principal es el actor autenticado resuelto desde un bearer token.
// Invariante: IsActive era true en el momento de la resolución; una
// desactivación aplica recién en el próximo request.
type Principal struct {
	Kind  token.SubjectType // admin | client
	ID    string
	Email string

	// Sólo admins
	Role string // admin | super_admin

	// Sólo clientes
	CompanyName string
	SiteIDs     []string // vacío = sin restricción de sitio
}

// IsAdmin indica si el principal es un usuario del panel admin.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Kind == token.SubjectAdmin
}

// IsSuperAdmin indica si el principal tiene el rol super_admin.
func (p *Principal) IsSuperAdmin() bool {
	return p.IsAdmin() && p.Role == "super_admin"
}

// IsClient indica si el principal es un cliente del widget.
func (p *Principal) IsClient() bool {
	return p != nil && p.Kind == token.SubjectClient
}

// CanAccessSite indica si el cliente puede operar sobre el siteID dado.
// Un set vacío de sitios significa acceso sin restricción.
func (p *Principal) CanAccessSite(siteID string) bool {
	if !p.IsClient() {
		return false
	}
	if len(p.SiteIDs) == 0 {
		return true
	}
	for _, s := range p.SiteIDs {
		if s == siteID {
			return true
		}
	}
	return false
}
