// Package admin contiene los DTOs del API administrativo.
package admin

import (
	"time"

	"github.com/dropDatabas3/accessway/internal/store/core"
)

// ---- Clients ----

type CreateClientRequest struct {
	Email       string         `json:"email"`
	CompanyName string         `json:"companyName"`
	Password    string         `json:"password"`
	SiteIDs     []string       `json:"siteIds,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
}

// UpdateClientRequest: campos opcionales; sólo los presentes se actualizan.
type UpdateClientRequest struct {
	Email       *string         `json:"email,omitempty"`
	CompanyName *string         `json:"companyName,omitempty"`
	Password    *string         `json:"password,omitempty"`
	SiteIDs     *[]string       `json:"siteIds,omitempty"`
	Settings    *map[string]any `json:"settings,omitempty"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

type ClientResponse struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	CompanyName string         `json:"companyName"`
	SiteIDs     []string       `json:"siteIds"`
	Settings    map[string]any `json:"settings,omitempty"`
	IsActive    bool           `json:"isActive"`
	LastLoginAt *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CreatedClientResponse incluye la API key generada, visible sólo una vez.
type CreatedClientResponse struct {
	ClientResponse
	APIKey string `json:"apiKey"`
}

func ToClientResponse(c *core.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		Email:       c.Email,
		CompanyName: c.CompanyName,
		SiteIDs:     c.SiteIDs,
		Settings:    c.Settings,
		IsActive:    c.IsActive,
		LastLoginAt: c.LastLoginAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ---- Domains ----

type CreateDomainRequest struct {
	Domain      string `json:"domain"`
	Description string `json:"description,omitempty"`
}

type UpdateDomainRequest struct {
	Domain      *string `json:"domain,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type DomainResponse struct {
	ID          string    `json:"id"`
	Domain      string    `json:"domain"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToDomainResponse(d *core.AllowedDomain) DomainResponse {
	return DomainResponse{
		ID:          d.ID,
		Domain:      d.Domain,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ---- Admin users ----

type CreateAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // admin | super_admin
}

type UpdateAdminRequest struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

type AdminResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ToAdminResponse(a *core.AdminUser) AdminResponse {
	return AdminResponse{
		ID:          a.ID,
		Email:       a.Email,
		Role:        a.Role,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ---- Stats ----

type StatRowResponse struct {
	Event  string    `json:"event"`
	SiteID string    `json:"siteId,omitempty"`
	Day    time.Time `json:"day"`
	Count  int64     `json:"count"`
}

type StatsResponse struct {
	Rows []StatRowResponse `json:"rows"`
}
