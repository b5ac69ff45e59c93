// Package auth contiene los DTOs de los endpoints de autenticación.
package auth

// ClientLoginRequest: email+password XOR apiKey; siteId opcional para
// acotar el scope del token.
type ClientLoginRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`
	SiteID   string `json:"siteId,omitempty"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ClientInfo struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	CompanyName string   `json:"companyName"`
	SiteIDs     []string `json:"siteIds"`
}

type AdminInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ClientLoginResponse struct {
	Token     string     `json:"token"`
	ExpiresIn int64      `json:"expiresIn"`
	Client    ClientInfo `json:"client"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	Admin     AdminInfo `json:"admin"`
}

type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}

// MeResponse describe el principal autenticado.
type MeResponse struct {
	Kind        string   `json:"kind"` // admin | client
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Role        string   `json:"role,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
	SiteIDs     []string `json:"siteIds,omitempty"`
}
