// Package token emite y verifica bearer tokens firmados (HS256).
//
// El token es autocontenido: claims + iat/exp firmados con un secreto único
// de proceso. Rotar el secreto invalida todos los tokens emitidos
// (consecuencia operacional documentada, no se maneja in-band).
package token

import (
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// SubjectType distingue los dos tipos de principal.
type SubjectType string

const (
	SubjectAdmin  SubjectType = "admin"
	SubjectClient SubjectType = "client"
)

// TTLs por defecto.
const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims es el claim set firmado dentro de cada token.
type Claims struct {
	Type     SubjectType `json:"type"`
	UserID   string      `json:"userId,omitempty"`   // admins
	ClientID string      `json:"clientId,omitempty"` // clientes del widget
	Role     string      `json:"role,omitempty"`
	Email    string      `json:"email,omitempty"`
	jwtv5.RegisteredClaims
}

// SubjectID devuelve el ID del sujeto según el tipo de token.
func (c *Claims) SubjectID() string {
	switch c.Type {
	case SubjectAdmin:
		return c.UserID
	case SubjectClient:
		return c.ClientID
	}
	return c.Subject
}

// Issuer firma y verifica tokens con un secreto HMAC de proceso.
type Issuer struct {
	secret     []byte
	iss        string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewIssuer crea un Issuer. TTLs en cero caen a los defaults.
func NewIssuer(secret, iss string, accessTTL, refreshTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Issuer{
		secret:     []byte(secret),
		iss:        iss,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// Issue firma las claims con iat/exp y devuelve el token y su expiración.
// Si ttl <= 0 usa AccessTTL.
func (i *Issuer) Issue(c Claims, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = i.AccessTTL
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)

	c.Issuer = i.iss
	c.Subject = c.SubjectID()
	c.IssuedAt = jwtv5.NewNumericDate(now)
	c.NotBefore = jwtv5.NewNumericDate(now)
	c.ExpiresAt = jwtv5.NewNumericDate(exp)

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, &c)
	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify valida firma y expiración. Devuelve nil si el token es inválido,
// malformado o expirado; nunca devuelve error.
func (i *Issuer) Verify(raw string) *Claims {
	return i.parse(raw, false)
}

// VerifyAllowExpired valida la firma pero acepta un token expirado.
// Usado únicamente por el flujo de refresh para re-emitir tokens.
func (i *Issuer) VerifyAllowExpired(raw string) *Claims {
	return i.parse(raw, true)
}

func (i *Issuer) parse(raw string, allowExpired bool) *Claims {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
	}
	if allowExpired {
		// La firma se verifica igual; sólo se omite la validación de claims.
		opts = append(opts, jwtv5.WithoutClaimsValidation())
	}

	var claims Claims
	tk, err := jwtv5.ParseWithClaims(raw, &claims, func(t *jwtv5.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil || tk == nil || !tk.Valid {
		return nil
	}
	if claims.Type != SubjectAdmin && claims.Type != SubjectClient {
		return nil
	}
	if claims.SubjectID() == "" {
		return nil
	}
	return &claims
}
