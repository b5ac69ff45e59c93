package validation

import (
	"net/mail"
	"strings"
)

// NormalizeEmail baja a minúsculas y recorta espacios.
// Los emails son únicos case-insensitive.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail valida el formato de un email.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
