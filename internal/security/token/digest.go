package token

import (
	"crypto/sha256"
	"fmt"
)

// Digest devuelve sha256(token) en hexadecimal.
// Determinístico: es la clave del Session Registry, así el token crudo
// nunca se persiste.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", sum)
}
