// Package password implementa el hashing de contraseñas con bcrypt.
//
// El costo es configurable (env PASSWORD_HASH_COST); cada Hash genera
// una sal fresca, por lo que dos hashes del mismo plaintext difieren.
package password

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost es el factor de costo por defecto (equilibrio CPU/seguridad).
const DefaultCost = 10

// Hasher produce y verifica hashes bcrypt con un costo fijo.
type Hasher struct {
	cost int
}

// New crea un Hasher. Costos fuera de rango caen al default.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// NewFromEnv crea un Hasher leyendo PASSWORD_HASH_COST del entorno.
func NewFromEnv() *Hasher {
	cost := DefaultCost
	if s := os.Getenv("PASSWORD_HASH_COST"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			cost = n
		}
	}
	return New(cost)
}

// Cost devuelve el factor de costo configurado.
func (h *Hasher) Cost() int { return h.cost }

// Hash devuelve el hash bcrypt del plaintext (sal fresca en cada llamada).
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara plaintext contra un hash almacenado.
// Nunca hace panic: un hash malformado simplemente devuelve false.
func (h *Hasher) Verify(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
