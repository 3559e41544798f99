package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

// PasswordHasher puerto de hashing de contraseñas.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare devuelve nil si password corresponde a hash.
	Compare(hash, password string) error
}

// BcryptHasher implementa PasswordHasher con bcrypt (salt propio por contraseña).
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher construye el hasher; un costo fuera de rango usa bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash genera el hash bcrypt. Más de MaxPasswordLength bytes es entrada inválida.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: la contraseña no puede superar %d bytes", domain.ErrInvalidInput, entity.MaxPasswordLength)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Compare usa la verificación en tiempo constante de bcrypt.
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
