package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// MinPasswordLength largo mínimo de contraseña en registro, alta y cambio.
const MinPasswordLength = 6

// MaxPasswordLength límite de bcrypt en bytes.
const MaxPasswordLength = 72

// Address dirección de despacho del usuario (se guarda como JSONB).
type Address struct {
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

// User representa una cuenta de cliente o administrador.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca se serializa
	FirstName    string
	LastName     string
	Phone        string
	Company      string
	Role         string // admin, user
	IsActive     bool
	IsVerified   bool
	Addresses    []Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// NormalizeEmail recorta espacios y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeAddresses completa el país por defecto.
func NormalizeAddresses(in []Address) []Address {
	out := make([]Address, 0, len(in))
	for _, a := range in {
		if strings.TrimSpace(a.Country) == "" {
			a.Country = "Chile"
		}
		out = append(out, a)
	}
	return out
}
