package auth

import "github.com/jhoicas/suvenirs-api/internal/domain/entity"

// Identity usuario autenticado extraído del token. Se pasa explícitamente a los casos de uso.
type Identity struct {
	ID    string
	Email string
	Role  string
}

// IsAdmin indica si la identidad tiene rol admin.
func (i Identity) IsAdmin() bool { return i.Role == entity.RoleAdmin }
