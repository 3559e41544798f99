package repository

import (
	"context"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

// UserFilter criterios del listado de usuarios.
type UserFilter struct {
	Role   string
	Search string // ILIKE sobre nombre, apellido y email
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f UserFilter, sort SortSpec, page Page) ([]*entity.User, int, error)
	Count(ctx context.Context) (int, error)
}
