package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suvenirs-api/internal/application/auth"
	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

// DefaultUserLimit tamaño de página del listado de usuarios.
const DefaultUserLimit = 20

// UserAdminUseCase gestión de usuarios desde el panel admin.
type UserAdminUseCase struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
}

// NewUserAdminUseCase construye el caso de uso.
func NewUserAdminUseCase(repo repository.UserRepository, hasher auth.PasswordHasher) *UserAdminUseCase {
	return &UserAdminUseCase{repo: repo, hasher: hasher}
}

// List usuarios con filtro por rol y búsqueda en nombre, apellido y email.
func (uc *UserAdminUseCase) List(ctx context.Context, q dto.UserListQuery) (*dto.Page[dto.UserResponse], error) {
	q.PageRequest = q.PageRequest.Normalize(DefaultUserLimit)
	role := strings.TrimSpace(q.Role)
	if role != "" && !entity.IsValidRole(role) {
		return nil, invalid("rol inválido %q", role)
	}
	f := repository.UserFilter{Role: role, Search: strings.TrimSpace(q.Search)}
	list, total, err := uc.repo.List(ctx, f, sortSpec(q.PageRequest, "createdAt"), pageOf(q.PageRequest))
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.Page[dto.UserResponse]{Items: items, Pagination: dto.NewPagination(q.Page, q.Limit, total)}, nil
}

// Get obtiene un usuario.
func (uc *UserAdminUseCase) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(u), nil
}

// Create alta admin: rol user por defecto y cuenta verificada.
func (uc *UserAdminUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.IsValidRole(role) {
		return nil, invalid("rol inválido %q", role)
	}
	if len(in.Password) < entity.MinPasswordLength {
		return nil, invalid("la contraseña debe tener al menos %d caracteres", entity.MinPasswordLength)
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Company:      strings.TrimSpace(in.Company),
		Role:         role,
		IsActive:     true,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return auth.ToUserResponse(u), nil
}

// Update cambia datos, rol o estado. Un admin no puede quitarse el rol ni desactivarse a sí mismo.
func (uc *UserAdminUseCase) Update(ctx context.Context, caller auth.Identity, id string, in dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	self := caller.ID == u.ID
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Company != nil {
		u.Company = strings.TrimSpace(*in.Company)
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, invalid("rol inválido %q", *in.Role)
		}
		if self && *in.Role != entity.RoleAdmin {
			return nil, fmt.Errorf("%w: no puedes quitarte el rol de administrador", domain.ErrConflict)
		}
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		if self && !*in.IsActive {
			return nil, fmt.Errorf("%w: no puedes desactivar tu propia cuenta", domain.ErrConflict)
		}
		u.IsActive = *in.IsActive
	}
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(u), nil
}

// ResetPassword fija una contraseña nueva sin pedir la actual.
func (uc *UserAdminUseCase) ResetPassword(ctx context.Context, id, password string) error {
	if len(password) < entity.MinPasswordLength {
		return invalid("la contraseña debe tener al menos %d caracteres", entity.MinPasswordLength)
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return uc.repo.UpdatePassword(ctx, id, hash)
}

// Delete borra el usuario. Un admin no puede borrarse a sí mismo.
func (uc *UserAdminUseCase) Delete(ctx context.Context, caller auth.Identity, id string) error {
	if caller.ID == id {
		return fmt.Errorf("%w: no puedes eliminar tu propia cuenta", domain.ErrConflict)
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *UserAdminUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	if !isUUID(id) {
		return nil, notFound("usuario")
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("usuario")
	}
	return u, nil
}
