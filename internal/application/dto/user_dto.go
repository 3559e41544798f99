package dto

import (
	"time"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

// RegisterRequest entrada para registro público; el rol siempre es user.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=50"`
	Company   string `json:"company" validate:"max=200"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse usuario más token, para registro y login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// UpdateProfileRequest datos que el propio usuario puede cambiar.
type UpdateProfileRequest struct {
	FirstName *string           `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string           `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string           `json:"phone" validate:"omitempty,max=50"`
	Company   *string           `json:"company" validate:"omitempty,max=200"`
	Addresses *[]entity.Address `json:"addresses"`
}

// ChangePasswordRequest cambio de contraseña propia.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// CreateUserRequest alta de usuario desde el panel admin.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=50"`
	Company   string `json:"company" validate:"max=200"`
	Role      string `json:"role" validate:"omitempty,oneof=admin user"`
}

// AdminUpdateUserRequest cambios admin sobre un usuario.
type AdminUpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Company   *string `json:"company" validate:"omitempty,max=200"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin user"`
	IsActive  *bool   `json:"isActive"`
}

// ResetPasswordRequest nueva contraseña fijada por un admin.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UserListQuery filtros del listado admin de usuarios.
type UserListQuery struct {
	PageRequest
	Role   string
	Search string
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	Phone      string           `json:"phone,omitempty"`
	Company    string           `json:"company,omitempty"`
	Role       string           `json:"role"`
	IsActive   bool             `json:"isActive"`
	IsVerified bool             `json:"isVerified"`
	Addresses  []entity.Address `json:"addresses"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}
