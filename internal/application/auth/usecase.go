package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
	"github.com/jhoicas/suvenirs-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase registro, login y autogestión de la cuenta.
type AuthUseCase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, hasher PasswordHasher, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, hasher: hasher, jwtCfg: jwtCfg}
}

// Register crea un usuario con rol user y devuelve usuario + token.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if len(in.Password) < entity.MinPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, entity.MinPasswordLength)
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Company:      strings.TrimSpace(in.Company),
		Role:         entity.RoleUser,
		IsActive:     true,
		Addresses:    []entity.Address{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return uc.authResponse(user)
}

// Login verifica email/password y genera el token.
// Credenciales incorrectas → ErrInvalidCredentials; cuenta inactiva → ErrAccountDisabled.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := uc.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	return uc.authResponse(user)
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, id Identity) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario", domain.ErrNotFound)
	}
	return ToUserResponse(user), nil
}

// UpdateMe actualiza nombre, apellido, teléfono, empresa y direcciones del usuario autenticado.
func (uc *AuthUseCase) UpdateMe(ctx context.Context, id Identity, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario", domain.ErrNotFound)
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Company != nil {
		user.Company = strings.TrimSpace(*in.Company)
	}
	if in.Addresses != nil {
		user.Addresses = entity.NormalizeAddresses(*in.Addresses)
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangePassword exige la contraseña actual; si no coincide devuelve ErrInvalidInput.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, id Identity, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < entity.MinPasswordLength {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, entity.MinPasswordLength)
	}
	user, err := uc.userRepo.GetByID(ctx, id.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: usuario", domain.ErrNotFound)
	}
	if err := uc.hasher.Compare(user.PasswordHash, in.CurrentPassword); err != nil {
		return fmt.Errorf("%w: la contraseña actual es incorrecta", domain.ErrInvalidInput)
	}
	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, user.ID, hash)
}

// ParseToken valida un token y devuelve la identidad que contiene.
func (uc *AuthUseCase) ParseToken(token string) (Identity, error) {
	id, email, role, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{ID: id, Email: email, Role: role}, nil
}

func (uc *AuthUseCase) authResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: *ToUserResponse(user), Token: token}, nil
}

// ToUserResponse mapea la entidad a la salida pública (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	addresses := u.Addresses
	if addresses == nil {
		addresses = []entity.Address{}
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.Phone,
		Company:    u.Company,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		Addresses:  addresses,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
