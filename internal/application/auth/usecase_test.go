package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/application/auth"
	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testJWT = auth.JWTConfig{Secret: "test-secret-key-for-unit-tests", ExpMinutes: 60, Issuer: "suvenirs-test"}

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.UserRepo) {
	t.Helper()
	users := memory.NewStore().Users()
	return auth.NewAuthUseCase(users, auth.NewBcryptHasher(4), testJWT), users
}

func registro() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:     "  Ana.Perez@Example.COM ",
		Password:  "secreto1",
		FirstName: "Ana",
		LastName:  "Pérez",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Register / Login
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaUsuarioConRolUser(t *testing.T) {
	uc, users := newAuth(t)
	ctx := context.Background()

	res, err := uc.Register(ctx, registro())
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	assert.Equal(t, "ana.perez@example.com", res.User.Email, "el email se guarda normalizado")
	assert.Equal(t, entity.RoleUser, res.User.Role)
	assert.True(t, res.User.IsActive)

	stored, err := users.GetByEmail(ctx, "ana.perez@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto1", stored.PasswordHash, "la contraseña nunca se guarda en claro")

	id, err := uc.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, id.ID)
	assert.Equal(t, entity.RoleUser, id.Role)
	assert.False(t, id.IsAdmin())
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, registro())
	require.NoError(t, err)

	in := registro()
	in.Email = "ANA.PEREZ@example.com"
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_CredencialesCorrectas(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registro())
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ana.perez@example.com", Password: "secreto1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Ana", res.User.FirstName)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registro())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana.perez@example.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "un email desconocido no se distingue de una clave errónea")
}

func TestLogin_CuentaDesactivada(t *testing.T) {
	uc, users := newAuth(t)
	ctx := context.Background()
	res, err := uc.Register(ctx, registro())
	require.NoError(t, err)

	u, err := users.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, users.Update(ctx, u))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana.perez@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil propio
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateMe_CambiaDatosYDirecciones(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	res, err := uc.Register(ctx, registro())
	require.NoError(t, err)
	id := auth.Identity{ID: res.User.ID, Email: res.User.Email, Role: res.User.Role}

	phone := " +56 9 1234 5678 "
	addresses := []entity.Address{{Street: "Av. Siempre Viva 742", City: "Santiago"}}
	out, err := uc.UpdateMe(ctx, id, dto.UpdateProfileRequest{Phone: &phone, Addresses: &addresses})
	require.NoError(t, err)

	assert.Equal(t, "+56 9 1234 5678", out.Phone)
	require.Len(t, out.Addresses, 1)
	assert.Equal(t, "Chile", out.Addresses[0].Country, "el país por defecto es Chile")
	assert.Equal(t, "Ana", out.FirstName, "los campos no enviados no cambian")

	me, err := uc.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "+56 9 1234 5678", me.Phone)
}

func TestChangePassword(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	res, err := uc.Register(ctx, registro())
	require.NoError(t, err)
	id := auth.Identity{ID: res.User.ID}

	err = uc.ChangePassword(ctx, id, dto.ChangePasswordRequest{CurrentPassword: "equivocada", NewPassword: "nueva-clave"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la contraseña actual debe coincidir")

	err = uc.ChangePassword(ctx, id, dto.ChangePasswordRequest{CurrentPassword: "secreto1", NewPassword: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la nueva contraseña exige 6 caracteres")

	require.NoError(t, uc.ChangePassword(ctx, id, dto.ChangePasswordRequest{CurrentPassword: "secreto1", NewPassword: "nueva-clave"}))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana.perez@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "la contraseña anterior deja de servir")
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana.perez@example.com", Password: "nueva-clave"})
	assert.NoError(t, err)
}

func TestParseToken_Invalido(t *testing.T) {
	uc, _ := newAuth(t)
	_, err := uc.ParseToken("token.invalido.aqui")
	assert.Error(t, err)
}

func TestBcryptHasher_CostoFueraDeRango(t *testing.T) {
	h := auth.NewBcryptHasher(1)
	hash, err := h.Hash("secreto1")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, "secreto1"))
	assert.Error(t, h.Compare(hash, "secreto2"))
}

func TestPasswordSobre72Bytes_EsEntradaInvalida(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	larga := strings.Repeat("x", 80)

	in := registro()
	in.Password = larga
	_, err := uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "registro con contraseña sobre el límite de bcrypt")

	res, err := uc.Register(ctx, registro())
	require.NoError(t, err)
	err = uc.ChangePassword(ctx, auth.Identity{ID: res.User.ID}, dto.ChangePasswordRequest{CurrentPassword: "secreto1", NewPassword: larga})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cambio de contraseña sobre el límite de bcrypt")
}

func TestBcryptHasher_PasswordDemasiadoLarga(t *testing.T) {
	_, err := auth.NewBcryptHasher(4).Hash(strings.Repeat("á", 40))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el límite se mide en bytes, no en caracteres")
}
