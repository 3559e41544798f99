// create_admin crea la primera cuenta administradora.
//
// Uso: go run ./cmd/create_admin -email admin@tienda.cl -password secreto [-first Nombre -last Apellido]
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/suvenirs-api/internal/application/auth"
	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suvenirs-api/pkg/config"
	"github.com/jhoicas/suvenirs-api/pkg/logger"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "email del administrador")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "contraseña (mínimo 6 caracteres)")
	first := flag.String("first", "Admin", "nombre")
	last := flag.String("last", "Suvenirs", "apellido")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name, Command: "create_admin"})

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	uc := usecase.NewUserAdminUseCase(postgres.NewUserRepository(pool), auth.NewBcryptHasher(cfg.Auth.BcryptCost))
	u, err := uc.Create(ctx, dto.CreateUserRequest{
		Email:     *email,
		Password:  *password,
		FirstName: *first,
		LastName:  *last,
		Role:      entity.RoleAdmin,
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Warn().Str("email", *email).Msg("el usuario ya existe, no se modifica")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("id", u.ID).Str("email", u.Email).Msg("administrador creado")
}
