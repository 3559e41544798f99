package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba-largo")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.Equal(t, 7*24*60, cfg.JWT.Expiration)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*1024*1024, cfg.HTTP.BodyLimit)
	assert.Equal(t, time.Hour, cfg.Images.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba-largo")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGIN", "https://suvenirs.cl, https://admin.suvenirs.cl")
	t.Setenv("DB_PASSWORD", "p@ss:word")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://suvenirs.cl", "https://admin.suvenirs.cl"}, cfg.HTTP.CORSOrigins)
	assert.Contains(t, cfg.DB.ConnectionString(), "p%40ss%3Aword")
}

func TestValidate_SecretCorto(t *testing.T) {
	t.Setenv("JWT_SECRET", "corto")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}
