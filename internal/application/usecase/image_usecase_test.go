package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain"
)

type fakeSearcher struct {
	calls int
	err   error
}

func (f *fakeSearcher) Search(_ context.Context, query string, page, perPage int) (*dto.PhotoPage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PhotoPage{Photos: []dto.Photo{{ID: 1, Alt: query}}, Page: page, PerPage: perPage, TotalResults: 1}, nil
}

func (f *fakeSearcher) Curated(ctx context.Context, page, perPage int) (*dto.PhotoPage, error) {
	return f.Search(ctx, "curated", page, perPage)
}

// mapCache caché en memoria que guarda el puntero tal cual.
type mapCache struct {
	mu sync.Mutex
	m  map[string]*dto.PhotoPage
}

func (c *mapCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	if ok {
		*dst.(*dto.PhotoPage) = *v
	}
	return ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value.(*dto.PhotoPage)
	return nil
}

func TestImageSearch_QueryRequerido(t *testing.T) {
	uc := usecase.NewImageUseCase(&fakeSearcher{}, nil, time.Minute)
	_, err := uc.Search(context.Background(), "  ", 1, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImageSearch_SinProveedor(t *testing.T) {
	uc := usecase.NewImageUseCase(nil, nil, time.Minute)
	_, err := uc.Search(context.Background(), "tazas", 1, 10)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestImageSearch_FalloDelProveedorEsNoDisponible(t *testing.T) {
	uc := usecase.NewImageUseCase(&fakeSearcher{err: errors.New("timeout")}, nil, time.Minute)
	_, err := uc.Curated(context.Background(), 1, 10)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestImageSearch_DefaultsYCache(t *testing.T) {
	s := &fakeSearcher{}
	uc := usecase.NewImageUseCase(s, &mapCache{m: map[string]*dto.PhotoPage{}}, time.Minute)
	ctx := context.Background()

	first, err := uc.Search(ctx, "Tazas", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, usecase.DefaultPhotosPerPage, first.PerPage)

	_, err = uc.Search(ctx, "tazas", 1, usecase.DefaultPhotosPerPage)
	require.NoError(t, err)
	assert.Equal(t, 1, s.calls, "la segunda búsqueda sale de la caché")
}
