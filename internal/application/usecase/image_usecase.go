package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/pkg/logger"
)

// Paginación por defecto del banco de imágenes.
const (
	DefaultPhotosPerPage = 15
	MaxPhotosPerPage     = 80
)

// ImageUseCase búsqueda de fotos para el panel admin, con caché opcional.
type ImageUseCase struct {
	searcher ImageSearcher
	cache    Cache
	ttl      time.Duration
}

// NewImageUseCase construye el caso de uso. searcher nil deja el servicio no disponible;
// cache nil desactiva la caché.
func NewImageUseCase(searcher ImageSearcher, cache Cache, ttl time.Duration) *ImageUseCase {
	return &ImageUseCase{searcher: searcher, cache: cache, ttl: ttl}
}

// Search busca fotos por texto. query es obligatorio.
func (uc *ImageUseCase) Search(ctx context.Context, query string, page, perPage int) (*dto.PhotoPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("el parámetro query es requerido")
	}
	page, perPage = photoPaging(page, perPage)
	key := fmt.Sprintf("images:search:%s:%d:%d", strings.ToLower(query), page, perPage)
	return uc.cached(ctx, key, func(s ImageSearcher) (*dto.PhotoPage, error) {
		return s.Search(ctx, query, page, perPage)
	})
}

// Curated fotos destacadas del banco.
func (uc *ImageUseCase) Curated(ctx context.Context, page, perPage int) (*dto.PhotoPage, error) {
	page, perPage = photoPaging(page, perPage)
	key := fmt.Sprintf("images:curated:%d:%d", page, perPage)
	return uc.cached(ctx, key, func(s ImageSearcher) (*dto.PhotoPage, error) {
		return s.Curated(ctx, page, perPage)
	})
}

func (uc *ImageUseCase) cached(ctx context.Context, key string, fetch func(ImageSearcher) (*dto.PhotoPage, error)) (*dto.PhotoPage, error) {
	if uc.searcher == nil {
		return nil, fmt.Errorf("%w: banco de imágenes no configurado", domain.ErrUnavailable)
	}
	if uc.cache != nil {
		var hit dto.PhotoPage
		ok, err := uc.cache.Get(ctx, key, &hit)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("image cache get")
		} else if ok {
			return &hit, nil
		}
	}
	res, err := fetch(uc.searcher)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return nil, err
		}
		logger.FromContext(ctx).Error().Err(err).Msg("image search failed")
		return nil, fmt.Errorf("%w: el banco de imágenes no respondió", domain.ErrUnavailable)
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, res, uc.ttl); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("image cache set")
		}
	}
	return res, nil
}

func photoPaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPhotosPerPage
	}
	if perPage > MaxPhotosPerPage {
		perPage = MaxPhotosPerPage
	}
	return page, perPage
}
