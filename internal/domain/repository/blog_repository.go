package repository

import (
	"context"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

// BlogFilter criterios del listado de posts.
type BlogFilter struct {
	Search      string // texto completo sobre título, extracto y contenido
	Contains    string // ILIKE sobre título y extracto (listado admin)
	Tag         string
	IsPublished *bool
}

// BlogRepository define el puerto de persistencia para BlogPost (DIP).
type BlogRepository interface {
	Create(ctx context.Context, post *entity.BlogPost) error
	GetByID(ctx context.Context, id string) (*entity.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*entity.BlogPost, error)
	Update(ctx context.Context, post *entity.BlogPost) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f BlogFilter, sort SortSpec, page Page) ([]*entity.BlogPost, int, error)
	// PublishedTags tags distintos de los posts publicados, ordenados.
	PublishedTags(ctx context.Context) ([]string, error)
	IncrementViews(ctx context.Context, id string) error
}
