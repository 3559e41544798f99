package repository

import (
	"context"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	GetByCode(ctx context.Context, code string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id string) error
	// ListActive categorías activas ordenadas por orden y nombre.
	ListActive(ctx context.Context) ([]*entity.Category, error)
	ListRoots(ctx context.Context) ([]*entity.Category, error)
	ListCodes(ctx context.Context) ([]string, error)
	CountChildren(ctx context.Context, id string) (int, error)
	// FallbackImages imagen de un producto activo por categoría, prefiriendo imágenes reales sobre el placeholder.
	FallbackImages(ctx context.Context, categoryIDs []string) (map[string]string, error)
	// RecountProducts recalcula product_count de todas las categorías y devuelve cuántas actualizó.
	RecountProducts(ctx context.Context) (int, error)
}
