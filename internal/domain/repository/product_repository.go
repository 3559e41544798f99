package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

// ProductFilter criterios de listado y conteo de productos.
type ProductFilter struct {
	Search      string // búsqueda de texto completo sobre nombre y descripción
	Contains    string // ILIKE sobre nombre, productId y descripción (listado admin)
	CategoryIDs []string
	Featured    *bool
	IsActive    *bool // nil = activos e inactivos
	OutOfStock  bool  // quantity = 0
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdatePrices(ctx context.Context, id string, price decimal.Decimal, salePrice *decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ProductFilter, sort SortSpec, page Page) ([]*entity.Product, int, error)
	// Random devuelve hasta n productos al azar que cumplen el filtro.
	Random(ctx context.Context, f ProductFilter, n int) ([]*entity.Product, error)
	Count(ctx context.Context, f ProductFilter) (int, error)
	// ListUncategorizedIDs ids de productos sin categoría.
	ListUncategorizedIDs(ctx context.Context) ([]string, error)
	AssignCategory(ctx context.Context, productID, categoryID string) error
}
