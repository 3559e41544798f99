package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	ProductID   string           `json:"productId" validate:"required,max=100"`
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	Category    string           `json:"category"`
	Quantity    int              `json:"quantity" validate:"min=0"`
	Price       *decimal.Decimal `json:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	Currency    string           `json:"currency" validate:"omitempty,len=3"`
	Image       string           `json:"image"`
	Featured    bool             `json:"featured"`
	IsActive    *bool            `json:"isActive"`
}

// UpdateProductRequest entrada para actualizar un producto; los campos ausentes no cambian.
// Category y SalePrice aceptan null/"" para quitar el valor.
type UpdateProductRequest struct {
	ProductID   *string          `json:"productId" validate:"omitempty,min=1,max=100"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Category    OptionalString   `json:"category"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=0"`
	Price       *decimal.Decimal `json:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	ClearSale   bool             `json:"clearSalePrice"`
	Currency    *string          `json:"currency" validate:"omitempty,len=3"`
	Image       *string          `json:"image"`
	Featured    *bool            `json:"featured"`
	IsActive    *bool            `json:"isActive"`
}

// ProductListQuery filtros del listado público y admin.
type ProductListQuery struct {
	PageRequest
	Search   string
	Category string // slug o id, o lista separada por comas
	Featured *bool
	IsActive *bool // solo admin
	Random   bool
}

// CategoryRefResponse resumen de categoría dentro de un producto.
type CategoryRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string               `json:"id"`
	ProductID   string               `json:"productId"`
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	Description string               `json:"description"`
	Category    *CategoryRefResponse `json:"category"`
	Quantity    int                  `json:"quantity"`
	Price       *decimal.Decimal     `json:"price,omitempty"`
	SalePrice   *decimal.Decimal     `json:"salePrice,omitempty"`
	Currency    string               `json:"currency"`
	Image       string               `json:"image"`
	Featured    bool                 `json:"featured"`
	IsActive    bool                 `json:"isActive"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ImportResult resultado de la importación de productos.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// PriceImportResult resultado de la importación de precios; Errors se recorta a los primeros 20.
type PriceImportResult struct {
	Updated     int      `json:"updated"`
	NotFound    int      `json:"notFound"`
	Errors      []string `json:"errors,omitempty"`
	TotalErrors int      `json:"totalErrors"`
}
