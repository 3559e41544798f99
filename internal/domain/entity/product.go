package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto de Product.
const (
	DefaultCurrency  = "CLP"
	PlaceholderImage = "/placeholder-product.jpg"
)

// Product artículo del catálogo. Price y SalePrice son opcionales (nil = sin precio publicado).
type Product struct {
	ID          string
	ProductCode string // productId visible, asignado por el usuario o la importación
	Name        string
	Slug        string
	Description string
	CategoryID  string // vacío si no tiene categoría
	Quantity    int
	Price       *decimal.Decimal
	SalePrice   *decimal.Decimal
	Currency    string
	Image       string
	Featured    bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Category se completa en lecturas con JOIN; no se persiste desde aquí.
	Category *CategoryRef
}

// CategoryRef resumen de la categoría asociada a un producto.
type CategoryRef struct {
	ID   string
	Name string
	Slug string
}

// ApplyDefaults completa moneda e imagen.
func (p *Product) ApplyDefaults() {
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if strings.TrimSpace(p.Image) == "" {
		p.Image = PlaceholderImage
	}
}

// Validate revisa las reglas de stock y precios.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ProductCode) == "" {
		return fmt.Errorf("productId es requerido")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name es requerido")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("quantity no puede ser negativa")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return fmt.Errorf("price no puede ser negativo")
	}
	if p.SalePrice != nil && p.SalePrice.IsNegative() {
		return fmt.Errorf("salePrice no puede ser negativo")
	}
	if p.Price != nil && p.SalePrice != nil && p.SalePrice.GreaterThanOrEqual(*p.Price) {
		return fmt.Errorf("salePrice debe ser menor que price")
	}
	return nil
}
