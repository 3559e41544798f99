package memory

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

type productRow struct {
	p   entity.Product
	seq int64
}

func (r *productRow) insertion() int64 { return r.seq }

func (r *productRow) field(name string) (interface{}, bool) {
	switch name {
	case "createdAt":
		return r.p.CreatedAt, true
	case "updatedAt":
		return r.p.UpdatedAt, true
	case "name":
		return r.p.Name, true
	case "productId":
		return r.p.ProductCode, true
	case "quantity":
		return r.p.Quantity, true
	case "price":
		if r.p.Price == nil {
			return float64(-1), true
		}
		return r.p.Price.InexactFloat64(), true
	}
	return nil, false
}

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func (r *ProductRepo) out(row *productRow) *entity.Product {
	p := row.p
	p.Price = cloneDecimal(p.Price)
	p.SalePrice = cloneDecimal(p.SalePrice)
	p.Category = nil
	if c, ok := r.s.categories[p.CategoryID]; ok {
		p.Category = &entity.CategoryRef{ID: c.c.ID, Name: c.c.Name, Slug: c.c.Slug}
	}
	return &p
}

func (r *ProductRepo) uniqueTaken(p *entity.Product) bool {
	for id, row := range r.s.products {
		if id == p.ID {
			continue
		}
		if row.p.ProductCode == p.ProductCode || row.p.Slug == p.Slug {
			return true
		}
	}
	return false
}

// Create persiste un producto nuevo.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; ok || r.uniqueTaken(product) {
		return domain.ErrDuplicate
	}
	row := &productRow{p: *product, seq: r.s.nextSeq()}
	row.p.Price = cloneDecimal(product.Price)
	row.p.SalePrice = cloneDecimal(product.SalePrice)
	row.p.Category = nil
	r.s.products[product.ID] = row
	return nil
}

// GetByID busca por id.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.out(row), nil
}

// GetByCode busca por productId.
func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.products {
		if row.p.ProductCode == code {
			return r.out(row), nil
		}
	}
	return nil, nil
}

// GetBySlug busca por slug.
func (r *ProductRepo) GetBySlug(_ context.Context, slug string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.products {
		if row.p.Slug == slug {
			return r.out(row), nil
		}
	}
	return nil, nil
}

// Update reemplaza el producto.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.uniqueTaken(product) {
		return domain.ErrDuplicate
	}
	row.p = *product
	row.p.Price = cloneDecimal(product.Price)
	row.p.SalePrice = cloneDecimal(product.SalePrice)
	row.p.Category = nil
	return nil
}

// UpdatePrices fija precio y precio oferta.
func (r *ProductRepo) UpdatePrices(_ context.Context, id string, price decimal.Decimal, salePrice *decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.p.Price = &price
	row.p.SalePrice = cloneDecimal(salePrice)
	return nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) match(row *productRow, f repository.ProductFilter) bool {
	p := row.p
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.OutOfStock && p.Quantity != 0 {
		return false
	}
	if f.Search != "" && !matchesWords(f.Search, p.Name, p.Description) {
		return false
	}
	if f.Contains != "" && !containsFold(p.Name, f.Contains) && !containsFold(p.ProductCode, f.Contains) && !containsFold(p.Description, f.Contains) {
		return false
	}
	if len(f.CategoryIDs) > 0 {
		found := false
		for _, id := range f.CategoryIDs {
			if p.CategoryID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *ProductRepo) filtered(f repository.ProductFilter) []*productRow {
	var rows []*productRow
	for _, row := range r.s.products {
		if r.match(row, f) {
			rows = append(rows, row)
		}
	}
	return rows
}

// List devuelve la página pedida y el total.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter, sort repository.SortSpec, page repository.Page) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.filtered(f)
	sortRows(rows, sort)
	total := len(rows)
	out := make([]*entity.Product, 0)
	for _, row := range paginate(rows, page) {
		out = append(out, r.out(row))
	}
	return out, total, nil
}

// Random muestra aleatoria de hasta n productos.
func (r *ProductRepo) Random(_ context.Context, f repository.ProductFilter, n int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.filtered(f)
	rand.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	if n < len(rows) {
		rows = rows[:n]
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.out(row))
	}
	return out, nil
}

// Count cuenta los productos que cumplen el filtro.
func (r *ProductRepo) Count(_ context.Context, f repository.ProductFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filtered(f)), nil
}

// ListUncategorizedIDs ids de productos sin categoría.
func (r *ProductRepo) ListUncategorizedIDs(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, row := range r.s.products {
		if row.p.CategoryID == "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// AssignCategory asigna la categoría a un producto.
func (r *ProductRepo) AssignCategory(_ context.Context, productID, categoryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	row.p.CategoryID = categoryID
	return nil
}
