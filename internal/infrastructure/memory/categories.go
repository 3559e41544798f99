package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

type categoryRow struct {
	c   entity.Category
	seq int64
}

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	s *Store
}

func (r *CategoryRepo) uniqueTaken(c *entity.Category) bool {
	for id, row := range r.s.categories {
		if id == c.ID {
			continue
		}
		if row.c.CategoryCode == c.CategoryCode || row.c.Slug == c.Slug {
			return true
		}
	}
	return false
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; ok || r.uniqueTaken(category) {
		return domain.ErrDuplicate
	}
	r.s.categories[category.ID] = &categoryRow{c: *category, seq: r.s.nextSeq()}
	return nil
}

func (r *CategoryRepo) find(pred func(*entity.Category) bool) *entity.Category {
	for _, row := range r.s.categories {
		if pred(&row.c) {
			c := row.c
			return &c
		}
	}
	return nil
}

// GetByID busca por id.
func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.find(func(c *entity.Category) bool { return c.ID == id }), nil
}

// GetBySlug busca por slug.
func (r *CategoryRepo) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.find(func(c *entity.Category) bool { return c.Slug == slug }), nil
}

// GetByCode busca por CAT-NNN.
func (r *CategoryRepo) GetByCode(_ context.Context, code string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.find(func(c *entity.Category) bool { return c.CategoryCode == code }), nil
}

// Update reemplaza la categoría.
func (r *CategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.categories[category.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.uniqueTaken(category) {
		return domain.ErrDuplicate
	}
	row.c = *category
	return nil
}

// Delete elimina la categoría; los productos quedan sin categoría.
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	for _, p := range r.s.products {
		if p.p.CategoryID == id {
			p.p.CategoryID = ""
		}
	}
	return nil
}

func (r *CategoryRepo) list(pred func(*entity.Category) bool) []*entity.Category {
	var rows []*categoryRow
	for _, row := range r.s.categories {
		if pred(&row.c) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].c.SortOrder != rows[j].c.SortOrder {
			return rows[i].c.SortOrder < rows[j].c.SortOrder
		}
		return rows[i].c.Name < rows[j].c.Name
	})
	out := make([]*entity.Category, 0, len(rows))
	for _, row := range rows {
		c := row.c
		out = append(out, &c)
	}
	return out
}

// ListActive categorías activas por orden y nombre.
func (r *CategoryRepo) ListActive(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(c *entity.Category) bool { return c.IsActive }), nil
}

// ListRoots categorías sin padre.
func (r *CategoryRepo) ListRoots(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(c *entity.Category) bool { return c.ParentID == "" }), nil
}

// ListCodes todos los códigos.
func (r *CategoryRepo) ListCodes(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	codes := make([]string, 0, len(r.s.categories))
	for _, row := range r.s.categories {
		codes = append(codes, row.c.CategoryCode)
	}
	return codes, nil
}

// CountChildren cuenta las categorías hijas.
func (r *CategoryRepo) CountChildren(_ context.Context, id string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, row := range r.s.categories {
		if row.c.ParentID == id {
			n++
		}
	}
	return n, nil
}

// FallbackImages imagen de un producto activo por categoría, prefiriendo no placeholder.
func (r *CategoryRepo) FallbackImages(_ context.Context, categoryIDs []string) (map[string]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]string, len(categoryIDs))
	for _, id := range categoryIDs {
		for _, p := range r.s.products {
			if p.p.CategoryID != id || !p.p.IsActive || p.p.Image == "" {
				continue
			}
			cur, ok := out[id]
			if !ok || (cur == entity.PlaceholderImage && p.p.Image != entity.PlaceholderImage) {
				out[id] = p.p.Image
			}
		}
	}
	return out, nil
}

// RecountProducts recalcula product_count con los productos activos de cada categoría.
func (r *CategoryRepo) RecountProducts(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for _, p := range r.s.products {
		if p.p.IsActive && p.p.CategoryID != "" {
			counts[p.p.CategoryID]++
		}
	}
	for id, row := range r.s.categories {
		row.c.ProductCount = counts[id]
	}
	return len(r.s.categories), nil
}
