package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, category_code, name, slug, description, image, icon, parent_id,
	sort_order, is_active, product_count, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Acepta pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	var parentID *string
	if err := row.Scan(&c.ID, &c.CategoryCode, &c.Name, &c.Slug, &c.Description, &c.Image, &c.Icon, &parentID,
		&c.SortOrder, &c.IsActive, &c.ProductCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ParentID = derefString(parentID)
	return &c, nil
}

// Create persiste una categoría; código o slug repetido devuelve ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, category_code, name, slug, description, image, icon, parent_id,
			sort_order, is_active, product_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CategoryCode, c.Name, c.Slug, c.Description, c.Image, c.Icon, nullString(c.ParentID),
		c.SortOrder, c.IsActive, c.ProductCount, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) getBy(ctx context.Context, cond string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetBySlug obtiene una categoría por slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return r.getBy(ctx, "slug = $1", slug)
}

// GetByCode obtiene una categoría por CAT-NNN.
func (r *CategoryRepo) GetByCode(ctx context.Context, code string) (*entity.Category, error) {
	return r.getBy(ctx, "category_code = $1", code)
}

// Update actualiza los campos editables. El código y el product_count no se tocan.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET name = $2, slug = $3, description = $4, image = $5, icon = $6, parent_id = $7,
			sort_order = $8, is_active = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.Image, c.Icon, nullString(c.ParentID),
		c.SortOrder, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la categoría; los productos quedan sin categoría (ON DELETE SET NULL).
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría tiene subcategorías", domain.ErrConflict)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) list(ctx context.Context, cond string) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE `+cond+` ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListActive categorías activas ordenadas por orden y nombre.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]*entity.Category, error) {
	return r.list(ctx, "is_active")
}

// ListRoots categorías sin padre.
func (r *CategoryRepo) ListRoots(ctx context.Context) ([]*entity.Category, error) {
	return r.list(ctx, "parent_id IS NULL")
}

// ListCodes todos los códigos de categoría.
func (r *CategoryRepo) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT category_code FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("list category codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan category codes: %w", err)
	}
	return codes, nil
}

// CountChildren cuenta las subcategorías directas.
func (r *CategoryRepo) CountChildren(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}
	return n, nil
}

// FallbackImages una imagen por categoría tomada de sus productos activos.
// DISTINCT ON con (image = placeholder) en el ORDER BY deja primero las imágenes reales.
func (r *CategoryRepo) FallbackImages(ctx context.Context, categoryIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT DISTINCT ON (category_id) category_id, image
		FROM products
		WHERE category_id = ANY($1::uuid[]) AND is_active AND image <> ''
		ORDER BY category_id, (image = $2), created_at`
	rows, err := r.q.Query(ctx, query, categoryIDs, entity.PlaceholderImage)
	if err != nil {
		return nil, fmt.Errorf("fallback images: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, image string
		if err := rows.Scan(&id, &image); err != nil {
			return nil, fmt.Errorf("scan fallback image: %w", err)
		}
		out[id] = image
	}
	return out, rows.Err()
}

// RecountProducts recalcula product_count con los productos activos de cada categoría.
func (r *CategoryRepo) RecountProducts(ctx context.Context) (int, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE categories c SET product_count = (
			SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.is_active
		)`)
	if err != nil {
		return 0, fmt.Errorf("recount products: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}
