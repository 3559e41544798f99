package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `
	p.id, p.product_code, p.name, p.slug, p.description, p.category_id, p.quantity,
	p.price, p.sale_price, p.currency, p.image, p.featured, p.is_active, p.created_at, p.updated_at,
	c.name, c.slug`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

var productSortColumns = map[string]string{
	"createdAt": "p.created_at",
	"updatedAt": "p.updated_at",
	"name":      "p.name",
	"productId": "p.product_code",
	"quantity":  "p.quantity",
	"price":     "p.price",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p                entity.Product
		categoryID       *string
		catName, catSlug *string
		price, salePrice *decimal.Decimal
	)
	if err := row.Scan(
		&p.ID, &p.ProductCode, &p.Name, &p.Slug, &p.Description, &categoryID, &p.Quantity,
		&price, &salePrice, &p.Currency, &p.Image, &p.Featured, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&catName, &catSlug,
	); err != nil {
		return nil, err
	}
	p.Price, p.SalePrice = price, salePrice
	p.CategoryID = derefString(categoryID)
	if categoryID != nil && catName != nil {
		p.Category = &entity.CategoryRef{ID: *categoryID, Name: *catName, Slug: derefString(catSlug)}
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, product_code, name, slug, description, category_id, quantity, price, sale_price,
			currency, image, featured, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ProductCode, p.Name, p.Slug, p.Description, nullString(p.CategoryID), p.Quantity,
		p.Price, p.SalePrice, p.Currency, p.Image, p.Featured, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getBy(ctx context.Context, cond string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getBy(ctx, "p.id = $1", id)
}

// GetByCode obtiene un producto por productId.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getBy(ctx, "p.product_code = $1", code)
}

// GetBySlug obtiene un producto por slug (activo o no; el filtro lo aplica el caso de uso).
func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return r.getBy(ctx, "p.slug = $1", slug)
}

// Update reemplaza los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET product_code = $2, name = $3, slug = $4, description = $5, category_id = $6,
			quantity = $7, price = $8, sale_price = $9, currency = $10, image = $11, featured = $12,
			is_active = $13, updated_at = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.ProductCode, p.Name, p.Slug, p.Description, nullString(p.CategoryID),
		p.Quantity, p.Price, p.SalePrice, p.Currency, p.Image, p.Featured, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePrices actualiza precio y precio oferta (usado por la importación de precios).
func (r *ProductRepo) UpdatePrices(ctx context.Context, id string, price decimal.Decimal, salePrice *decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET price = $2, sale_price = $3, updated_at = now() WHERE id = $1`,
		id, price, salePrice,
	)
	if err != nil {
		return fmt.Errorf("update product prices: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func productWhere(f repository.ProductFilter) *where {
	w := &where{}
	if f.IsActive != nil {
		w.add("p.is_active = ?", *f.IsActive)
	}
	if f.Featured != nil {
		w.add("p.featured = ?", *f.Featured)
	}
	if f.OutOfStock {
		w.add("p.quantity = 0")
	}
	if f.Search != "" {
		w.add("to_tsvector('spanish', p.name || ' ' || p.description) @@ plainto_tsquery('spanish', ?)", f.Search)
	}
	if f.Contains != "" {
		pattern := likePattern(f.Contains)
		w.add("(p.name ILIKE ? OR p.product_code ILIKE ? OR p.description ILIKE ?)", pattern, pattern, pattern)
	}
	if len(f.CategoryIDs) > 0 {
		w.add("p.category_id = ANY(?::uuid[])", f.CategoryIDs)
	}
	return w
}

func (r *ProductRepo) query(ctx context.Context, sql string, args []any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// List devuelve la página pedida y el total de coincidencias.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, sort repository.SortSpec, page repository.Page) ([]*entity.Product, int, error) {
	total, err := r.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	w := productWhere(f)
	sql := `SELECT ` + productColumns + productFrom + w.sql() +
		orderBy(sort, productSortColumns, "p.created_at") + w.limitOffset(page)
	list, err := r.query(ctx, sql, w.args)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Random hasta n productos al azar.
func (r *ProductRepo) Random(ctx context.Context, f repository.ProductFilter, n int) ([]*entity.Product, error) {
	w := productWhere(f)
	sql := `SELECT ` + productColumns + productFrom + w.sql() + ` ORDER BY random() LIMIT ` + w.arg(n)
	return r.query(ctx, sql, w.args)
}

// Count cuenta los productos que cumplen el filtro.
func (r *ProductRepo) Count(ctx context.Context, f repository.ProductFilter) (int, error) {
	w := productWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// ListUncategorizedIDs ids de productos sin categoría.
func (r *ProductRepo) ListUncategorizedIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM products WHERE category_id IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list uncategorized: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan uncategorized: %w", err)
	}
	return ids, nil
}

// AssignCategory asigna la categoría a un producto.
func (r *ProductRepo) AssignCategory(ctx context.Context, productID, categoryID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET category_id = $2, updated_at = now() WHERE id = $1`, productID, categoryID)
	if err != nil {
		return fmt.Errorf("assign category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
