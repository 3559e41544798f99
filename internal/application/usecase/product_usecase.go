package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
	"github.com/jhoicas/suvenirs-api/pkg/slug"
)

// Tamaños de página por defecto.
const (
	DefaultProductLimit      = 12
	DefaultAdminProductLimit = 20
)

// ProductUseCase catálogo de productos: listados, lectura y CRUD admin.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories}
}

// List listado público: solo activos, búsqueda de texto, categorías, destacados y modo aleatorio.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.Page[dto.ProductResponse], error) {
	q.PageRequest = q.PageRequest.Normalize(DefaultProductLimit)
	f := repository.ProductFilter{
		Search:   strings.TrimSpace(q.Search),
		IsActive: boolPtr(true),
	}
	if q.Featured != nil && *q.Featured {
		f.Featured = boolPtr(true)
	}
	ids, err := uc.resolveCategories(ctx, q.Category)
	if err != nil {
		return nil, err
	}
	f.CategoryIDs = ids

	if q.Random {
		list, err := uc.repo.Random(ctx, f, q.Limit)
		if err != nil {
			return nil, err
		}
		items := toProductResponses(list)
		return &dto.Page[dto.ProductResponse]{
			Items:      items,
			Pagination: dto.Pagination{Page: 1, Limit: q.Limit, Total: len(items), TotalPages: 1},
		}, nil
	}
	return uc.list(ctx, f, q.PageRequest)
}

// AdminList incluye inactivos; la búsqueda es por subcadena en nombre, productId y descripción.
func (uc *ProductUseCase) AdminList(ctx context.Context, q dto.ProductListQuery) (*dto.Page[dto.ProductResponse], error) {
	q.PageRequest = q.PageRequest.Normalize(DefaultAdminProductLimit)
	f := repository.ProductFilter{
		Contains: strings.TrimSpace(q.Search),
		Featured: q.Featured,
		IsActive: q.IsActive,
	}
	ids, err := uc.resolveCategories(ctx, q.Category)
	if err != nil {
		return nil, err
	}
	f.CategoryIDs = ids
	return uc.list(ctx, f, q.PageRequest)
}

func (uc *ProductUseCase) list(ctx context.Context, f repository.ProductFilter, p dto.PageRequest) (*dto.Page[dto.ProductResponse], error) {
	list, total, err := uc.repo.List(ctx, f, sortSpec(p, "createdAt"), pageOf(p))
	if err != nil {
		return nil, err
	}
	return &dto.Page[dto.ProductResponse]{
		Items:      toProductResponses(list),
		Pagination: dto.NewPagination(p.Page, p.Limit, total),
	}, nil
}

// resolveCategories traduce "slug-a,slug-b,<uuid>" a ids de categoría.
// Los valores que no corresponden a ninguna categoría se descartan; si ninguno resuelve no se filtra.
func (uc *ProductUseCase) resolveCategories(ctx context.Context, raw string) ([]string, error) {
	var ids []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if isUUID(token) {
			ids = append(ids, token)
			continue
		}
		c, err := uc.categories.GetBySlug(ctx, token)
		if err != nil {
			return nil, err
		}
		if c != nil {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

// GetByID obtiene un producto; si includeInactive es false solo devuelve activos.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string, includeInactive bool) (*dto.ProductResponse, error) {
	if !isUUID(id) {
		return nil, notFound("producto")
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || (!includeInactive && !p.IsActive) {
		return nil, notFound("producto")
	}
	return toProductResponse(p), nil
}

// GetBySlug obtiene un producto activo por slug.
func (uc *ProductUseCase) GetBySlug(ctx context.Context, s string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetBySlug(ctx, s)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, notFound("producto")
	}
	return toProductResponse(p), nil
}

// Create crea un producto con moneda CLP e imagen placeholder por defecto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	categoryID, err := uc.categoryID(ctx, in.Category)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		ProductCode: strings.TrimSpace(in.ProductID),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  categoryID,
		Quantity:    in.Quantity,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		Currency:    in.Currency,
		Image:       in.Image,
		Featured:    in.Featured,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Slug = slug.Make(p.Name)
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateProduct()
		}
		return nil, err
	}
	return uc.reload(ctx, p)
}

// Update aplica los campos enviados; el slug se recalcula si cambia el nombre.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !isUUID(id) {
		return nil, notFound("producto")
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("producto")
	}
	if in.ProductID != nil {
		p.ProductCode = strings.TrimSpace(*in.ProductID)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != p.Name {
			p.Name = name
			p.Slug = slug.Make(name)
		}
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category.Set {
		categoryID, err := uc.categoryID(ctx, in.Category.Value)
		if err != nil {
			return nil, err
		}
		p.CategoryID = categoryID
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Price != nil {
		p.Price = in.Price
	}
	if in.ClearSale {
		p.SalePrice = nil
	} else if in.SalePrice != nil {
		p.SalePrice = in.SalePrice
	}
	if in.Currency != nil {
		p.Currency = *in.Currency
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return nil, invalid("%s", err.Error())
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateProduct()
		}
		return nil, err
	}
	return uc.reload(ctx, p)
}

// Delete borra el producto. Las cotizaciones guardan su propia copia de los ítems.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return notFound("producto")
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return notFound("producto")
	}
	return uc.repo.Delete(ctx, id)
}

// categoryID valida la categoría indicada (id o slug); vacío significa sin categoría.
func (uc *ProductUseCase) categoryID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	var (
		c   *entity.Category
		err error
	)
	if isUUID(ref) {
		c, err = uc.categories.GetByID(ctx, ref)
	} else {
		c, err = uc.categories.GetBySlug(ctx, ref)
	}
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", invalid("la categoría %q no existe", ref)
	}
	return c.ID, nil
}

// reload vuelve a leer el producto para incluir la categoría.
func (uc *ProductUseCase) reload(ctx context.Context, p *entity.Product) (*dto.ProductResponse, error) {
	fresh, err := uc.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		fresh = p
	}
	return toProductResponse(fresh), nil
}

func duplicateProduct() error {
	return fmt.Errorf("%w: ya existe un producto con ese productId o slug", domain.ErrConflict)
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:          p.ID,
		ProductID:   p.ProductCode,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Quantity:    p.Quantity,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		Currency:    p.Currency,
		Image:       p.Image,
		Featured:    p.Featured,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		out.Category = &dto.CategoryRefResponse{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
	}
	return out
}
