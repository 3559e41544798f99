package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
	"github.com/jhoicas/suvenirs-api/pkg/logger"
	"github.com/jhoicas/suvenirs-api/pkg/slug"
)

// createAttempts reintentos cuando otro alta toma el mismo código CAT-NNN.
const createAttempts = 3

// maxCategoryDepth tope de niveles al recorrer ancestros.
const maxCategoryDepth = 32

// CategoryUseCase árbol de categorías y reconciliación de productCount.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
	tx       TxRunner
}

// NewCategoryUseCase construye el caso de uso. La reconciliación y la baja corren en tx.
func NewCategoryUseCase(repo repository.CategoryRepository, products repository.ProductRepository, tx TxRunner) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, products: products, tx: tx}
}

// List categorías activas por (orden, nombre). Las que no tienen imagen toman la de un producto
// activo de la categoría; el relleno no se persiste.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, c := range list {
		if strings.TrimSpace(c.Image) == "" {
			missing = append(missing, c.ID)
		}
	}
	var images map[string]string
	if len(missing) > 0 {
		images, err = uc.repo.FallbackImages(ctx, missing)
		if err != nil {
			return nil, err
		}
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		if strings.TrimSpace(c.Image) == "" {
			c.Image = images[c.ID]
		}
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// GetByID obtiene una categoría, activa o no.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// GetBySlug obtiene una categoría activa.
func (uc *CategoryUseCase) GetBySlug(ctx context.Context, s string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetBySlug(ctx, s)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive {
		return nil, notFound("categoría")
	}
	return toCategoryResponse(c), nil
}

// Create asigna el siguiente código CAT-NNN y deriva el slug del nombre.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("el nombre es requerido")
	}
	parentID, err := uc.parent(ctx, "", in.Parent)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		Icon:        strings.TrimSpace(in.Icon),
		ParentID:    parentID,
		SortOrder:   in.Order,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing, err := uc.repo.GetBySlug(ctx, c.Slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: ya existe una categoría con el slug %q", domain.ErrConflict, c.Slug)
	}
	for attempt := 1; ; attempt++ {
		codes, err := uc.repo.ListCodes(ctx)
		if err != nil {
			return nil, err
		}
		c.CategoryCode = entity.NextCategoryCode(codes)
		err = uc.repo.Create(ctx, c)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt == createAttempts {
			if errors.Is(err, domain.ErrDuplicate) {
				return nil, fmt.Errorf("%w: no se pudo asignar un código de categoría", domain.ErrConflict)
			}
			return nil, err
		}
	}
	return toCategoryResponse(c), nil
}

// Update aplica los campos enviados. El código CAT-NNN no cambia.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != c.Name {
			c.Name = name
			c.Slug = slug.Make(name)
		}
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Parent.Set {
		parentID, err := uc.parent(ctx, c.ID, in.Parent.Value)
		if err != nil {
			return nil, err
		}
		c.ParentID = parentID
	}
	if in.Order != nil {
		c.SortOrder = *in.Order
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.Image != nil {
		c.Image = strings.TrimSpace(*in.Image)
	}
	if in.Icon != nil {
		c.Icon = strings.TrimSpace(*in.Icon)
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: ya existe una categoría con el slug %q", domain.ErrConflict, c.Slug)
		}
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Delete rechaza categorías con productos (según productCount) o con subcategorías.
// Las verificaciones y el borrado van en la misma transacción.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return notFound("categoría")
	}
	return uc.tx.RunCatalog(ctx, func(categories repository.CategoryRepository, _ repository.ProductRepository) error {
		c, err := categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound("categoría")
		}
		if c.ProductCount > 0 {
			return fmt.Errorf("%w: la categoría tiene %d productos; reasígnalos antes de eliminarla", domain.ErrConflict, c.ProductCount)
		}
		children, err := categories.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return fmt.Errorf("%w: la categoría tiene %d subcategorías", domain.ErrConflict, children)
		}
		return categories.Delete(ctx, id)
	})
}

// Reconcile recalcula productCount de todas las categorías. Con assignRandom, antes asigna
// una categoría raíz al azar a cada producto sin categoría. Es idempotente; si algo falla
// no queda ninguna asignación a medias.
func (uc *CategoryUseCase) Reconcile(ctx context.Context, assignRandom bool) (*dto.ReconcileResult, error) {
	res := &dto.ReconcileResult{}
	err := uc.tx.RunCatalog(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository) error {
		res.Assigned = 0
		if assignRandom {
			assigned, err := assignRandomRoots(ctx, categories, products)
			if err != nil {
				return err
			}
			res.Assigned = assigned
		}
		n, err := categories.RecountProducts(ctx)
		if err != nil {
			return err
		}
		res.Categories = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info().Int("categories", res.Categories).Int("assigned", res.Assigned).Msg("category reconciliation finished")
	return res, nil
}

func assignRandomRoots(ctx context.Context, categories repository.CategoryRepository, products repository.ProductRepository) (int, error) {
	ids, err := products.ListUncategorizedIDs(ctx)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	roots, err := categories.ListRoots(ctx)
	if err != nil {
		return 0, err
	}
	if len(roots) == 0 {
		logger.FromContext(ctx).Warn().Int("products", len(ids)).Msg("no root categories to assign uncategorized products")
		return 0, nil
	}
	for _, pid := range ids {
		root := roots[rand.Intn(len(roots))]
		if err := products.AssignCategory(ctx, pid, root.ID); err != nil {
			return 0, fmt.Errorf("assign category to %s: %w", pid, err)
		}
	}
	return len(ids), nil
}

func (uc *CategoryUseCase) get(ctx context.Context, id string) (*entity.Category, error) {
	if !isUUID(id) {
		return nil, notFound("categoría")
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("categoría")
	}
	return c, nil
}

// parent valida la categoría padre; "" deja la categoría como raíz.
func (uc *CategoryUseCase) parent(ctx context.Context, selfID, parentID string) (string, error) {
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return "", nil
	}
	if parentID == selfID {
		return "", invalid("una categoría no puede ser su propio padre")
	}
	if !isUUID(parentID) {
		return "", invalid("la categoría padre no existe")
	}
	p, err := uc.repo.GetByID(ctx, parentID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", invalid("la categoría padre no existe")
	}
	if selfID != "" {
		if err := uc.checkAncestors(ctx, selfID, p); err != nil {
			return "", err
		}
	}
	return p.ID, nil
}

// checkAncestors recorre los ancestros de parent hasta la raíz; selfID entre ellos sería un ciclo.
func (uc *CategoryUseCase) checkAncestors(ctx context.Context, selfID string, parent *entity.Category) error {
	cur := parent
	for depth := 0; cur.ParentID != ""; depth++ {
		if cur.ParentID == selfID {
			return invalid("la categoría padre no puede ser una subcategoría de esta")
		}
		if depth == maxCategoryDepth {
			return invalid("el árbol de categorías supera %d niveles", maxCategoryDepth)
		}
		next, err := uc.repo.GetByID(ctx, cur.ParentID)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	out := &dto.CategoryResponse{
		ID:           c.ID,
		CategoryID:   c.CategoryCode,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		Image:        c.Image,
		Icon:         c.Icon,
		Order:        c.SortOrder,
		IsActive:     c.IsActive,
		ProductCount: c.ProductCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.ParentID != "" {
		parent := c.ParentID
		out.Parent = &parent
	}
	return out
}
