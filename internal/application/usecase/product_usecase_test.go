package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/memory"
)

func newProductUC() (*usecase.ProductUseCase, *memory.Store) {
	st := memory.NewStore()
	return usecase.NewProductUseCase(st.Products(), st.Categories()), st
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado público
// ──────────────────────────────────────────────────────────────────────────────

func TestList_SoloActivos(t *testing.T) {
	uc, st := newProductUC()
	seedProduct(t, st, "P-1", "Taza", "", true)
	seedProduct(t, st, "P-2", "Llavero", "", false)

	page, err := uc.List(context.Background(), dto.ProductListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "P-1", page.Items[0].ProductID)
	assert.Equal(t, dto.Pagination{Page: 1, Limit: usecase.DefaultProductLimit, Total: 1, TotalPages: 1}, page.Pagination)
}

func TestList_FiltroPorVariasCategorias(t *testing.T) {
	uc, st := newProductUC()
	tazas := seedCategory(t, st, "CAT-001", "Tazas", "tazas", "")
	llaveros := seedCategory(t, st, "CAT-002", "Llaveros", "llaveros", "")
	gorros := seedCategory(t, st, "CAT-003", "Gorros", "gorros", "")
	seedProduct(t, st, "P-1", "Taza", tazas.ID, true)
	seedProduct(t, st, "P-2", "Llavero", llaveros.ID, true)
	seedProduct(t, st, "P-3", "Gorro", gorros.ID, true)

	page, err := uc.List(context.Background(), dto.ProductListQuery{Category: "tazas," + llaveros.ID + ",no-existe"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Total, "slug e id se resuelven; los valores desconocidos se descartan")
	for _, p := range page.Items {
		require.NotNil(t, p.Category)
		assert.NotEqual(t, "gorros", p.Category.Slug)
	}
}

func TestList_CategoriaDesconocidaNoFiltra(t *testing.T) {
	uc, st := newProductUC()
	seedProduct(t, st, "P-1", "Taza", "", true)
	seedProduct(t, st, "P-2", "Llavero", "", true)

	page, err := uc.List(context.Background(), dto.ProductListQuery{Category: "inexistente"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Total)
}

func TestList_Aleatorio(t *testing.T) {
	uc, st := newProductUC()
	for _, code := range []string{"P-1", "P-2", "P-3", "P-4", "P-5"} {
		seedProduct(t, st, code, "Producto "+code, "", true)
	}

	q := dto.ProductListQuery{Random: true}
	q.Limit = 3
	page, err := uc.List(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, dto.Pagination{Page: 1, Limit: 3, Total: 3, TotalPages: 1}, page.Pagination)
}

func TestAdminList_IncluyeInactivosYBuscaPorCodigo(t *testing.T) {
	uc, st := newProductUC()
	seedProduct(t, st, "TZ-100", "Taza grande", "", false)
	seedProduct(t, st, "LL-200", "Llavero", "", true)

	page, err := uc.AdminList(context.Background(), dto.ProductListQuery{Search: "tz-1"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "TZ-100", page.Items[0].ProductID)
	assert.Equal(t, usecase.DefaultAdminProductLimit, page.Pagination.Limit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_InactivoSoloParaAdmin(t *testing.T) {
	uc, st := newProductUC()
	p := seedProduct(t, st, "P-1", "Taza", "", false)
	ctx := context.Background()

	_, err := uc.GetByID(ctx, p.ID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := uc.GetByID(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, p.ID, out.ID)

	_, err = uc.GetByID(ctx, "no-es-un-uuid", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetBySlug(t *testing.T) {
	uc, st := newProductUC()
	seedProduct(t, st, "P-1", "Taza", "", true)

	out, err := uc.GetBySlug(context.Background(), "P-1-slug")
	require.NoError(t, err)
	assert.Equal(t, "Taza", out.Name)

	_, err = uc.GetBySlug(context.Background(), "otro")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AplicaDefaults(t *testing.T) {
	uc, st := newProductUC()
	cat := seedCategory(t, st, "CAT-001", "Tazas", "tazas", "")

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		ProductID: "TZ-1",
		Name:      "Tazón Cerámico 11oz",
		Category:  "tazas",
		Quantity:  5,
		Price:     price("4990"),
	})
	require.NoError(t, err)
	assert.Equal(t, "tazon-ceramico-11oz", out.Slug)
	assert.Equal(t, entity.DefaultCurrency, out.Currency)
	assert.Equal(t, entity.PlaceholderImage, out.Image)
	assert.True(t, out.IsActive)
	require.NotNil(t, out.Category)
	assert.Equal(t, cat.ID, out.Category.ID)
}

func TestCreate_OfertaDebeSerMenorAlPrecio(t *testing.T) {
	uc, _ := newProductUC()
	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		ProductID: "TZ-1",
		Name:      "Taza",
		Price:     price("1000"),
		SalePrice: price("1000"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ProductIDDuplicado(t *testing.T) {
	uc, st := newProductUC()
	seedProduct(t, st, "TZ-1", "Taza", "", true)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{ProductID: "TZ-1", Name: "Otra taza"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_CategoriaInexistente(t *testing.T) {
	uc, _ := newProductUC()
	_, err := uc.Create(context.Background(), dto.CreateProductRequest{ProductID: "TZ-1", Name: "Taza", Category: "nada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_CambiaNombreSlugYQuitaCategoria(t *testing.T) {
	uc, st := newProductUC()
	cat := seedCategory(t, st, "CAT-001", "Tazas", "tazas", "")
	p := seedProduct(t, st, "TZ-1", "Taza", cat.ID, true)

	name := "Taza Mágica"
	in := dto.UpdateProductRequest{Name: &name, Category: dto.OptionalString{Set: true}}
	out, err := uc.Update(context.Background(), p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "taza-magica", out.Slug)
	assert.Nil(t, out.Category)
}

func TestUpdate_QuitaOferta(t *testing.T) {
	uc, st := newProductUC()
	p := seedProduct(t, st, "TZ-1", "Taza", "", true)
	ctx := context.Background()

	_, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Price: price("1000"), SalePrice: price("800")})
	require.NoError(t, err)

	out, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{ClearSale: true})
	require.NoError(t, err)
	assert.Nil(t, out.SalePrice)
	require.NotNil(t, out.Price)
	assert.Equal(t, "1000", out.Price.String())
}

func TestDelete(t *testing.T) {
	uc, st := newProductUC()
	p := seedProduct(t, st, "TZ-1", "Taza", "", true)
	ctx := context.Background()

	require.NoError(t, uc.Delete(ctx, p.ID))
	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrNotFound)
}
