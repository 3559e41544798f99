package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/memory"
)

func newImportUC() (*usecase.ProductImportUseCase, *memory.Store) {
	st := memory.NewStore()
	return usecase.NewProductImportUseCase(st.Products(), st.Categories()), st
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación de productos
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_FilaConPrecioInvalidoNoDetieneElResto(t *testing.T) {
	uc, st := newImportUC()
	csv := "productId,name,description,quantity,image,price\n" +
		"TZ-1,Taza blanca,Cerámica,10,/img/taza.jpg,4990\n" +
		"TZ-2,Taza negra,Cerámica,5,/img/negra.jpg,abc\n" +
		"TZ-3,Taza roja,Cerámica,0,,\"$3.990\"\n"

	res, err := uc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.True(t, strings.HasPrefix(res.Errors[0], "Fila 2:"), "el error indica la fila de datos: %s", res.Errors[0])

	p, err := st.Products().GetByCode(context.Background(), "TZ-3")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, p.Price)
	assert.Equal(t, "3990", p.Price.String(), "el precio acepta formato local")
	assert.Equal(t, "/placeholder-product.jpg", p.Image)
	assert.True(t, p.IsActive)

	missing, err := st.Products().GetByCode(context.Background(), "TZ-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestImport_ActualizaPorProductIDYResuelveCategoria(t *testing.T) {
	uc, st := newImportUC()
	cat := seedCategory(t, st, "CAT-007", "Tazas", "tazas", "")
	seedProduct(t, st, "TZ-1", "Nombre viejo", "", true)

	csv := "productId;name;description;quantity;image;category;featured;isActive\n" +
		"TZ-1;Taza nueva;Desc;3;/img/a.jpg;CAT-007;true;false\n"

	res, err := uc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Empty(t, res.Errors)

	p, err := st.Products().GetByCode(context.Background(), "TZ-1")
	require.NoError(t, err)
	assert.Equal(t, "Taza nueva", p.Name)
	assert.Equal(t, "taza-nueva", p.Slug)
	assert.Equal(t, cat.ID, p.CategoryID)
	assert.True(t, p.Featured)
	assert.False(t, p.IsActive)
	assert.Equal(t, 3, p.Quantity)
}

func TestImport_FaltanColumnas(t *testing.T) {
	uc, _ := newImportUC()
	_, err := uc.Import(context.Background(), strings.NewReader("productId,name\nTZ-1,Taza\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_ArchivoSinFilas(t *testing.T) {
	uc, _ := newImportUC()
	_, err := uc.Import(context.Background(), strings.NewReader("productId,name,description,quantity,image\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Import(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_ArchivoWindows1252(t *testing.T) {
	uc, st := newImportUC()
	// "Cerámica" con á = 0xE1 en Windows-1252
	csv := "productId,name,description,quantity,image\nTZ-9,Taza,Cer\xe1mica,1,\n"

	res, err := uc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	p, err := st.Products().GetByCode(context.Background(), "TZ-9")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Cerámica", p.Description)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación de precios
// ──────────────────────────────────────────────────────────────────────────────

func TestImportPrices_AliasYOferta(t *testing.T) {
	uc, st := newImportUC()
	seedProduct(t, st, "TZ-1", "Taza", "", true)
	seedProduct(t, st, "TZ-2", "Gorro", "", true)

	csv := "\ufeffCodigo;Precio;Precio_Oferta\n" +
		"TZ-1;$12.990;9.990\n" +
		"TZ-2;5000;6000\n" +
		";1000;\n"

	res, err := uc.ImportPrices(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, 0, res.NotFound)
	assert.Equal(t, 0, res.TotalErrors)

	p1, _ := st.Products().GetByCode(context.Background(), "TZ-1")
	assert.Equal(t, "12990", p1.Price.String())
	require.NotNil(t, p1.SalePrice)
	assert.Equal(t, "9990", p1.SalePrice.String())

	p2, _ := st.Products().GetByCode(context.Background(), "TZ-2")
	assert.Equal(t, "5000", p2.Price.String())
	assert.Nil(t, p2.SalePrice, "una oferta mayor o igual al precio se ignora")
}

func TestImportPrices_OfertaVigenteQueQuedaSobreElPrecioSeQuita(t *testing.T) {
	uc, st := newImportUC()
	p := seedProduct(t, st, "TZ-1", "Taza", "", true)
	require.NoError(t, st.Products().UpdatePrices(context.Background(), p.ID, *price("10000"), price("8000")))

	res, err := uc.ImportPrices(context.Background(), strings.NewReader("sku,price\nTZ-1,7000\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	got, _ := st.Products().GetByCode(context.Background(), "TZ-1")
	assert.Nil(t, got.SalePrice)
}

func TestImportPrices_TopeDeErrores(t *testing.T) {
	uc, _ := newImportUC()
	var b strings.Builder
	b.WriteString("productId,price\n")
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&b, "NO-%d,1000\n", i)
	}

	res, err := uc.ImportPrices(context.Background(), strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 25, res.NotFound)
	assert.Equal(t, 25, res.TotalErrors)
	assert.Len(t, res.Errors, usecase.MaxReportedErrors)
	assert.Contains(t, res.Errors[0], "Fila 1:")
}

func TestImportPrices_SinColumnaDePrecio(t *testing.T) {
	uc, _ := newImportUC()
	_, err := uc.ImportPrices(context.Background(), strings.NewReader("sku,stock\nTZ-1,3\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// failingProducts falla la lectura de un código puntual.
type failingProducts struct {
	repository.ProductRepository
	failCode string
}

func (f failingProducts) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	if code == f.failCode {
		return nil, errors.New("conn reset")
	}
	return f.ProductRepository.GetByCode(ctx, code)
}

func TestImportPrices_ErrorDeLecturaNoDetieneElLote(t *testing.T) {
	st := memory.NewStore()
	seedProduct(t, st, "A", "Taza", "", true)
	seedProduct(t, st, "B", "Gorro", "", true)
	seedProduct(t, st, "C", "Llavero", "", true)
	uc := usecase.NewProductImportUseCase(failingProducts{ProductRepository: st.Products(), failCode: "B"}, st.Categories())

	res, err := uc.ImportPrices(context.Background(), strings.NewReader("sku;precio\nA;100\nB;200\nC;300\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, 1, res.TotalErrors)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Fila 2:")

	c, _ := st.Products().GetByCode(context.Background(), "C")
	require.NotNil(t, c.Price)
	assert.Equal(t, "300", c.Price.String(), "las filas siguientes se procesan")
}
