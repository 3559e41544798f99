package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
	"github.com/jhoicas/suvenirs-api/pkg/logger"
	"github.com/jhoicas/suvenirs-api/pkg/money"
	"github.com/jhoicas/suvenirs-api/pkg/slug"
)

// MaxReportedErrors tope de errores devueltos por la importación de precios.
const MaxReportedErrors = 20

// Columnas obligatorias de la importación de productos (nombres exactos).
var productImportColumns = []string{"productId", "name", "description", "quantity", "image"}

// Alias aceptados por la importación de precios (cabeceras en minúsculas).
var (
	priceIDAliases    = []string{"productid", "codigo", "id", "product_id", "sku"}
	priceValueAliases = []string{"price", "precio", "valor", "monto", "price_clp"}
	priceSaleAliases  = []string{"saleprice", "sale_price", "precio_oferta", "descuento"}
)

// ProductImportUseCase carga masiva de productos y de precios desde CSV.
type ProductImportUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductImportUseCase construye el caso de uso.
func NewProductImportUseCase(products repository.ProductRepository, categories repository.CategoryRepository) *ProductImportUseCase {
	return &ProductImportUseCase{products: products, categories: categories}
}

// csvTable cabecera más filas de datos; rows[i] corresponde a la fila de datos i+1.
type csvTable struct {
	header []string
	rows   []csvRow
}

type csvRow struct {
	num    int
	fields []string
	err    error
}

// readCSV lee el archivo completo. El separador es ';' si la cabecera lo contiene, si no ','.
func readCSV(r io.Reader) (*csvTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	// Excel exporta en Windows-1252 cuando no se elige UTF-8.
	if !utf8.Valid(data) {
		if data, err = charmap.Windows1252.NewDecoder().Bytes(data); err != nil {
			return nil, invalid("codificación no soportada: %v", err)
		}
	}
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	if bytes.IndexByte(firstLine, ';') >= 0 {
		cr.Comma = ';'
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, invalid("el archivo está vacío")
	}
	if err != nil {
		return nil, invalid("cabecera ilegible: %v", err)
	}
	t := &csvTable{header: make([]string, len(header))}
	for i, h := range header {
		t.header[i] = strings.TrimSpace(h)
	}
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if err != nil && !errors.As(err, &pe) {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if err == nil && isBlank(rec) {
			n--
			continue
		}
		t.rows = append(t.rows, csvRow{num: n, fields: rec, err: err})
	}
	if len(t.rows) == 0 {
		return nil, invalid("el archivo no tiene filas de datos")
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// index posición de cada columna; con fold=true las claves van en minúsculas.
func (t *csvTable) index(fold bool) map[string]int {
	idx := make(map[string]int, len(t.header))
	for i, h := range t.header {
		if fold {
			h = strings.ToLower(h)
		}
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

func field(rec []string, idx map[string]int, names ...string) string {
	for _, n := range names {
		if i, ok := idx[n]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
	}
	return ""
}

func hasAny(idx map[string]int, names []string) bool {
	for _, n := range names {
		if _, ok := idx[n]; ok {
			return true
		}
	}
	return false
}

// Import crea o actualiza productos por productId. Cada fila se procesa por separado:
// una fila con error se informa como "Fila N: ..." y no detiene el resto.
func (uc *ProductImportUseCase) Import(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	idx := t.index(false)
	var missing []string
	for _, c := range productImportColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, invalid("faltan columnas requeridas: %s", strings.Join(missing, ", "))
	}

	res := &dto.ImportResult{}
	categoryCache := make(map[string]string)
	for _, row := range t.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row.err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Fila %d: formato inválido", row.num))
			continue
		}
		if err := uc.importRow(ctx, row.fields, idx, categoryCache); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Fila %d: %s", row.num, err.Error()))
			continue
		}
		res.Imported++
	}
	logger.FromContext(ctx).Info().Int("imported", res.Imported).Int("errors", len(res.Errors)).Msg("product import finished")
	return res, nil
}

func (uc *ProductImportUseCase) importRow(ctx context.Context, rec []string, idx map[string]int, categoryCache map[string]string) error {
	code := field(rec, idx, "productId")
	if code == "" {
		return errors.New("productId vacío")
	}
	name := field(rec, idx, "name")
	if name == "" {
		return errors.New("name vacío")
	}
	qty, err := money.ParseQuantity(field(rec, idx, "quantity"))
	if err != nil {
		return fmt.Errorf("cantidad inválida %q", field(rec, idx, "quantity"))
	}
	var price *decimal.Decimal
	if raw := field(rec, idx, "price", "precio"); raw != "" {
		v, err := money.ParsePrice(raw)
		if err != nil {
			return fmt.Errorf("precio inválido %q", raw)
		}
		price = &v
	}
	categoryID, err := uc.categoryByCode(ctx, field(rec, idx, "category"), categoryCache)
	if err != nil {
		return err
	}

	p, err := uc.products.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	now := time.Now()
	isNew := p == nil
	if isNew {
		p = &entity.Product{ID: uuid.New().String(), ProductCode: code, CreatedAt: now}
	}
	if isNew || p.Name != name {
		p.Slug = slug.Make(name)
	}
	p.Name = name
	p.Description = field(rec, idx, "description")
	p.Quantity = qty
	p.Image = field(rec, idx, "image")
	p.CategoryID = categoryID
	p.Featured = strings.EqualFold(field(rec, idx, "featured"), "true")
	p.IsActive = !strings.EqualFold(field(rec, idx, "isActive"), "false")
	if price != nil {
		p.Price = price
	}
	p.UpdatedAt = now
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return err
	}
	if isNew {
		err = uc.products.Create(ctx, p)
	} else {
		err = uc.products.Update(ctx, p)
	}
	if err != nil {
		return fmt.Errorf("no se pudo guardar: %w", err)
	}
	return nil
}

// categoryByCode resuelve un código CAT-NNN; un código desconocido deja el producto sin categoría.
func (uc *ProductImportUseCase) categoryByCode(ctx context.Context, code string, cache map[string]string) (string, error) {
	if code == "" {
		return "", nil
	}
	if id, ok := cache[code]; ok {
		return id, nil
	}
	c, err := uc.categories.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	id := ""
	if c != nil {
		id = c.ID
	}
	cache[code] = id
	return id, nil
}

// ImportPrices actualiza price y salePrice de productos existentes. Las cabeceras no distinguen
// mayúsculas y aceptan alias en español. Filas sin id o sin precio se omiten.
func (uc *ProductImportUseCase) ImportPrices(ctx context.Context, r io.Reader) (*dto.PriceImportResult, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	idx := t.index(true)
	if !hasAny(idx, priceIDAliases) {
		return nil, invalid("falta la columna de producto (%s)", strings.Join(priceIDAliases, ", "))
	}
	if !hasAny(idx, priceValueAliases) {
		return nil, invalid("falta la columna de precio (%s)", strings.Join(priceValueAliases, ", "))
	}

	res := &dto.PriceImportResult{}
	var all []string
	for _, row := range t.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row.err != nil {
			all = append(all, fmt.Sprintf("Fila %d: formato inválido", row.num))
			continue
		}
		code := field(row.fields, idx, priceIDAliases...)
		rawPrice := field(row.fields, idx, priceValueAliases...)
		if code == "" || rawPrice == "" {
			continue
		}
		price, err := money.ParsePrice(rawPrice)
		if err != nil || price.IsNegative() {
			all = append(all, fmt.Sprintf("Fila %d: precio inválido %q", row.num, rawPrice))
			continue
		}
		var sale *decimal.Decimal
		if raw := field(row.fields, idx, priceSaleAliases...); raw != "" {
			if v, err := money.ParsePrice(raw); err == nil && !v.IsNegative() && v.LessThan(price) {
				sale = &v
			}
		}

		p, err := uc.products.GetByCode(ctx, code)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("code", code).Int("row", row.num).Msg("price import lookup failed")
			all = append(all, fmt.Sprintf("Fila %d: no se pudo leer %q", row.num, code))
			continue
		}
		if p == nil {
			res.NotFound++
			all = append(all, fmt.Sprintf("Fila %d: producto %q no encontrado", row.num, code))
			continue
		}
		// Sin oferta válida se conserva la vigente, salvo que deje de ser menor al nuevo precio.
		if sale == nil && p.SalePrice != nil && p.SalePrice.LessThan(price) {
			sale = p.SalePrice
		}
		if err := uc.products.UpdatePrices(ctx, p.ID, price, sale); err != nil {
			all = append(all, fmt.Sprintf("Fila %d: no se pudo actualizar %q", row.num, code))
			continue
		}
		res.Updated++
	}
	res.TotalErrors = len(all)
	if len(all) > MaxReportedErrors {
		all = all[:MaxReportedErrors]
	}
	res.Errors = all
	logger.FromContext(ctx).Info().Int("updated", res.Updated).Int("not_found", res.NotFound).Int("errors", res.TotalErrors).Msg("price import finished")
	return res, nil
}
