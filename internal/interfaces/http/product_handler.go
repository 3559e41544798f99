package http

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain"
)

// ProductHandler maneja las peticiones HTTP del catálogo de productos.
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	importer *usecase.ProductImportUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, imp *usecase.ProductImportUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, importer: imp}
}

func productListQuery(c *fiber.Ctx) dto.ProductListQuery {
	return dto.ProductListQuery{
		PageRequest: pageRequest(c),
		Search:      strings.TrimSpace(c.Query("search")),
		Category:    c.Query("category"),
		Featured:    boolQuery(c, "featured"),
		IsActive:    boolQuery(c, "isActive"),
		Random:      c.QueryBool("random", false),
	}
}

// List godoc
// @Summary      Listar productos activos
// @Tags         products
// @Produce      json
// @Param        search    query  string  false  "Búsqueda de texto"
// @Param        category  query  string  false  "Slugs o ids separados por coma"
// @Param        featured  query  bool    false  "Solo destacados"
// @Param        random    query  bool    false  "Muestra aleatoria de tamaño limit"
// @Param        page      query  int     false  "Página"   default(1)
// @Param        limit     query  int     false  "Límite"   default(12)
// @Param        sort      query  string  false  "Campo de orden"
// @Param        order     query  string  false  "asc | desc"
// @Success      200       {object}  dto.Response
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := productListQuery(c)
	q.IsActive = nil
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return paged(c, out)
}

// AdminList godoc
// @Summary      Listar productos (admin, incluye inactivos)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Subcadena en nombre, productId o descripción"
// @Param        category  query  string  false  "Slugs o ids separados por coma"
// @Param        featured  query  bool    false  "Destacados"
// @Param        isActive  query  bool    false  "Activos / inactivos"
// @Param        page      query  int     false  "Página"   default(1)
// @Param        limit     query  int     false  "Límite"   default(20)
// @Success      200       {object}  dto.Response
// @Failure      401       {object}  dto.ErrorResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Router       /api/admin/products [get]
func (h *ProductHandler) AdminList(c *fiber.Ctx) error {
	out, err := h.uc.AdminList(c.UserContext(), productListQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return paged(c, out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Description  Los productos inactivos solo son visibles para administradores.
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.Response{data=dto.ProductResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"), false)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// AdminGetByID devuelve el producto aunque esté inactivo.
// @Summary      Obtener producto por ID (admin)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.Response{data=dto.ProductResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/products/{id} [get]
func (h *ProductHandler) AdminGetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"), true)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetBySlug godoc
// @Summary      Obtener producto por slug
// @Tags         products
// @Produce      json
// @Param        slug  path  string  true  "Slug del producto"
// @Success      200   {object}  dto.Response{data=dto.ProductResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/slug/{slug} [get]
func (h *ProductHandler) GetBySlug(c *fiber.Ctx) error {
	out, err := h.uc.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.Response{data=dto.ProductResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.Response{data=dto.ProductResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return message(c, "producto eliminado")
}

// Import godoc
// @Summary      Importar productos desde CSV
// @Description  Columnas: productId, name, description, quantity, image; opcionales category, featured, isActive, price/precio.
// @Description  Las filas con error se informan en errors y no detienen la importación.
// @Tags         admin
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV"
// @Success      200   {object}  dto.Response{data=dto.ImportResult}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/admin/products/import [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	r, err := csvUpload(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.importer.Import(c.UserContext(), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{
		Success: true,
		Data:    out,
		Message: fmt.Sprintf("%d productos importados", out.Imported),
	})
}

// ImportPrices godoc
// @Summary      Actualizar precios desde CSV
// @Description  Columna id: productId, codigo, id, product_id o sku. Columna precio: price, precio, valor, monto o price_clp.
// @Tags         admin
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV"
// @Success      200   {object}  dto.Response{data=dto.PriceImportResult}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/admin/products/import-prices [post]
func (h *ProductHandler) ImportPrices(c *fiber.Ctx) error {
	r, err := csvUpload(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.importer.ImportPrices(c.UserContext(), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{
		Success: true,
		Data:    out,
		Message: fmt.Sprintf("%d precios actualizados", out.Updated),
	})
}

// csvUpload toma el archivo del campo "file"; si no hay multipart usa el cuerpo crudo (text/csv).
// El tamaño lo limita BodyLimit de Fiber.
func csvUpload(c *fiber.Ctx) (io.Reader, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("abrir archivo: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("leer archivo: %w", err)
		}
		return bytes.NewReader(data), nil
	}
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 || strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, fmt.Errorf("%w: se requiere un archivo CSV en el campo file", domain.ErrInvalidInput)
	}
	return bytes.NewReader(append([]byte(nil), body...)), nil
}
