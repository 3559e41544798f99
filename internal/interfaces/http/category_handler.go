package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
)

// CategoryHandler maneja las peticiones HTTP de categorías.
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// List godoc
// @Summary      Listar categorías activas
// @Description  Ordenadas por sortOrder y nombre. Sin imagen propia se usa la de un producto de la categoría.
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dto.Response{data=[]dto.CategoryResponse}
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Obtener categoría por ID
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.Response{data=dto.CategoryResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetBySlug godoc
// @Summary      Obtener categoría activa por slug
// @Tags         categories
// @Produce      json
// @Param        slug  path  string  true  "Slug"
// @Success      200   {object}  dto.Response{data=dto.CategoryResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/slug/{slug} [get]
func (h *CategoryHandler) GetBySlug(c *fiber.Ctx) error {
	out, err := h.uc.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear categoría
// @Description  El código CAT-NNN se asigna automáticamente.
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.Response{data=dto.CategoryResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
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
// @Summary      Actualizar categoría
// @Description  "parent": null o "" deja la categoría como raíz.
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.Response{data=dto.CategoryResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
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
// @Summary      Eliminar categoría
// @Description  Se rechaza si tiene productos o subcategorías.
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return message(c, "categoría eliminada")
}

// Reconcile godoc
// @Summary      Recalcular conteo de productos por categoría
// @Description  Con assignRandom asigna antes una categoría raíz al azar a los productos sin categoría.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReconcileRequest  false  "Opciones"
// @Success      200   {object}  dto.Response{data=dto.ReconcileResult}
// @Router       /api/admin/categories/reconcile [post]
func (h *CategoryHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
	}
	out, err := h.uc.Reconcile(c.UserContext(), in.AssignRandom)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}
