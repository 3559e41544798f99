package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain"
)

// BlogHandler maneja las peticiones HTTP del blog (público y admin).
type BlogHandler struct {
	uc *usecase.BlogUseCase
}

// NewBlogHandler construye el handler.
func NewBlogHandler(uc *usecase.BlogUseCase) *BlogHandler {
	return &BlogHandler{uc: uc}
}

func blogListQuery(c *fiber.Ctx) dto.BlogListQuery {
	return dto.BlogListQuery{
		PageRequest: pageRequest(c),
		Search:      c.Query("search"),
		Tag:         c.Query("tag"),
		IsPublished: boolQuery(c, "isPublished"),
	}
}

// List godoc
// @Summary      Listar posts publicados
// @Tags         blog
// @Produce      json
// @Param        search  query  string  false  "Búsqueda de texto"
// @Param        tag     query  string  false  "Tag"
// @Param        page    query  int     false  "Página"  default(1)
// @Param        limit   query  int     false  "Límite"  default(10)
// @Success      200     {object}  dto.Response{data=[]dto.BlogPostResponse}
// @Router       /api/blog [get]
func (h *BlogHandler) List(c *fiber.Ctx) error {
	q := blogListQuery(c)
	q.IsPublished = nil
	out, err := h.uc.ListPublished(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return paged(c, out)
}

// Tags godoc
// @Summary      Tags de los posts publicados
// @Tags         blog
// @Produce      json
// @Success      200  {object}  dto.Response{data=[]string}
// @Router       /api/blog/tags [get]
func (h *BlogHandler) Tags(c *fiber.Ctx) error {
	out, err := h.uc.Tags(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetBySlug godoc
// @Summary      Obtener post publicado por slug
// @Description  Cada lectura suma una visita.
// @Tags         blog
// @Produce      json
// @Param        slug  path  string  true  "Slug"
// @Success      200   {object}  dto.Response{data=dto.BlogPostResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/blog/slug/{slug} [get]
func (h *BlogHandler) GetBySlug(c *fiber.Ctx) error {
	out, err := h.uc.GetPublishedBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Obtener post publicado por ID
// @Tags         blog
// @Produce      json
// @Param        id   path  string  true  "ID del post"
// @Success      200  {object}  dto.Response{data=dto.BlogPostResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/blog/{id} [get]
func (h *BlogHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetPublishedByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// AdminList godoc
// @Summary      Listar todos los posts (admin)
// @Tags         blog
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Subcadena en título o extracto"
// @Param        isPublished  query  bool    false  "Publicados / borradores"
// @Param        page         query  int     false  "Página"  default(1)
// @Param        limit        query  int     false  "Límite"  default(10)
// @Success      200          {object}  dto.Response{data=[]dto.BlogPostResponse}
// @Router       /api/blog/admin/all [get]
func (h *BlogHandler) AdminList(c *fiber.Ctx) error {
	out, err := h.uc.AdminList(c.UserContext(), blogListQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return paged(c, out)
}

// AdminGet godoc
// @Summary      Obtener post (admin, incluye borradores)
// @Tags         blog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del post"
// @Success      200  {object}  dto.Response{data=dto.BlogPostResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/blog/admin/{id} [get]
func (h *BlogHandler) AdminGet(c *fiber.Ctx) error {
	out, err := h.uc.AdminGet(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear post
// @Description  El autor es el usuario del token.
// @Tags         blog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBlogPostRequest  true  "Contenido del post"
// @Success      201   {object}  dto.Response{data=dto.BlogPostResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/blog [post]
func (h *BlogHandler) Create(c *fiber.Ctx) error {
	author, found := GetIdentity(c)
	if !found {
		return respondError(c, domain.ErrUnauthorized)
	}
	var in dto.CreateBlogPostRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), author, in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out)
}

// Update godoc
// @Summary      Actualizar post
// @Tags         blog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del post"
// @Param        body  body  dto.UpdateBlogPostRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.Response{data=dto.BlogPostResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/blog/{id} [put]
func (h *BlogHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBlogPostRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// TogglePublish godoc
// @Summary      Publicar / despublicar post
// @Description  La primera publicación fija publishedAt; despublicar no lo borra.
// @Tags         blog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del post"
// @Success      200  {object}  dto.Response{data=dto.BlogPostResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/blog/{id}/publish [patch]
func (h *BlogHandler) TogglePublish(c *fiber.Ctx) error {
	out, err := h.uc.TogglePublish(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Delete godoc
// @Summary      Eliminar post
// @Tags         blog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del post"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/blog/{id} [delete]
func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return message(c, "post eliminado")
}
