package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
)

// ImageHandler proxy al banco de imágenes (solo admin).
type ImageHandler struct {
	uc *usecase.ImageUseCase
}

// NewImageHandler construye el handler.
func NewImageHandler(uc *usecase.ImageUseCase) *ImageHandler {
	return &ImageHandler{uc: uc}
}

// Search godoc
// @Summary      Buscar fotos
// @Tags         images
// @Security     Bearer
// @Produce      json
// @Param        query    query  string  true   "Texto a buscar"
// @Param        page     query  int     false  "Página"          default(1)
// @Param        perPage  query  int     false  "Fotos por página" default(15)
// @Success      200      {object}  dto.Response{data=dto.PhotoPage}
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      503      {object}  dto.ErrorResponse
// @Router       /api/images/search [get]
func (h *ImageHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("query"), c.QueryInt("page", 1), c.QueryInt("perPage", 0))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Curated godoc
// @Summary      Fotos destacadas
// @Tags         images
// @Security     Bearer
// @Produce      json
// @Param        page     query  int  false  "Página"           default(1)
// @Param        perPage  query  int  false  "Fotos por página" default(15)
// @Success      200      {object}  dto.Response{data=dto.PhotoPage}
// @Failure      503      {object}  dto.ErrorResponse
// @Router       /api/images/curated [get]
func (h *ImageHandler) Curated(c *fiber.Ctx) error {
	out, err := h.uc.Curated(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("perPage", 0))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}
