package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
)

// QuoteHandler maneja las peticiones HTTP de cotizaciones.
type QuoteHandler struct {
	uc *usecase.QuoteUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *usecase.QuoteUseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Create godoc
// @Summary      Solicitar cotización (público)
// @Description  totalItems y totalUnits se calculan en el servidor; el número COT-YYMM-NNNN es correlativo por mes.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuoteRequest  true  "Ítems y datos de contacto"
// @Success      201   {object}  dto.Response{data=dto.QuoteResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quotes [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Response{
		Success: true,
		Data:    out,
		Message: "cotización enviada",
	})
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Param        page    query  int     false  "Página"  default(1)
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        sort    query  string  false  "Campo de orden"
// @Param        order   query  string  false  "asc | desc"
// @Success      200     {object}  dto.Response{data=[]dto.QuoteResponse}
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/quotes [get]
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	from, err := dateQuery(c, "from", false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := dateQuery(c, "to", true)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), dto.QuoteListQuery{
		PageRequest: pageRequest(c),
		Status:      c.Query("status"),
		From:        from,
		To:          to,
	})
	if err != nil {
		return respondError(c, err)
	}
	return paged(c, out)
}

// Stats godoc
// @Summary      Conteo de cotizaciones por estado
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.QuoteStatsResponse}
// @Router       /api/quotes/stats [get]
func (h *QuoteHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Get godoc
// @Summary      Obtener cotización
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.Response{data=dto.QuoteResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// PDF godoc
// @Summary      Descargar cotización en PDF
// @Tags         quotes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/pdf [get]
func (h *QuoteHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.uc.PDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Update godoc
// @Summary      Actualizar cotización
// @Description  Si cambian los ítems se recalculan los totales. El número no cambia.
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización"
// @Param        body  body  dto.UpdateQuoteRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.Response{data=dto.QuoteResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [put]
func (h *QuoteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateQuoteRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la cotización
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización"
// @Param        body  body  dto.UpdateQuoteStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.Response{data=dto.QuoteResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/status [put]
func (h *QuoteHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateQuoteStatusRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Delete godoc
// @Summary      Eliminar cotización
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return message(c, "cotización eliminada")
}
