package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/suvenirs-api/internal/application/analytics"
)

// DashboardHandler resumen del panel admin y ventas mensuales.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve conteos de productos, usuarios y cotizaciones más las 5 cotizaciones recientes.
// GET /api/admin/dashboard
// @Summary      Resumen del panel admin
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.DashboardResponse}
// @Router       /api/admin/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// MonthlySales ventas completadas del mes. Sin year/month se usa el mes en curso.
// GET /api/admin/sales/monthly?year=2025&month=3
// @Summary      Ventas del mes
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        year   query  int  false  "Año"
// @Param        month  query  int  false  "Mes (1-12)"
// @Success      200    {object}  dto.Response{data=dto.MonthlySalesResponse}
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/admin/sales/monthly [get]
func (h *DashboardHandler) MonthlySales(c *fiber.Ctx) error {
	out, err := h.uc.MonthlySales(c.UserContext(), c.QueryInt("year", 0), c.QueryInt("month", 0))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}
