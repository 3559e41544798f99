package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
)

// FeedHandler RSS del blog y sitemap.
type FeedHandler struct {
	uc *usecase.FeedUseCase
}

// NewFeedHandler construye el handler.
func NewFeedHandler(uc *usecase.FeedUseCase) *FeedHandler {
	return &FeedHandler{uc: uc}
}

// BlogRSS godoc
// @Summary      RSS de los últimos posts publicados
// @Tags         blog
// @Produce      application/rss+xml
// @Success      200  {string}  string
// @Router       /api/blog/feed.xml [get]
func (h *FeedHandler) BlogRSS(c *fiber.Ctx) error {
	data, err := h.uc.BlogRSS(c.UserContext(), c.BaseURL()+c.OriginalURL())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/rss+xml; charset=utf-8")
	return c.Send(data)
}

// Sitemap godoc
// @Summary      Sitemap del sitio público
// @Tags         seo
// @Produce      application/xml
// @Success      200  {string}  string
// @Router       /api/sitemap.xml [get]
func (h *FeedHandler) Sitemap(c *fiber.Ctx) error {
	data, err := h.uc.Sitemap(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(data)
}
