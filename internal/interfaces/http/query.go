package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
)

// pageRequest lee page, limit, sort y order del query string.
// Valores no numéricos se ignoran y quedan para Normalize del caso de uso.
func pageRequest(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Page:  c.QueryInt("page", 0),
		Limit: c.QueryInt("limit", 0),
		Sort:  strings.TrimSpace(c.Query("sort")),
		Order: strings.ToLower(strings.TrimSpace(c.Query("order"))),
	}
}

// boolQuery devuelve nil si el parámetro no viene; "true"/"1" es verdadero.
func boolQuery(c *fiber.Ctx, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		b = false
	}
	return &b
}

// dateQuery acepta YYYY-MM-DD o RFC3339. "to" con solo fecha incluye el día completo.
func dateQuery(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe ser una fecha YYYY-MM-DD", domain.ErrInvalidInput, key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
