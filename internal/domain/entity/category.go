package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CategoryCodePrefix prefijo de los códigos secuenciales de categoría.
const CategoryCodePrefix = "CAT-"

// Category nodo del árbol de categorías (en la práctica dos niveles).
// ProductCount es una caché que solo se recalcula con la reconciliación explícita.
type Category struct {
	ID           string
	CategoryCode string // CAT-001, CAT-002, ...
	Name         string
	Slug         string
	Description  string
	Image        string
	Icon         string
	ParentID     string // vacío si es raíz
	SortOrder    int
	IsActive     bool
	ProductCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsRoot indica si la categoría no tiene padre.
func (c *Category) IsRoot() bool { return c.ParentID == "" }

// NextCategoryCode devuelve el código siguiente al mayor código numérico existente.
// Códigos que no siguen el formato CAT-NNN se ignoran.
func NextCategoryCode(existing []string) string {
	max := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, CategoryCodePrefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(code, CategoryCodePrefix))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return FormatCategoryCode(max + 1)
}

// FormatCategoryCode CAT- seguido del número con al menos tres dígitos.
func FormatCategoryCode(n int) string {
	return fmt.Sprintf("%s%03d", CategoryCodePrefix, n)
}
